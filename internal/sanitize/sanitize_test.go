package sanitize

import (
	"strings"
	"testing"
)

func TestCleanStripsTagsAndEntities(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "tags removed",
			in:   `<p>Apple <strong>announces</strong> iOS 26</p>`,
			want: "Apple announces iOS 26",
		},
		{
			name: "named entities decoded",
			in:   "Apple&nbsp;&amp;&nbsp;developers &quot;together&quot;",
			want: `Apple & developers "together"`,
		},
		{
			name: "symbol entities decoded",
			in:   "&copy; Apple &reg; iPhone&trade;",
			want: "© Apple ® iPhone™",
		},
		{
			name: "unknown entities become spaces",
			in:   "visionOS&mdash;spatial&hellip;computing",
			want: "visionOS spatial computing",
		},
		{
			name: "whitespace collapsed and trimmed",
			in:   "  keynote \n\t recap  ",
			want: "keynote recap",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanLeavesNoResidue(t *testing.T) {
	inputs := []string{
		`<div class="body"><a href="https://example.com">link</a> &amp; more &unknown; text</div>`,
		"<item><title>nested <b>markup</b></title></item>",
		"plain text without markup",
	}
	for _, in := range inputs {
		got := Clean(in)
		if strings.ContainsAny(got, "<>") {
			t.Errorf("Clean(%q) left tag delimiters: %q", in, got)
		}
		if entityPattern.MatchString(got) {
			t.Errorf("Clean(%q) left entity residue: %q", in, got)
		}
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 400)
	got := Truncate(long, 300)
	if len(got) != 300+len(Ellipsis) {
		t.Errorf("truncated length = %d, want %d", len(got), 300+len(Ellipsis))
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Errorf("truncated output missing ellipsis marker: %q", got[len(got)-10:])
	}

	short := "short description"
	if got := Truncate(short, 300); got != short {
		t.Errorf("Truncate should not touch strings under the cap, got %q", got)
	}

	if got := Truncate(long, 0); got != long {
		t.Errorf("Truncate with no cap should be a no-op")
	}
}

func TestLooksLikeMarkup(t *testing.T) {
	if !LooksLikeMarkup(`div class="promo" content`) {
		t.Error("expected class= to be flagged as markup residue")
	}
	if !LooksLikeMarkup(`img src="https://example.com/x.png"`) {
		t.Error("expected src= to be flagged as markup residue")
	}
	if LooksLikeMarkup("a perfectly normal sentence") {
		t.Error("plain text misflagged as markup")
	}
}
