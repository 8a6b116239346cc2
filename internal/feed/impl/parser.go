package impl

import (
	"strings"

	"github.com/educalvolpz/wwdc-tracker/internal/feed"
	"github.com/mmcdole/gofeed"
)

// Parser is the default feed parser: gofeed's universal parser first, with the
// regex extractor as the fallback for documents gofeed rejects outright.
type Parser struct {
	gofeed   *gofeed.Parser
	fallback *RegexParser
}

func NewParser() *Parser {
	return &Parser{
		gofeed:   gofeed.NewParser(),
		fallback: NewRegexParser(),
	}
}

func (p *Parser) Parse(raw string) []feed.Item {
	parsed, err := p.gofeed.ParseString(raw)
	if err != nil || parsed == nil {
		return p.fallback.Parse(raw)
	}

	items := make([]feed.Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if entry == nil {
			continue
		}
		item := feed.Item{
			Title:       entry.Title,
			Description: entry.Description,
			Content:     entry.Content,
			Link:        strings.TrimSpace(entry.Link),
			PubDate:     strings.TrimSpace(entry.Published),
		}
		if item.PubDate == "" {
			item.PubDate = strings.TrimSpace(entry.Updated)
		}
		if entry.Author != nil {
			item.Author = strings.TrimSpace(entry.Author.Name)
		}
		items = append(items, item)
	}
	return items
}
