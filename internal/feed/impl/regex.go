package impl

import (
	"regexp"
	"strings"

	"github.com/educalvolpz/wwdc-tracker/internal/feed"
)

// RegexParser extracts items from RSS text with regular expressions. It is
// deliberately loose: feeds that choke a strict XML parser (stray entities,
// unclosed tags, truncated error pages) still yield whatever items survive.
type RegexParser struct{}

var (
	itemPattern = regexp.MustCompile(`(?s)<item[\s>].*?</item>|<item>.*?</item>`)

	titleCDATA       = regexp.MustCompile(`(?s)<title><!\[CDATA\[(.*?)\]\]></title>`)
	titlePlain       = regexp.MustCompile(`(?s)<title>(.*?)</title>`)
	descriptionCDATA = regexp.MustCompile(`(?s)<description><!\[CDATA\[(.*?)\]\]></description>`)
	descriptionPlain = regexp.MustCompile(`(?s)<description>(.*?)</description>`)
	contentCDATA     = regexp.MustCompile(`(?s)<content:encoded><!\[CDATA\[(.*?)\]\]></content:encoded>`)
	contentPlain     = regexp.MustCompile(`(?s)<content:encoded>(.*?)</content:encoded>`)
	linkPattern      = regexp.MustCompile(`(?s)<link>(.*?)</link>`)
	pubDatePattern   = regexp.MustCompile(`(?s)<pubDate>(.*?)</pubDate>`)
	creatorCDATA     = regexp.MustCompile(`(?s)<dc:creator><!\[CDATA\[(.*?)\]\]></dc:creator>`)
	creatorPlain     = regexp.MustCompile(`(?s)<dc:creator>(.*?)</dc:creator>`)
	authorPlain      = regexp.MustCompile(`(?s)<author>(.*?)</author>`)
)

func NewRegexParser() *RegexParser {
	return &RegexParser{}
}

func (p *RegexParser) Parse(raw string) []feed.Item {
	blocks := itemPattern.FindAllString(raw, -1)
	items := make([]feed.Item, 0, len(blocks))
	for _, block := range blocks {
		items = append(items, feed.Item{
			Title:       first(block, titleCDATA, titlePlain),
			Description: first(block, descriptionCDATA, descriptionPlain),
			Content:     first(block, contentCDATA, contentPlain),
			Link:        strings.TrimSpace(first(block, linkPattern)),
			PubDate:     strings.TrimSpace(first(block, pubDatePattern)),
			Author:      strings.TrimSpace(first(block, creatorCDATA, creatorPlain, authorPlain)),
		})
	}
	return items
}

// first returns the first capture group of the first pattern that matches.
// CDATA patterns are listed before their plain-text fallbacks.
func first(block string, patterns ...*regexp.Regexp) string {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(block); m != nil {
			return m[1]
		}
	}
	return ""
}
