package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/lysyi3m/rss-digest/app/errs"
	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
	dates        *DateNormalizer
}

func NewParser(dates *DateNormalizer) *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
		dates:        dates,
	}
}

// Run parses RSS, Atom or JSON feeds. gofeed already tolerates unknown
// elements and sloppy markup, but returns no partial result on a hard
// syntax error, so such a feed yields a Parse error and no articles.
func (p *Parser) Run(data []byte) (*Metadata, []RawArticle, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, errs.Parse("parse feed", fmt.Errorf("failed to parse feed: %w", err))
	}

	metadata := &Metadata{
		Title:    strings.TrimSpace(parsed.Title),
		Link:     parsed.Link,
		Language: parsed.Language,
	}

	articles := make([]RawArticle, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		article := p.normalizeItem(item)
		article.Source = cmp.Or(metadata.Title, "Unknown")
		articles = append(articles, article)
	}

	return metadata, articles, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) RawArticle {
	article := RawArticle{
		GUID:        strings.TrimSpace(cmp.Or(item.GUID, item.Link)),
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Description: PlainText(item.Description),
		FeedContent: PlainText(item.Content),
		Author:      p.extractAuthor(item),
		Tags:        p.extractTags(item),
	}

	if item.PublishedParsed != nil {
		article.Published = Normalize(*item.PublishedParsed)
	} else {
		article.Published = p.dates.Parse(cmp.Or(item.Published, item.Updated))
	}

	if len(item.Categories) > 0 {
		article.EntryCategory = strings.TrimSpace(item.Categories[0])
	}

	return article
}

// extractTags merges the entry's category list with its Dublin Core subject
// into a set, keeping first-seen order.
func (p *Parser) extractTags(item *gofeed.Item) []string {
	candidates := append([]string{}, item.Categories...)
	if item.DublinCoreExt != nil {
		candidates = append(candidates, item.DublinCoreExt.Subject...)
	}

	seen := make(map[string]bool, len(candidates))
	var tags []string
	for _, tag := range candidates {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

func (p *Parser) extractAuthor(item *gofeed.Item) string {
	for _, author := range item.Authors {
		if author == nil {
			continue
		}
		if formatted := p.formatAuthor(author.Name, author.Email); formatted != "" {
			return formatted
		}
	}

	if item.Author != nil {
		return p.formatAuthor(item.Author.Name, item.Author.Email)
	}

	return ""
}

func (p *Parser) formatAuthor(name, email string) string {
	return cmp.Or(strings.TrimSpace(name), strings.TrimSpace(email))
}
