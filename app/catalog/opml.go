package catalog

import (
	"cmp"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/gilliek/go-opml/opml"
)

var (
	categoryStrip = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	categorySpace = regexp.MustCompile(`\s+`)
)

// CleanCategory lower-cases a category name and reduces it to word
// characters, dashes and underscores.
func CleanCategory(name string) string {
	cleaned := categoryStrip.ReplaceAllString(strings.ToLower(name), "")
	cleaned = categorySpace.ReplaceAllString(strings.TrimSpace(cleaned), "_")
	return cmp.Or(cleaned, DefaultCategory)
}

// isFeed reports whether an outline is a feed. Anything else is a category
// grouping its children.
func isFeed(o opml.Outline) bool {
	return strings.TrimSpace(o.XMLURL) != ""
}

func decodeOPML(data []byte) ([]Descriptor, error) {
	var doc opml.OPML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse OPML: %w", err)
	}

	var descriptors []Descriptor
	for _, outline := range doc.Body.Outlines {
		descriptors = walkOutline(outline, DefaultCategory, descriptors)
	}
	return descriptors, nil
}

func walkOutline(o opml.Outline, category string, acc []Descriptor) []Descriptor {
	if isFeed(o) {
		return append(acc, Descriptor{
			URL:      strings.TrimSpace(o.XMLURL),
			Title:    cmp.Or(o.Title, o.Text),
			Category: CleanCategory(cmp.Or(o.Category, category)),
		})
	}

	inherited := cmp.Or(o.Text, o.Title, category)
	for _, child := range o.Outlines {
		acc = walkOutline(child, inherited, acc)
	}
	return acc
}

// encodeOPML groups feeds under one outline per category. The conversion is
// lossy: categories are cleaned again on load and feeds come back grouped.
func encodeOPML(c *Catalog) ([]byte, error) {
	doc := &opml.OPML{
		Version: "1.0",
		Head:    opml.Head{Title: "RSS Feeds"},
	}

	index := make(map[string]int)
	for _, d := range c.Feeds() {
		i, ok := index[d.Category]
		if !ok {
			i = len(doc.Body.Outlines)
			index[d.Category] = i
			doc.Body.Outlines = append(doc.Body.Outlines, opml.Outline{Text: d.Category, Title: d.Category})
		}
		doc.Body.Outlines[i].Outlines = append(doc.Body.Outlines[i].Outlines, opml.Outline{
			Type:   "rss",
			Text:   d.Title,
			Title:  d.Title,
			XMLURL: d.URL,
		})
	}

	out, err := doc.XML()
	if err != nil {
		return nil, fmt.Errorf("failed to encode OPML: %w", err)
	}
	return []byte(out + "\n"), nil
}
