package catalog

import (
	"cmp"
	"strings"
)

const DefaultCategory = "general"

// Descriptor identifies one configured feed.
type Descriptor struct {
	URL      string `json:"url" yaml:"url"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Category string `json:"category" yaml:"category"`
}

// Catalog is an immutable, ordered list of feed descriptors.
type Catalog struct {
	feeds []Descriptor
}

func New(descriptors []Descriptor) *Catalog {
	feeds := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		d.URL = strings.TrimSpace(d.URL)
		if d.URL == "" {
			continue
		}
		d.Title = strings.TrimSpace(d.Title)
		d.Category = cmp.Or(strings.TrimSpace(d.Category), DefaultCategory)
		feeds = append(feeds, d)
	}
	return &Catalog{feeds: feeds}
}

func (c *Catalog) Feeds() []Descriptor {
	out := make([]Descriptor, len(c.feeds))
	copy(out, c.feeds)
	return out
}

func (c *Catalog) Len() int {
	return len(c.feeds)
}

type CategoryStats struct {
	Name  string
	Feeds []string
}

type Stats struct {
	TotalFeeds int
	Categories []CategoryStats
}

func (s Stats) CategoryCount() int {
	return len(s.Categories)
}

// Stats groups feed titles by category in first-seen order.
func (c *Catalog) Stats() Stats {
	stats := Stats{TotalFeeds: len(c.feeds)}
	index := make(map[string]int)

	for _, d := range c.feeds {
		i, ok := index[d.Category]
		if !ok {
			i = len(stats.Categories)
			index[d.Category] = i
			stats.Categories = append(stats.Categories, CategoryStats{Name: d.Category})
		}
		stats.Categories[i].Feeds = append(stats.Categories[i].Feeds, cmp.Or(d.Title, d.URL))
	}

	return stats
}
