package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

var defaultFeeds = []Descriptor{
	{URL: "https://feeds.bbci.co.uk/news/rss.xml", Title: "BBC News", Category: "news"},
	{URL: "https://rss.cnn.com/rss/edition.rss", Title: "CNN", Category: "news"},
	{URL: "https://feeds.reuters.com/reuters/topNews", Title: "Reuters", Category: "news"},
	{URL: "https://techcrunch.com/feed/", Title: "TechCrunch", Category: "technology"},
	{URL: "https://www.theverge.com/rss/index.xml", Title: "The Verge", Category: "technology"},
	{URL: "https://feeds.arstechnica.com/arstechnica/index", Title: "Ars Technica", Category: "technology"},
	{URL: "https://www.sciencedaily.com/rss/all.xml", Title: "Science Daily", Category: "science"},
}

// Default is the starter catalog written when no catalog file exists.
func Default() *Catalog {
	return New(defaultFeeds)
}

// Resolve returns the first candidate path that exists. When none does, the
// starter catalog is written to the first candidate.
func Resolve(candidates ...string) (string, error) {
	if len(candidates) == 0 {
		return "", errors.New("no catalog path configured")
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat catalog: %w", err)
		}
	}

	path := candidates[0]
	if err := Write(path, Default()); err != nil {
		return "", fmt.Errorf("failed to create default catalog: %w", err)
	}
	slog.Info("Created default catalog", "path", path)
	return path, nil
}
