package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/lysyi3m/rss-digest/app/catalog"
	"github.com/lysyi3m/rss-digest/app/database"
	"github.com/lysyi3m/rss-digest/app/feed"
)

const statsFeedsPerCategory = 3

func printStats(w io.Writer, c *catalog.Catalog, articleRepo database.ArticleRepository, digestRepo database.DigestRepository) error {
	stats := c.Stats()

	fmt.Fprintln(w, "Feed catalog")
	fmt.Fprintf(w, "  Total feeds: %d\n", stats.TotalFeeds)
	fmt.Fprintf(w, "  Categories: %d\n", stats.CategoryCount())

	for _, cs := range stats.Categories {
		fmt.Fprintf(w, "\n  %s (%d feeds)\n", strings.ToUpper(cs.Name), len(cs.Feeds))
		for i, title := range cs.Feeds {
			if i == statsFeedsPerCategory {
				fmt.Fprintf(w, "    ... and %d more\n", len(cs.Feeds)-statsFeedsPerCategory)
				break
			}
			fmt.Fprintf(w, "    - %s\n", title)
		}
	}

	articleStats, err := articleRepo.GetArticleStats()
	if err != nil {
		return fmt.Errorf("failed to get article stats: %w", err)
	}

	fmt.Fprintln(w, "\nArticle store")
	fmt.Fprintf(w, "  Total articles: %d\n", articleStats.Total)
	fmt.Fprintf(w, "  Summarized: %d\n", articleStats.Summarized)
	for _, method := range []feed.SummaryMethod{feed.MethodHuggingFace, feed.MethodOpenAI, feed.MethodExtractive, feed.MethodNone} {
		if n := articleStats.ByMethod[string(method)]; n > 0 {
			fmt.Fprintf(w, "    %s: %d\n", method, n)
		}
	}
	if articleStats.Newest != nil {
		fmt.Fprintf(w, "  Newest: %s\n", articleStats.Newest.Local().Format("2006-01-02 15:04"))
	}
	if articleStats.Oldest != nil {
		fmt.Fprintf(w, "  Oldest: %s\n", articleStats.Oldest.Local().Format("2006-01-02 15:04"))
	}

	digests, err := digestRepo.GetRecentDigests(5)
	if err != nil {
		return fmt.Errorf("failed to get recent digests: %w", err)
	}
	if len(digests) > 0 {
		fmt.Fprintln(w, "\nRecent digests")
		for _, d := range digests {
			fmt.Fprintf(w, "  %s: %d articles\n", d.Date, d.ArticleCount)
		}
	}

	return nil
}
