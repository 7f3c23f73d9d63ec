package feed

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/lysyi3m/rss-digest/app/errs"
)

type MergeResult struct {
	Articles   []*Article
	Stale      int // at or before the cutoff
	Capped     int // removed by the per-feed cap
	Dropped    int // no identity key
	Duplicates int
	// SortErr is set when some articles had no usable published instant and
	// the global ordering was left as merged.
	SortErr error
}

type Ranker struct{}

func NewRanker() *Ranker {
	return &Ranker{}
}

// Run filters each feed by recency, caps it, then merges, deduplicates and
// orders the result newest first. perFeedCap <= 0 disables the cap.
func (r *Ranker) Run(feeds [][]RawArticle, cutoff time.Time, perFeedCap int) MergeResult {
	var result MergeResult
	var merged []RawArticle

	for _, articles := range feeds {
		recent, stale := r.filterRecent(articles, cutoff)
		result.Stale += stale

		capped := r.capFeed(recent, perFeedCap)
		result.Capped += len(recent) - len(capped)

		merged = append(merged, capped...)
	}

	seen := make(map[string]bool, len(merged))
	unknown := 0
	for _, raw := range merged {
		key := raw.Key()
		if key == "" {
			result.Dropped++
			continue
		}
		if seen[key] {
			result.Duplicates++
			continue
		}
		seen[key] = true

		if raw.Published.IsZero() {
			unknown++
		}
		result.Articles = append(result.Articles, newArticle(raw))
	}

	if unknown > 0 {
		result.SortErr = errs.Parse("rank articles",
			fmt.Errorf("%d articles without a published instant, order left as merged", unknown))
		slog.Warn("Skipping global sort", "error", result.SortErr)
	} else {
		slices.SortStableFunc(result.Articles, func(a, b *Article) int {
			return b.Published.Compare(a.Published)
		})
	}

	return result
}

// filterRecent keeps articles strictly newer than cutoff. Articles without a
// published instant cannot be compared and are kept.
func (r *Ranker) filterRecent(articles []RawArticle, cutoff time.Time) ([]RawArticle, int) {
	recent := make([]RawArticle, 0, len(articles))
	stale := 0
	for _, a := range articles {
		if a.Published.IsZero() || a.Published.After(cutoff) {
			recent = append(recent, a)
		} else {
			stale++
		}
	}
	return recent, stale
}

func (r *Ranker) capFeed(articles []RawArticle, perFeedCap int) []RawArticle {
	if perFeedCap <= 0 || len(articles) <= perFeedCap {
		return articles
	}

	if slices.ContainsFunc(articles, func(a RawArticle) bool { return a.Published.IsZero() }) {
		slog.Warn("Feed has articles without published instant, capping in feed order",
			"feed", articles[0].FeedTitle, "cap", perFeedCap)
		return articles[:perFeedCap]
	}

	sorted := slices.Clone(articles)
	slices.SortStableFunc(sorted, func(a, b RawArticle) int {
		return b.Published.Compare(a.Published)
	})
	return sorted[:perFeedCap]
}

func newArticle(raw RawArticle) *Article {
	article := &Article{
		RawArticle:    raw,
		SummaryMethod: MethodNone,
	}
	if CharCount(raw.FeedContent) > MinContentLength {
		article.Content = raw.FeedContent
	}
	return article
}
