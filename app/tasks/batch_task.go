package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/rss-digest/app/catalog"
	"github.com/lysyi3m/rss-digest/app/database"
	"github.com/lysyi3m/rss-digest/app/errs"
	"github.com/lysyi3m/rss-digest/app/feed"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultHoursBack   = 24
	DefaultPerFeedCap  = 15
	DefaultWorkerCount = 5
)

type BatchSettings struct {
	HoursBack   int
	PerFeedCap  int
	WorkerCount int
}

// BatchTask fetches every catalog feed, ranks the merged articles, enriches
// them with content and summaries, persists them, then composes the day's
// digest.
type BatchTask struct {
	Task
	catalog     *catalog.Catalog
	fetcher     FeedFetcher
	ranker      *feed.Ranker
	extractor   ContentSource
	summarizer  ArticleSummarizer
	articleRepo database.ArticleRepository
	digestTask  *DigestTask
	settings    BatchSettings
	now         func() time.Time
}

func NewBatchTask(catalog *catalog.Catalog, fetcher FeedFetcher, extractor ContentSource, summarizer ArticleSummarizer,
	articleRepo database.ArticleRepository, digestTask *DigestTask, settings BatchSettings) *BatchTask {
	if settings.WorkerCount <= 0 {
		settings.WorkerCount = DefaultWorkerCount
	}

	return &BatchTask{
		Task:        NewTask(TaskTypeBatch),
		catalog:     catalog,
		fetcher:     fetcher,
		ranker:      feed.NewRanker(),
		extractor:   extractor,
		summarizer:  summarizer,
		articleRepo: articleRepo,
		digestTask:  digestTask,
		settings:    settings,
		now:         time.Now,
	}
}

func (t *BatchTask) Execute(ctx context.Context) error {
	processed, err := t.RunBatch(ctx, t.settings.HoursBack, t.settings.PerFeedCap)
	if err != nil {
		return err
	}

	if t.digestTask != nil {
		if _, err := t.digestTask.Run(ctx, t.now()); err != nil {
			return fmt.Errorf("failed to generate daily digest: %w", err)
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"id", t.GetID(),
		"duration", t.GetDuration(),
		"processed", processed)

	return nil
}

// RunBatch returns the number of persisted articles. Per-feed and
// per-article failures are logged and skipped; only an unreachable store
// or cancellation aborts the run.
func (t *BatchTask) RunBatch(ctx context.Context, hoursBack, perFeedCap int) (int, error) {
	if err := t.articleRepo.Ping(); err != nil {
		return 0, errs.Fatal("run batch", err)
	}

	feedArticles, err := t.fetchAll(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := t.now().Add(-time.Duration(hoursBack) * time.Hour)
	result := t.ranker.Run(feedArticles, cutoff, perFeedCap)

	slog.Info("Articles ranked",
		"articles", len(result.Articles),
		"stale", result.Stale,
		"capped", result.Capped,
		"duplicates", result.Duplicates,
		"dropped", result.Dropped)

	if len(result.Articles) == 0 {
		slog.Warn("No articles found, check the feed catalog")
		return 0, nil
	}

	if err := t.enrichAll(ctx, result.Articles); err != nil {
		return 0, err
	}

	processedAt := t.now()
	processed := 0
	for _, article := range result.Articles {
		if err := t.articleRepo.UpsertArticle(toRecord(article, processedAt)); err != nil {
			slog.Error("Failed to save article", "guid", article.Key(), "title", article.Title, "error", err)
			continue
		}
		processed++
	}

	slog.Info("Batch processed", "processed", processed, "total", len(result.Articles))
	return processed, nil
}

// fetchAll fetches feeds concurrently and returns their articles in catalog
// order.
func (t *BatchTask) fetchAll(ctx context.Context) ([][]feed.RawArticle, error) {
	descriptors := t.catalog.Feeds()
	results := make([][]feed.RawArticle, len(descriptors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.settings.WorkerCount)

	for i, descriptor := range descriptors {
		g.Go(func() error {
			defer recoverUnit("feed", "url", descriptor.URL)

			articles, err := t.fetcher.Run(gctx, descriptor)
			if err != nil {
				slog.Warn("Failed to fetch feed",
					"url", descriptor.URL,
					"kind", errs.KindOf(err),
					"error", err)
				return nil
			}
			results[i] = articles
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fetched := 0
	for _, articles := range results {
		fetched += len(articles)
	}
	slog.Info("Feeds fetched", "feeds", len(descriptors), "articles", fetched)

	return results, nil
}

// enrichAll mutates each article in place. Completion order does not
// matter because articles keep their ranked positions.
func (t *BatchTask) enrichAll(ctx context.Context, articles []*feed.Article) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.settings.WorkerCount)

	for i, article := range articles {
		g.Go(func() error {
			slog.Debug("Processing article",
				"position", i+1,
				"total", len(articles),
				"title", article.Title)
			enrich(gctx, article, t.extractor, t.summarizer)
			return nil
		})
	}

	_ = g.Wait()
	return ctx.Err()
}

// enrich leaves the article without a summary when extraction or
// summarization panics.
func enrich(ctx context.Context, article *feed.Article, extractor ContentSource, summarizer ArticleSummarizer) {
	defer recoverUnit("article", "link", article.Link)

	if article.Content == "" && article.Link != "" {
		if content, ok := extractor.Run(ctx, article.Link); ok {
			article.Content = content
		}
	}

	if article.Content == "" {
		return
	}

	result := summarizer.Summarize(ctx, article.Content, article.Title)
	if result == nil {
		return
	}

	article.Summary = result.Summary
	article.SummaryMethod = result.Method
	slog.Debug("Generated summary",
		"guid", article.Key(),
		"method", result.Method,
		"original_length", result.OriginalLength,
		"summary_length", result.SummaryLength)
}

// recoverUnit must be deferred directly. A panic in one feed or article is
// logged and the unit counts as failed.
func recoverUnit(unit string, args ...any) {
	if r := recover(); r != nil {
		slog.Error("Recovered from panic", append([]any{"unit", unit, "panic", r}, args...)...)
	}
}
