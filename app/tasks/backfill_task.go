package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/rss-digest/app/database"
)

const DefaultBackfillLimit = 50

// BackfillTask retries content extraction and summarization for stored
// articles that have no summary yet.
type BackfillTask struct {
	Task
	articleRepo database.ArticleRepository
	extractor   ContentSource
	summarizer  ArticleSummarizer
	limit       int
}

func NewBackfillTask(articleRepo database.ArticleRepository, extractor ContentSource, summarizer ArticleSummarizer, limit int) *BackfillTask {
	if limit <= 0 {
		limit = DefaultBackfillLimit
	}
	return &BackfillTask{
		Task:        NewTask(TaskTypeBackfill),
		articleRepo: articleRepo,
		extractor:   extractor,
		summarizer:  summarizer,
		limit:       limit,
	}
}

func (t *BackfillTask) Execute(ctx context.Context) error {
	records, err := t.articleRepo.GetUnsummarizedArticles(t.limit)
	if err != nil {
		return fmt.Errorf("failed to get unsummarized articles: %w", err)
	}

	if len(records) == 0 {
		slog.Debug("No articles need summarization")
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, record := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		article := fromRecord(record)
		enrich(ctx, article, t.extractor, t.summarizer)
		if !article.HasSummary() {
			continue
		}

		if err := t.articleRepo.UpsertArticle(toRecord(article, time.Now())); err != nil {
			slog.Error("Failed to save article", "guid", record.GUID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"id", t.GetID(),
		"duration", t.GetDuration(),
		"candidates", len(records),
		"success", successCount,
		"errors", errorCount)

	return nil
}
