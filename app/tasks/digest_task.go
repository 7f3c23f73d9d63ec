package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/rss-digest/app/database"
	"github.com/lysyi3m/rss-digest/app/digest"
	"github.com/lysyi3m/rss-digest/app/feed"
)

type DigestTask struct {
	Task
	articleRepo database.ArticleRepository
	digestRepo  database.DigestRepository
	composer    *digest.Composer
	sink        DigestSink
	day         time.Time
}

func NewDigestTask(articleRepo database.ArticleRepository, digestRepo database.DigestRepository, sink DigestSink) *DigestTask {
	return &DigestTask{
		Task:        NewTask(TaskTypeDigest),
		articleRepo: articleRepo,
		digestRepo:  digestRepo,
		composer:    digest.NewComposer(),
		sink:        sink,
	}
}

// ForDay sets the day composed by Execute. The zero value means today.
func (t *DigestTask) ForDay(day time.Time) *DigestTask {
	t.day = day
	return t
}

func (t *DigestTask) Execute(ctx context.Context) error {
	day := t.day
	if day.IsZero() {
		day = time.Now()
	}

	d, err := t.Run(ctx, day)
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"id", t.GetID(),
		"duration", t.GetDuration(),
		"date", d.DateKey(),
		"articles", d.ArticleCount)

	return nil
}

// Run composes the digest of articles published on day. A digest without
// summarized articles is returned but not stored.
func (t *DigestTask) Run(ctx context.Context, day time.Time) (*digest.Digest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	day = day.In(time.Local)

	records, err := t.articleRepo.GetArticlesByDate(day)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles for digest: %w", err)
	}

	articles := make([]*feed.Article, 0, len(records))
	for _, record := range records {
		articles = append(articles, fromRecord(record))
	}

	d := t.composer.Compose(day, articles)
	if d.IsEmpty() {
		slog.Info("No summarized articles found for digest", "date", d.DateKey(), "articles", len(records))
		return d, nil
	}

	err = t.digestRepo.UpsertDigest(database.Digest{
		Date:         d.DateKey(),
		Content:      d.Text,
		ArticleCount: d.ArticleCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save digest: %w", err)
	}

	if t.sink != nil {
		if _, err := t.sink.Write(d); err != nil {
			return nil, fmt.Errorf("failed to write digest: %w", err)
		}
	}

	slog.Info("Generated daily digest", "date", d.DateKey(), "articles", d.ArticleCount)
	return d, nil
}
