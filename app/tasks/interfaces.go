package tasks

import (
	"context"
	"time"

	"github.com/lysyi3m/rss-digest/app/catalog"
	"github.com/lysyi3m/rss-digest/app/digest"
	"github.com/lysyi3m/rss-digest/app/feed"
	"github.com/lysyi3m/rss-digest/app/summary"
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	Start()
	GetDuration() time.Duration
}

// TaskSchedulerInterface runs tasks on a timer with at most one run in
// flight.
//
//	scheduler := NewScheduler(newTask, DefaultSchedules...)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start() error
	Stop()
}

type FeedFetcher interface {
	Run(ctx context.Context, descriptor catalog.Descriptor) ([]feed.RawArticle, error)
}

type ContentSource interface {
	Run(ctx context.Context, link string) (string, bool)
}

type ArticleSummarizer interface {
	Summarize(ctx context.Context, content, title string) *summary.Result
}

type DigestSink interface {
	Write(d *digest.Digest) (string, error)
}
