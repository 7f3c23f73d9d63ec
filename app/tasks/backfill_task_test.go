package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/lysyi3m/rss-digest/app/database"
	"github.com/lysyi3m/rss-digest/app/feed"
	"github.com/lysyi3m/rss-digest/app/summary"
)

func TestBackfillTask_Execute(t *testing.T) {
	repo := newMockArticleRepo()
	published := time.Date(2024, 10, 2, 9, 0, 0, 0, time.UTC)
	for _, a := range []database.Article{
		{GUID: "pending", Link: "https://example.com/pending", SummaryMethod: "none", Published: published},
		{GUID: "hopeless", Link: "https://example.com/no-body", SummaryMethod: "none", Published: published},
		{GUID: "done", Summary: "Already summarized.", SummaryMethod: "openai", Published: published},
	} {
		if err := repo.UpsertArticle(a); err != nil {
			t.Fatal(err)
		}
	}

	extractor := &mockExtractor{}
	task := NewBackfillTask(repo, extractor, summary.NewSummarizer(), 0)
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	pending := repo.articles["pending"]
	if pending.SummaryMethod != string(feed.MethodExtractive) || pending.Content == "" {
		t.Errorf("Expected pending article to be summarized, got: %+v", pending)
	}
	if repo.articles["hopeless"].Summary != "" {
		t.Error("Expected article without body to stay unsummarized")
	}
	if repo.articles["done"].SummaryMethod != "openai" {
		t.Error("Expected summarized article to be left alone")
	}
	if len(extractor.calls) != 2 {
		t.Errorf("Expected 2 extraction attempts, got: %v", extractor.calls)
	}
}
