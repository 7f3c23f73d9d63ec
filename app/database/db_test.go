package database

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "articles.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenRunsMigrations(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected repeated migration run to succeed, got: %v", err)
	}
	if version != 2 || dirty {
		t.Errorf("Expected clean version 2, got: %d (dirty=%v)", version, dirty)
	}
}

func TestArticleRepo_Upsert(t *testing.T) {
	repo := NewArticleRepository(openTestDB(t))

	published := time.Date(2024, 10, 2, 12, 0, 0, 0, time.UTC)
	article := Article{
		GUID:          "guid-1",
		Title:         "First title",
		Link:          "https://example.com/1",
		SummaryMethod: "none",
		Published:     published,
		FeedCategory:  "tech",
		Tags:          []string{"go", "rss"},
	}
	if err := repo.UpsertArticle(article); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	article.Title = "Updated title"
	article.Summary = "A summary."
	article.SummaryMethod = "extractive"
	if err := repo.UpsertArticle(article); err != nil {
		t.Fatalf("Expected no error on second upsert, got: %v", err)
	}

	articles, err := repo.GetArticlesByDate(published)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("Expected upsert to keep a single row, got: %d", len(articles))
	}

	got := articles[0]
	if got.Title != "Updated title" || got.Summary != "A summary." || got.SummaryMethod != "extractive" {
		t.Errorf("Expected replaced row, got: %+v", got)
	}
	if !got.Published.Equal(published) {
		t.Errorf("Expected published %v, got: %v", published, got.Published)
	}
	if !reflect.DeepEqual(got.Tags, []string{"go", "rss"}) {
		t.Errorf("Expected tags to round-trip, got: %v", got.Tags)
	}
	if got.ProcessedAt.IsZero() {
		t.Error("Expected processed time to be set")
	}
}

func TestArticleRepo_RejectsEmptyGUID(t *testing.T) {
	repo := NewArticleRepository(openTestDB(t))
	if err := repo.UpsertArticle(Article{Title: "no key"}); err == nil {
		t.Error("Expected error for article without guid")
	}
}

func TestArticleRepo_GetArticlesByDateUsesDayLocation(t *testing.T) {
	repo := NewArticleRepository(openTestDB(t))

	loc := time.FixedZone("UTC+3", 3*3600)
	instants := map[string]time.Time{
		"before":      time.Date(2024, 10, 1, 20, 59, 59, 0, time.UTC),
		"start":       time.Date(2024, 10, 1, 21, 0, 0, 0, time.UTC),
		"late":        time.Date(2024, 10, 2, 20, 59, 59, 0, time.UTC),
		"next-day":    time.Date(2024, 10, 2, 21, 0, 0, 0, time.UTC),
		"unpublished": {},
	}
	for guid, published := range instants {
		if err := repo.UpsertArticle(Article{GUID: guid, SummaryMethod: "none", Published: published}); err != nil {
			t.Fatalf("Failed to upsert %s: %v", guid, err)
		}
	}

	articles, err := repo.GetArticlesByDate(time.Date(2024, 10, 2, 15, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var guids []string
	for _, a := range articles {
		guids = append(guids, a.GUID)
	}
	if !reflect.DeepEqual(guids, []string{"late", "start"}) {
		t.Errorf("Expected [late start], got: %v", guids)
	}
}

func TestArticleRepo_StatsAndUnsummarized(t *testing.T) {
	repo := NewArticleRepository(openTestDB(t))

	base := time.Date(2024, 10, 2, 8, 0, 0, 0, time.UTC)
	fixtures := []Article{
		{GUID: "a", Summary: "s", SummaryMethod: "huggingface", Published: base},
		{GUID: "b", Summary: "s", SummaryMethod: "extractive", Published: base.Add(time.Hour)},
		{GUID: "c", SummaryMethod: "none", Published: base.Add(2 * time.Hour)},
		{GUID: "d", SummaryMethod: "none", Published: base.Add(-time.Hour)},
	}
	for _, a := range fixtures {
		if err := repo.UpsertArticle(a); err != nil {
			t.Fatalf("Failed to upsert %s: %v", a.GUID, err)
		}
	}

	stats, err := repo.GetArticleStats()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if stats.Total != 4 || stats.Summarized != 2 {
		t.Errorf("Expected 4 total and 2 summarized, got: %d and %d", stats.Total, stats.Summarized)
	}
	if stats.ByMethod["none"] != 2 || stats.ByMethod["huggingface"] != 1 {
		t.Errorf("Unexpected method counts: %v", stats.ByMethod)
	}
	if stats.Newest == nil || !stats.Newest.Equal(base.Add(2*time.Hour)) {
		t.Errorf("Unexpected newest: %v", stats.Newest)
	}

	pending, err := repo.GetUnsummarizedArticles(10)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(pending) != 2 || pending[0].GUID != "c" {
		t.Errorf("Expected unsummarized [c d], got: %+v", pending)
	}
}

func TestDigestRepo(t *testing.T) {
	repo := NewDigestRepository(openTestDB(t))

	missing, err := repo.GetDigest("2024-10-02")
	if err != nil || missing != nil {
		t.Fatalf("Expected nil digest without error, got: %v, %v", missing, err)
	}

	if err := repo.UpsertDigest(Digest{Date: "2024-10-02", Content: "first", ArticleCount: 1}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := repo.UpsertDigest(Digest{Date: "2024-10-02", Content: "second", ArticleCount: 3}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := repo.UpsertDigest(Digest{Date: "2024-10-01", Content: "older", ArticleCount: 2}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	digest, err := repo.GetDigest("2024-10-02")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if digest.Content != "second" || digest.ArticleCount != 3 {
		t.Errorf("Expected replaced digest, got: %+v", digest)
	}

	recent, err := repo.GetRecentDigests(10)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(recent) != 2 || recent[0].Date != "2024-10-02" {
		t.Errorf("Expected two digests newest first, got: %+v", recent)
	}
}
