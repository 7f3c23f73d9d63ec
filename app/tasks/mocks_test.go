package tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lysyi3m/rss-digest/app/database"
	"github.com/lysyi3m/rss-digest/app/digest"
)

type mockArticleRepo struct {
	mu       sync.Mutex
	pingErr  error
	articles map[string]database.Article
	order    []string
}

func newMockArticleRepo() *mockArticleRepo {
	return &mockArticleRepo{articles: make(map[string]database.Article)}
}

func (m *mockArticleRepo) Ping() error {
	return m.pingErr
}

func (m *mockArticleRepo) UpsertArticle(article database.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if article.GUID == "" {
		return fmt.Errorf("empty guid")
	}
	m.articles[article.GUID] = article
	m.order = append(m.order, article.GUID)
	return nil
}

func (m *mockArticleRepo) GetArticlesByDate(day time.Time) ([]database.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := day.Format("2006-01-02")
	var out []database.Article
	for _, a := range m.articles {
		if !a.Published.IsZero() && a.Published.In(day.Location()).Format("2006-01-02") == key {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Published.After(out[j].Published) })
	return out, nil
}

func (m *mockArticleRepo) GetUnsummarizedArticles(limit int) ([]database.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []database.Article
	for _, guid := range m.order {
		a := m.articles[guid]
		if a.Summary == "" && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockArticleRepo) GetArticleStats() (*database.ArticleStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &database.ArticleStats{Total: len(m.articles), ByMethod: make(map[string]int)}
	for _, a := range m.articles {
		if a.Summary != "" {
			stats.Summarized++
		}
		stats.ByMethod[a.SummaryMethod]++
	}
	return stats, nil
}

type mockDigestRepo struct {
	mu      sync.Mutex
	digests map[string]database.Digest
}

func newMockDigestRepo() *mockDigestRepo {
	return &mockDigestRepo{digests: make(map[string]database.Digest)}
}

func (m *mockDigestRepo) UpsertDigest(d database.Digest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.digests[d.Date] = d
	return nil
}

func (m *mockDigestRepo) GetDigest(date string) (*database.Digest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.digests[date]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *mockDigestRepo) GetRecentDigests(limit int) ([]database.Digest, error) {
	return nil, nil
}

type mockSink struct {
	written []*digest.Digest
}

func (m *mockSink) Write(d *digest.Digest) (string, error) {
	m.written = append(m.written, d)
	return "digest_" + d.DateKey() + ".txt", nil
}

type mockExtractor struct {
	mu    sync.Mutex
	calls []string
}

func (m *mockExtractor) Run(ctx context.Context, link string) (string, bool) {
	m.mu.Lock()
	m.calls = append(m.calls, link)
	m.mu.Unlock()

	if strings.Contains(link, "no-body") {
		return "", false
	}
	return strings.Repeat("Extracted sentence about "+link+". ", 8), true
}
