package feed

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/rss-digest/app/catalog"
	"github.com/lysyi3m/rss-digest/app/errs"
)

const DefaultFetchTimeout = 15 * time.Second

type Fetcher struct {
	httpClient *http.Client
	parser     *Parser
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(httpClient *http.Client, parser *Parser, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		parser:     parser,
		userAgent:  userAgent,
		timeout:    DefaultFetchTimeout,
	}
}

func (f *Fetcher) WithTimeout(timeout time.Duration) *Fetcher {
	f.timeout = timeout
	return f
}

// Run fetches and parses one feed. On failure it returns no articles and a
// Transport or Parse error; the caller decides whether to continue.
func (f *Fetcher) Run(ctx context.Context, descriptor catalog.Descriptor) ([]RawArticle, error) {
	start := time.Now()

	data, err := f.fetchFeed(ctx, descriptor.URL)
	if err != nil {
		return nil, err
	}

	metadata, articles, err := f.parser.Run(data)
	if err != nil {
		return nil, err
	}

	feedTitle := cmp.Or(descriptor.Title, metadata.Title)
	for i := range articles {
		if metadata.Title == "" && descriptor.Title != "" {
			articles[i].Source = descriptor.Title
		}
		articles[i].FeedCategory = cmp.Or(descriptor.Category, catalog.DefaultCategory)
		articles[i].FeedTitle = cmp.Or(feedTitle, articles[i].Source)
	}

	slog.Debug("Feed fetched",
		"url", descriptor.URL,
		"title", feedTitle,
		"articles", len(articles),
		"duration", time.Since(start))

	return articles, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Transport("fetch feed", fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml;q=0.9, */*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errs.Transport("fetch feed", fmt.Errorf("failed to fetch feed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.Transport("fetch feed", fmt.Errorf("HTTP error: %s", resp.Status))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Transport("fetch feed", fmt.Errorf("failed to read response body: %w", err))
	}

	return data, nil
}
