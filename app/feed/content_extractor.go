package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability"
	"github.com/PuerkitoBio/goquery"
)

// MinContentLength is the number of characters extracted text must exceed
// to count as an article body.
const MinContentLength = 200

const DefaultExtractTimeout = 10 * time.Second

// contentSelectors are probed in order by SelectorStrategy.
var contentSelectors = []string{
	"article",
	`[role="main"]`,
	".article-content",
	".post-content",
	".entry-content",
	"main",
}

type ExtractionStrategy interface {
	Name() string
	Extract(data []byte, pageURL *url.URL) (string, error)
}

type ContentExtractor struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	strategies []ExtractionStrategy
}

func NewContentExtractor(httpClient *http.Client, userAgent string) *ContentExtractor {
	return &ContentExtractor{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    DefaultExtractTimeout,
		strategies: []ExtractionStrategy{
			ReadabilityStrategy{},
			SelectorStrategy{Selectors: contentSelectors},
			ParagraphStrategy{},
		},
	}
}

// Run downloads the page at link and returns the first strategy result
// longer than MinContentLength. Failures are logged at debug level; no body
// is a valid outcome.
func (e *ContentExtractor) Run(ctx context.Context, link string) (string, bool) {
	pageURL, err := url.Parse(link)
	if err != nil || pageURL.Host == "" {
		slog.Debug("Invalid article URL", "url", link, "error", err)
		return "", false
	}

	data, err := e.fetchArticleContent(ctx, link)
	if err != nil {
		slog.Debug("Failed to fetch article content", "url", link, "error", err)
		return "", false
	}

	return e.ExtractFromHTML(data, pageURL)
}

func (e *ContentExtractor) ExtractFromHTML(data []byte, pageURL *url.URL) (string, bool) {
	if len(data) == 0 {
		return "", false
	}

	for _, strategy := range e.strategies {
		text, err := strategy.Extract(data, pageURL)
		if err != nil {
			slog.Debug("Extraction strategy failed", "strategy", strategy.Name(), "url", pageURL, "error", err)
			continue
		}
		if CharCount(text) > MinContentLength {
			slog.Debug("Content extracted successfully",
				"strategy", strategy.Name(),
				"url", pageURL,
				"content_length", CharCount(text))
			return text, true
		}
	}

	return "", false
}

func (e *ContentExtractor) fetchArticleContent(ctx context.Context, link string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// ReadabilityStrategy applies full-document boilerplate removal.
type ReadabilityStrategy struct{}

func (ReadabilityStrategy) Name() string { return "readability" }

func (ReadabilityStrategy) Extract(data []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}
	if article.Content == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}
	return PlainText(article.Content), nil
}

// SelectorStrategy probes content containers after dropping page chrome.
type SelectorStrategy struct {
	Selectors []string
}

func (SelectorStrategy) Name() string { return "selectors" }

func (s SelectorStrategy) Extract(data []byte, _ *url.URL) (string, error) {
	doc, err := loadDocument(data)
	if err != nil {
		return "", err
	}

	for _, selector := range s.Selectors {
		selection := doc.Find(selector).First()
		if selection.Length() == 0 {
			continue
		}
		if text := collapseSpace(selection.Text()); CharCount(text) > MinContentLength {
			return text, nil
		}
	}

	return "", nil
}

// ParagraphStrategy concatenates every paragraph of the page.
type ParagraphStrategy struct{}

func (ParagraphStrategy) Name() string { return "paragraphs" }

func (ParagraphStrategy) Extract(data []byte, _ *url.URL) (string, error) {
	doc, err := loadDocument(data)
	if err != nil {
		return "", err
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := collapseSpace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	return strings.Join(paragraphs, " "), nil
}

func loadDocument(data []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(boilerplateSelector).Remove()
	return doc, nil
}
