package summary

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/lysyi3m/rss-digest/app/errs"
	"github.com/lysyi3m/rss-digest/app/feed"
)

// MinContentLength is the shortest content, in characters, worth
// summarizing.
const MinContentLength = 100

// MaxInputLength bounds the text sent to remote providers.
const MaxInputLength = 3000

type Input struct {
	Title   string
	Content string
}

type Result struct {
	Summary        string
	Method         feed.SummaryMethod
	OriginalLength int
	SummaryLength  int
}

// Provider produces a summary or fails. A provider whose credential is
// absent returns errs.ErrNotConfigured.
type Provider interface {
	Method() feed.SummaryMethod
	Attempt(ctx context.Context, input Input) (string, error)
}

type Summarizer struct {
	providers []Provider
	fallback  Provider
}

// NewSummarizer tries providers in order and falls back to extractive
// summarization when all of them fail. Nil providers are ignored.
func NewSummarizer(providers ...Provider) *Summarizer {
	chain := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			chain = append(chain, p)
		}
	}
	return &Summarizer{
		providers: chain,
		fallback:  NewExtractive(DefaultSentenceCount),
	}
}

// Summarize returns nil when content is too short. Otherwise it always
// returns a result.
func (s *Summarizer) Summarize(ctx context.Context, content, title string) *Result {
	if feed.CharCount(content) < MinContentLength {
		return nil
	}

	input := Input{Title: title, Content: content}

	for _, provider := range s.providers {
		summary, err := provider.Attempt(ctx, input)
		if errors.Is(err, errs.ErrNotConfigured) {
			continue
		}
		if err != nil {
			slog.Error("Summarization provider failed", "method", provider.Method(), "error", err)
			continue
		}
		if summary = strings.TrimSpace(summary); summary != "" {
			return newResult(summary, provider.Method(), content)
		}
	}

	summary, _ := s.fallback.Attempt(ctx, input)
	return newResult(summary, s.fallback.Method(), content)
}

func newResult(summary string, method feed.SummaryMethod, content string) *Result {
	return &Result{
		Summary:        summary,
		Method:         method,
		OriginalLength: feed.CharCount(content),
		SummaryLength:  feed.CharCount(summary),
	}
}

// truncate cuts s to at most n characters, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
