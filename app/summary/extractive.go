package summary

import (
	"context"
	"strings"

	"github.com/lysyi3m/rss-digest/app/feed"
)

const DefaultSentenceCount = 3

const sentenceDelimiter = ". "

// Extractive picks the first, middle and last sentence. It never fails.
type Extractive struct {
	sentences int
}

func NewExtractive(sentences int) *Extractive {
	return &Extractive{sentences: sentences}
}

func (e *Extractive) Method() feed.SummaryMethod {
	return feed.MethodExtractive
}

func (e *Extractive) Attempt(_ context.Context, input Input) (string, error) {
	return e.keySentences(input.Content), nil
}

func (e *Extractive) keySentences(content string) string {
	sentences := strings.Split(content, sentenceDelimiter)
	if len(sentences) <= e.sentences {
		return content
	}

	key := []string{
		sentences[0],
		sentences[len(sentences)/2],
		sentences[len(sentences)-1],
	}
	return strings.Join(key, sentenceDelimiter)
}
