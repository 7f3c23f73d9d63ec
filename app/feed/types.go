package feed

import (
	"cmp"
	"time"
)

type SummaryMethod string

const (
	MethodHuggingFace SummaryMethod = "huggingface"
	MethodOpenAI      SummaryMethod = "openai"
	MethodExtractive  SummaryMethod = "extractive"
	MethodNone        SummaryMethod = "none"
)

type Metadata struct {
	Title    string
	Link     string
	Language string
}

// RawArticle is one feed entry as fetched, before ranking and enrichment.
type RawArticle struct {
	Title         string
	Link          string
	Description   string    // plain text, markup stripped
	FeedContent   string    // plain text of the entry's full-content field, if any
	Published     time.Time // UTC; zero when the instant is unknown
	Source        string
	EntryCategory string
	GUID          string
	FeedCategory  string
	FeedTitle     string
	Author        string
	Tags          []string
}

// Key is the identity used for deduplication and persistence.
func (a RawArticle) Key() string {
	return cmp.Or(a.GUID, a.Link)
}

// Article is a ranked article that is enriched in place with its body and
// summary.
type Article struct {
	RawArticle
	Content       string
	Summary       string
	SummaryMethod SummaryMethod
}

func (a *Article) HasSummary() bool {
	return a.Summary != ""
}
