package database

import (
	"time"
)

type Article struct {
	ID            int64
	GUID          string
	Title         string
	Link          string
	Description   string
	Content       string
	Summary       string
	SummaryMethod string
	Published     time.Time // zero when unknown
	ProcessedAt   time.Time
	Source        string
	Category      string // entry category
	FeedCategory  string
	FeedTitle     string
	Author        string
	Tags          []string
}

type Digest struct {
	Date         string // YYYY-MM-DD
	Content      string
	ArticleCount int
	CreatedAt    time.Time
}

type ArticleStats struct {
	Total      int
	Summarized int
	ByMethod   map[string]int
	Newest     *time.Time
	Oldest     *time.Time
}
