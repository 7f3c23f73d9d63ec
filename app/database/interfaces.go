package database

import (
	"time"
)

type ArticleRepository interface {
	Ping() error

	UpsertArticle(article Article) error

	GetArticlesByDate(day time.Time) ([]Article, error)
	GetUnsummarizedArticles(limit int) ([]Article, error)
	GetArticleStats() (*ArticleStats, error)
}

type DigestRepository interface {
	UpsertDigest(digest Digest) error

	GetDigest(date string) (*Digest, error)
	GetRecentDigests(limit int) ([]Digest, error)
}
