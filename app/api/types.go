package api

import (
	"time"

	"github.com/lysyi3m/rss-digest/app/catalog"
	"github.com/lysyi3m/rss-digest/app/database"
)

type Handler struct {
	catalog     *catalog.Catalog
	articleRepo database.ArticleRepository
	digestRepo  database.DigestRepository
	now         func() time.Time
}

type articleResponse struct {
	GUID          string     `json:"guid"`
	Title         string     `json:"title"`
	Link          string     `json:"link"`
	Summary       string     `json:"summary,omitempty"`
	SummaryMethod string     `json:"summary_method"`
	Published     *time.Time `json:"published,omitempty"`
	Source        string     `json:"source"`
	FeedCategory  string     `json:"feed_category"`
	Author        string     `json:"author,omitempty"`
	Tags          []string   `json:"tags"`
}

type digestResponse struct {
	Date         string    `json:"date"`
	ArticleCount int       `json:"article_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func newArticleResponse(a database.Article) articleResponse {
	resp := articleResponse{
		GUID:          a.GUID,
		Title:         a.Title,
		Link:          a.Link,
		Summary:       a.Summary,
		SummaryMethod: a.SummaryMethod,
		Source:        a.Source,
		FeedCategory:  a.FeedCategory,
		Author:        a.Author,
		Tags:          a.Tags,
	}
	if !a.Published.IsZero() {
		published := a.Published.In(time.Local)
		resp.Published = &published
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}
