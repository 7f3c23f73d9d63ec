package tasks

import (
	"time"

	"github.com/lysyi3m/rss-digest/app/database"
	"github.com/lysyi3m/rss-digest/app/feed"
)

func toRecord(article *feed.Article, processedAt time.Time) database.Article {
	return database.Article{
		GUID:          article.Key(),
		Title:         article.Title,
		Link:          article.Link,
		Description:   article.Description,
		Content:       article.Content,
		Summary:       article.Summary,
		SummaryMethod: string(article.SummaryMethod),
		Published:     article.Published,
		ProcessedAt:   processedAt,
		Source:        article.Source,
		Category:      article.EntryCategory,
		FeedCategory:  article.FeedCategory,
		FeedTitle:     article.FeedTitle,
		Author:        article.Author,
		Tags:          article.Tags,
	}
}

func fromRecord(record database.Article) *feed.Article {
	return &feed.Article{
		RawArticle: feed.RawArticle{
			GUID:          record.GUID,
			Title:         record.Title,
			Link:          record.Link,
			Description:   record.Description,
			Published:     record.Published,
			Source:        record.Source,
			EntryCategory: record.Category,
			FeedCategory:  record.FeedCategory,
			FeedTitle:     record.FeedTitle,
			Author:        record.Author,
			Tags:          record.Tags,
		},
		Content:       record.Content,
		Summary:       record.Summary,
		SummaryMethod: feed.SummaryMethod(record.SummaryMethod),
	}
}
