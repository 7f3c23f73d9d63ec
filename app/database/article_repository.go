package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout stores instants as fixed-width UTC text so that string order
// is chronological order.
const timeLayout = "2006-01-02T15:04:05Z"

const articleColumns = `id, guid, title, link, description, content, summary, summary_method,
	published, processed, source, category, feed_category, feed_title, author, tags`

var _ ArticleRepository = (*ArticleRepo)(nil)

type ArticleRepo struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

func (r *ArticleRepo) Ping() error {
	if err := r.db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// UpsertArticle inserts the article or replaces the stored row with the same
// GUID.
func (r *ArticleRepo) UpsertArticle(article Article) error {
	if article.GUID == "" {
		return fmt.Errorf("failed to upsert article: empty guid")
	}

	tags, err := json.Marshal(nonNil(article.Tags))
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	processed := article.ProcessedAt
	if processed.IsZero() {
		processed = time.Now()
	}

	_, err = r.db.Exec(`
		INSERT INTO articles (
			guid, title, link, description, content, summary, summary_method,
			published, processed, source, category, feed_category, feed_title, author, tags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (guid) DO UPDATE SET
			title = excluded.title,
			link = excluded.link,
			description = excluded.description,
			content = excluded.content,
			summary = excluded.summary,
			summary_method = excluded.summary_method,
			published = excluded.published,
			processed = excluded.processed,
			source = excluded.source,
			category = excluded.category,
			feed_category = excluded.feed_category,
			feed_title = excluded.feed_title,
			author = excluded.author,
			tags = excluded.tags
	`, article.GUID, article.Title, article.Link, article.Description, article.Content,
		article.Summary, article.SummaryMethod, formatTime(article.Published), formatTime(processed),
		article.Source, article.Category, article.FeedCategory, article.FeedTitle, article.Author,
		string(tags))
	if err != nil {
		return fmt.Errorf("failed to upsert article: %w", err)
	}

	return nil
}

// GetArticlesByDate returns articles published on the calendar day of day in
// its location, newest first.
func (r *ArticleRepo) GetArticlesByDate(day time.Time) ([]Article, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	rows, err := r.db.Query(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE published >= ? AND published < ?
		ORDER BY published DESC, id ASC
	`, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("failed to get articles by date: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

func (r *ArticleRepo) GetUnsummarizedArticles(limit int) ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE summary = ''
		ORDER BY published DESC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unsummarized articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

func (r *ArticleRepo) GetArticleStats() (*ArticleStats, error) {
	stats := &ArticleStats{ByMethod: make(map[string]int)}

	var newest, oldest sql.NullString
	err := r.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN summary != '' THEN 1 ELSE 0 END), 0),
			MAX(NULLIF(published, '')),
			MIN(NULLIF(published, ''))
		FROM articles
	`).Scan(&stats.Total, &stats.Summarized, &newest, &oldest)
	if err != nil {
		return nil, fmt.Errorf("failed to get article stats: %w", err)
	}

	stats.Newest = parseNullTime(newest)
	stats.Oldest = parseNullTime(oldest)

	rows, err := r.db.Query(`SELECT summary_method, COUNT(*) FROM articles GROUP BY summary_method`)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary method counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var method string
		var count int
		if err := rows.Scan(&method, &count); err != nil {
			return nil, fmt.Errorf("failed to scan summary method row: %w", err)
		}
		stats.ByMethod[method] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary method rows: %w", err)
	}

	return stats, nil
}

func scanArticles(rows *sql.Rows) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		var article Article
		var published, processed, tags string
		err := rows.Scan(
			&article.ID, &article.GUID, &article.Title, &article.Link, &article.Description,
			&article.Content, &article.Summary, &article.SummaryMethod,
			&published, &processed, &article.Source, &article.Category,
			&article.FeedCategory, &article.FeedTitle, &article.Author, &tags,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}

		article.Published = parseTime(published)
		article.ProcessedAt = parseTime(processed)
		if err := json.Unmarshal([]byte(tags), &article.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for %s: %w", article.GUID, err)
		}

		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := parseTime(s.String)
	if t.IsZero() {
		return nil
	}
	return &t
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
