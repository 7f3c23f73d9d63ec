package database

import (
	"database/sql"
	"errors"
	"fmt"
)

var _ DigestRepository = (*DigestRepo)(nil)

type DigestRepo struct {
	db *DB
}

func NewDigestRepository(db *DB) *DigestRepo {
	return &DigestRepo{db: db}
}

// UpsertDigest stores one digest per date, replacing an earlier one.
func (r *DigestRepo) UpsertDigest(digest Digest) error {
	_, err := r.db.Exec(`
		INSERT INTO daily_digests (date, digest_content, article_count)
		VALUES (?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			digest_content = excluded.digest_content,
			article_count = excluded.article_count,
			created_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
	`, digest.Date, digest.Content, digest.ArticleCount)
	if err != nil {
		return fmt.Errorf("failed to upsert digest: %w", err)
	}
	return nil
}

// GetDigest returns nil when no digest exists for date.
func (r *DigestRepo) GetDigest(date string) (*Digest, error) {
	var digest Digest
	var createdAt string
	err := r.db.QueryRow(`
		SELECT date, digest_content, article_count, created_at
		FROM daily_digests
		WHERE date = ?
	`, date).Scan(&digest.Date, &digest.Content, &digest.ArticleCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get digest: %w", err)
	}

	digest.CreatedAt = parseTime(createdAt)
	return &digest, nil
}

func (r *DigestRepo) GetRecentDigests(limit int) ([]Digest, error) {
	rows, err := r.db.Query(`
		SELECT date, digest_content, article_count, created_at
		FROM daily_digests
		ORDER BY date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent digests: %w", err)
	}
	defer rows.Close()

	var digests []Digest
	for rows.Next() {
		var digest Digest
		var createdAt string
		if err := rows.Scan(&digest.Date, &digest.Content, &digest.ArticleCount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan digest row: %w", err)
		}
		digest.CreatedAt = parseTime(createdAt)
		digests = append(digests, digest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating digest rows: %w", err)
	}

	return digests, nil
}
