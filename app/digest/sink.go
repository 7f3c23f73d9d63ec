package digest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileSink writes one text file per day into a directory.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Path(d *Digest) string {
	return filepath.Join(s.dir, fmt.Sprintf("digest_%s.txt", d.DateKey()))
}

func (s *FileSink) Write(d *Digest) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create digests directory: %w", err)
	}

	path := s.Path(d)
	if err := os.WriteFile(path, []byte(d.Text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write digest file: %w", err)
	}

	slog.Info("Digest saved", "path", path, "articles", d.ArticleCount)
	return path, nil
}
