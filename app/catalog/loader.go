package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lysyi3m/rss-digest/app/errs"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatOPML Format = "opml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document is the JSON and YAML interchange layout.
type document struct {
	Feeds []Descriptor `json:"feeds" yaml:"feeds"`
}

func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".opml", ".xml":
		return FormatOPML, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog format: %s", path)
	}
}

// Load reads a catalog file. Any failure is fatal for the caller: without a
// catalog there is nothing to process.
func Load(path string) (*Catalog, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, errs.Fatal("load catalog", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Fatal("load catalog", fmt.Errorf("failed to read file: %w", err))
	}

	descriptors, err := Decode(format, data)
	if err != nil {
		return nil, errs.Fatal("load catalog", err)
	}

	c := New(descriptors)
	if skipped := len(descriptors) - c.Len(); skipped > 0 {
		slog.Warn("Catalog entries without URL skipped", "path", path, "count", skipped)
	}

	slog.Debug("Catalog loaded", "path", path, "format", format, "feeds", c.Len())
	return c, nil
}

func Decode(format Format, data []byte) ([]Descriptor, error) {
	switch format {
	case FormatOPML:
		return decodeOPML(data)
	case FormatJSON:
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return doc.Feeds, nil
	case FormatYAML:
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		return doc.Feeds, nil
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", format)
	}
}

func Encode(format Format, c *Catalog) ([]byte, error) {
	doc := document{Feeds: c.Feeds()}

	switch format {
	case FormatOPML:
		return encodeOPML(c)
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", format)
	}
}

// Write stores the catalog in the format implied by path's extension.
func Write(path string, c *Catalog) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	data, err := Encode(format, c)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	slog.Info("Catalog written", "path", path, "format", format, "feeds", c.Len())
	return nil
}
