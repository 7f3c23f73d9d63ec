package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const isoWithoutOffset = "2006-01-02T15:04:05"

var errEmptyDate = errors.New("empty date string")

// RFC 2822 obsolete zone names. time.Parse reads an unknown abbreviation
// as offset 0, so these are rewritten to numeric offsets first.
var obsoleteZones = map[string]string{
	"UT":  "+0000",
	"GMT": "+0000",
	"EST": "-0500",
	"EDT": "-0400",
	"CST": "-0600",
	"CDT": "-0500",
	"MST": "-0700",
	"MDT": "-0600",
	"PST": "-0800",
	"PDT": "-0700",
}

// DateNormalizer turns heterogeneous feed date strings into UTC instants.
// Values without zone information are taken as UTC, which misattributes
// feeds that publish local wall-clock times without an offset.
type DateNormalizer struct {
	now func() time.Time
}

func NewDateNormalizer() *DateNormalizer {
	return &DateNormalizer{now: time.Now}
}

// Parse never fails: unparseable input yields the current instant and a
// warning.
func (n *DateNormalizer) Parse(raw string) time.Time {
	t, err := n.ParseStrict(raw)
	if err != nil {
		slog.Warn("Unparseable date, using current time", "value", raw, "error", err)
		return n.now().UTC()
	}
	return t
}

func (n *DateNormalizer) ParseStrict(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errEmptyDate
	}
	raw = replaceObsoleteZone(raw)

	if t, err := dateparse.ParseIn(raw, time.UTC); err == nil {
		return Normalize(t), nil
	}

	for _, layout := range []string{time.RFC1123, time.RFC1123Z, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return Normalize(t), nil
		}
	}

	t, err := time.ParseInLocation(isoWithoutOffset, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date format %q", raw)
	}
	return Normalize(t), nil
}

func replaceObsoleteZone(raw string) string {
	i := strings.LastIndexByte(raw, ' ')
	if i < 0 {
		return raw
	}
	if offset, ok := obsoleteZones[strings.ToUpper(raw[i+1:])]; ok {
		return raw[:i+1] + offset
	}
	return raw
}

// Normalize converts t to UTC. Go values always carry a location, so values
// built without zone information are already UTC.
func Normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
