package dataprocessing

import (
	"strings"
	"time"

	"olistcli/pkg/contracts/domain"
)

// dateLayouts are tried in order. The Olist dump uses the first one; the
// others cover date-only and ISO variants.
var dateLayouts = []string{
	domain.TimestampLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
}

// ParseTimestamp parses a date cell. ok is false for empty or unparsable input.
func ParseTimestamp(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t in the processed-file layout
func FormatTimestamp(t time.Time) string {
	return t.Format(domain.TimestampLayout)
}

// NormalizeDates rewrites each named column in place: parsable values are
// re-serialized in TimestampLayout, anything else becomes empty. It returns
// how many non-empty values per column failed to parse.
func NormalizeDates(t *Table, columns []string) (map[string]int, error) {
	coerced := make(map[string]int, len(columns))
	for _, col := range columns {
		i, err := t.MustColumn(col)
		if err != nil {
			return nil, err
		}
		coerced[col] = 0
		for _, r := range t.Rows {
			if r[i] == "" {
				continue
			}
			ts, ok := ParseTimestamp(r[i])
			if !ok {
				r[i] = ""
				coerced[col]++
				continue
			}
			r[i] = FormatTimestamp(ts)
		}
	}
	return coerced, nil
}
