// Package csvexport renders cleaned tables as downloadable CSV files.
package csvexport

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"clearpoint/internal/tabular"
)

// BOM is the UTF-8 byte order mark, prepended for Excel compatibility on
// Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Encode renders the cleaned rows as a BOM-prefixed CSV file.
func Encode(columns []string, rows []tabular.Row) ([]byte, error) {
	body, err := tabular.WriteCSV(columns, rows)
	if err != nil {
		return nil, fmt.Errorf("encoding csv: %w", err)
	}
	out := make([]byte, 0, len(BOM)+len(body))
	out = append(out, BOM...)
	out = append(out, body...)
	return out, nil
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans an upload name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "data"
	}
	return s
}

// BuildFilename returns a sanitized filename for the cleaned CSV.
// Format: cleaned_{sanitized_source_name}_{YYYY-MM-DD}.csv
func BuildFilename(sourceName string) string {
	base := strings.TrimSuffix(sourceName, ".csv")
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("cleaned_%s_%s.csv", SanitizeFilename(base), date)
}
