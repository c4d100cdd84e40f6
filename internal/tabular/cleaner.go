package tabular

import (
	"strings"
)

// Row is one CSV record keyed by column name. A key maps to nil when the
// source record was shorter than the header; a key may be absent entirely for
// rows built outside the CSV codec.
type Row map[string]*string

// Table holds parsed rows together with the header's column order.
type Table struct {
	Columns []string
	Rows    []Row
}

// Options configures a cleaning pass.
type Options struct {
	EmailColumns []string
	PhoneColumns []string
	KeyColumns   []string
}

// Summary reports the counters for one cleaning pass.
// RowsIn always equals RowsOut + DuplicatesRemoved.
type Summary struct {
	RowsIn            int      `json:"rows_in"`
	RowsOut           int      `json:"rows_out"`
	DuplicatesRemoved int      `json:"duplicates_removed"`
	InvalidEmails     int      `json:"invalid_emails"`
	InvalidPhones     int      `json:"invalid_phones"`
	Columns           []string `json:"columns"`
}

// previewLimit caps the number of unserialized rows returned for display.
const previewLimit = 10

// Result is the outcome of a cleaning pass.
type Result struct {
	Columns []string
	Rows    []Row
	Preview []Row
	Summary Summary
}

// Clean normalizes the configured email/phone columns in place, deduplicates
// rows by the composite key built from the key columns (first occurrence
// wins, input order preserved), and reports summary counters. Malformed cells
// are tagged and counted, never rejected. With no key columns configured no
// rows are removed.
func Clean(t *Table, opts Options) *Result {
	var invalidEmails, invalidPhones int

	for _, r := range t.Rows {
		for _, col := range opts.EmailColumns {
			if v, ok := r[col]; ok {
				norm, bad := NormalizeEmail(v)
				r[col] = norm
				if bad {
					invalidEmails++
				}
			}
		}
		for _, col := range opts.PhoneColumns {
			if v, ok := r[col]; ok {
				norm, bad := NormalizeUSPhone(v)
				r[col] = norm
				if bad {
					invalidPhones++
				}
			}
		}
	}

	deduped := t.Rows
	dupCount := 0
	if len(opts.KeyColumns) > 0 {
		seen := make(map[string]bool, len(t.Rows))
		deduped = make([]Row, 0, len(t.Rows))
		for _, r := range t.Rows {
			key := dedupKey(r, opts.KeyColumns)
			if seen[key] {
				dupCount++
				continue
			}
			seen[key] = true
			deduped = append(deduped, r)
		}
	}

	columns := outputColumns(t, deduped)

	preview := deduped
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}

	return &Result{
		Columns: columns,
		Rows:    deduped,
		Preview: preview,
		Summary: Summary{
			RowsIn:            len(t.Rows),
			RowsOut:           len(deduped),
			DuplicatesRemoved: dupCount,
			InvalidEmails:     invalidEmails,
			InvalidPhones:     invalidPhones,
			Columns:           columns,
		},
	}
}

// dedupKey joins the lower-cased, trimmed key-column values. A missing or nil
// key column contributes an empty segment, not a mismatch.
func dedupKey(r Row, keyColumns []string) string {
	parts := make([]string, len(keyColumns))
	for i, col := range keyColumns {
		if v, ok := r[col]; ok && v != nil {
			parts[i] = strings.ToLower(strings.TrimSpace(*v))
		}
	}
	return strings.Join(parts, "\x00")
}

// outputColumns is the header subset present in the first surviving row, in
// header order, or the full original header when no rows survive.
func outputColumns(t *Table, deduped []Row) []string {
	if len(deduped) == 0 {
		return t.Columns
	}
	first := deduped[0]
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if _, ok := first[c]; ok {
			cols = append(cols, c)
		}
	}
	return cols
}
