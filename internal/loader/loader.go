// Package loader turns tabular review input into canonical domain.Review records.
package loader

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"

	"review_insight/internal/domain"
)

// Row is one record of named fields. Values are strings for CSV input and
// decoded JSON values (or time.Time from SQL sources) otherwise.
type Row = map[string]any

type Table struct {
	Columns []string
	Rows    []Row
}

type Options struct {
	// RatingScale is the scale of numeric ratings in the input (5 or 10).
	RatingScale int
}

type Dataset struct {
	Reviews  []domain.Review
	Warnings []domain.CoercionWarning
}

var (
	strict   = bluemonday.StrictPolicy()
	tagRe    = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)
	hspaceRe = regexp.MustCompile(`[ \t\f\v\x{00A0}\x{3000}]+`)
)

// FromRecords builds a Table from JSON-like records. Top-level keys are lower-cased.
func FromRecords(recs []map[string]any) Table {
	seen := map[string]struct{}{}
	rows := make([]Row, 0, len(recs))
	for _, r := range recs {
		keys := make([]string, 0, len(r))
		for k := range r {
			keys = append(keys, k)
		}
		// keys that normalize alike keep the first in byte order
		sort.Strings(keys)
		row := make(Row, len(r))
		for _, k := range keys {
			nk := normalizeHeader(k)
			if _, dup := row[nk]; dup {
				continue
			}
			row[nk] = r[k]
			seen[nk] = struct{}{}
		}
		rows = append(rows, row)
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return Table{Columns: cols, Rows: rows}
}

// Load validates a table and produces reviews in input order (row i -> ID i).
// Unparseable ratings and dates become missing and are reported as warnings.
func Load(t Table, opts Options) (Dataset, error) {
	if opts.RatingScale <= 0 {
		opts.RatingScale = 5
	}
	if len(t.Rows) == 0 {
		return Dataset{}, domain.NewLoadError(domain.ErrNoRows, "table has no data rows", nil)
	}
	cols := resolve(t.Columns)
	if !cols.hasText() {
		return Dataset{}, domain.NewLoadError(domain.ErrNoTextColumn,
			fmt.Sprintf("columns %v", t.Columns), nil)
	}

	ds := Dataset{Reviews: make([]domain.Review, 0, len(t.Rows))}
	for i, row := range t.Rows {
		rv := domain.Review{
			ID:    i,
			Title: cleanText(lookupStrValue(cols.value(row, "title"))),
			Text:  reviewText(cols, row),
		}

		if raw := cols.value(row, "rating"); !isBlank(raw) {
			if r, ok := parseRating(raw, opts.RatingScale); ok {
				rv.Rating = &r
			} else {
				ds.Warnings = append(ds.Warnings, warning(i, "rating", raw))
			}
		}

		if raw := cols.value(row, "date"); !isBlank(raw) {
			if d, ok := parseDate(raw); ok {
				rv.Date = &d
			} else {
				ds.Warnings = append(ds.Warnings, warning(i, "date", raw))
			}
		}

		if s := strings.TrimSpace(lookupStrValue(cols.value(row, "source"))); s != "" {
			s = norm.NFC.String(s)
			rv.Source = &s
		}

		ds.Reviews = append(ds.Reviews, rv)
	}
	return ds, nil
}

func warning(row int, field string, raw any) domain.CoercionWarning {
	return domain.CoercionWarning{Row: row, Field: field, Value: fmt.Sprint(raw)}
}

func lookupStrValue(v any) string {
	if v == nil {
		return ""
	}
	return lookupStr(Row{"v": v}, "v")
}

// reviewText joins body and evaluation columns; falls back to pros/cons.
func reviewText(cols columns, row Row) string {
	body := joinNonEmpty("\n",
		lookupStrValue(cols.value(row, "text")),
		lookupStrValue(cols.value(row, "extra")),
	)
	if strings.TrimSpace(body) == "" {
		pros := firstSliceStrings(row, prosAliases...)
		cons := firstSliceStrings(row, consAliases...)
		if len(pros) > 0 || len(cons) > 0 {
			var parts []string
			if len(pros) > 0 {
				parts = append(parts, "Pros: "+strings.Join(pros, ", "))
			}
			if len(cons) > 0 {
				parts = append(parts, "Cons: "+strings.Join(cons, ", "))
			}
			body = strings.Join(parts, "\n")
		}
	}
	return cleanText(body)
}

// cleanText strips markup, normalizes to NFC and collapses horizontal whitespace.
// Line breaks are kept; they separate clauses for aspect scoring.
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	if tagRe.MatchString(s) {
		s = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n", "</p>", "\n").Replace(s)
		s = html.UnescapeString(strict.Sanitize(s))
	}
	s = norm.NFC.String(s)
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(hspaceRe.ReplaceAllString(l, " ")); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
