package loader

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var fractionRe = regexp.MustCompile(`^\s*([0-9]+(?:[.,][0-9]+)?)\s*/\s*([0-9]+(?:[.,][0-9]+)?)\s*$`)
var koreanDateRe = regexp.MustCompile(`^\s*(\d{4})\s*년\s*(\d{1,2})\s*월(?:\s*(\d{1,2})\s*일)?`)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"2006.1.2",
	"2006-1-2",
	"2006/1/2",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006.01.02 15:04",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	"2006-01",
	"2006.01",
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseRating returns the rating on the 1..5 scale.
// ok=false means the value was present but unusable.
func parseRating(v any, scale int) (rating int, ok bool) {
	var f float64
	outOf := float64(scale)
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case map[string]any:
		for _, k := range []string{"value", "overall", "score"} {
			if inner, found := t[k]; found {
				return parseRating(inner, scale)
			}
		}
		return 0, false
	case string:
		s := strings.TrimSpace(t)
		if stars := strings.Count(s, "★"); stars > 0 && strings.Trim(s, "★☆ ") == "" {
			f, outOf = float64(stars), 5
			break
		}
		if m := fractionRe.FindStringSubmatch(s); m != nil {
			num, ok1 := parseFloat(m[1])
			den, ok2 := parseFloat(m[2])
			if !ok1 || !ok2 || den <= 0 {
				return 0, false
			}
			f, outOf = num, den
			break
		}
		var good bool
		if f, good = parseFloat(s); !good {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || outOf <= 0 {
		return 0, false
	}
	r := int(math.Round(f * 5 / outOf))
	return clamp(r, 1, 5), true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// parseDate returns the calendar date in UTC.
func parseDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return dateOnly(t), true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return dateOnly(*t), true
	case string:
		s := strings.TrimSpace(t)
		if !utf8.ValidString(s) {
			return time.Time{}, false
		}
		if m := koreanDateRe.FindStringSubmatch(s); m != nil {
			y, _ := strconv.Atoi(m[1])
			mo, _ := strconv.Atoi(m[2])
			d := 1
			if m[3] != "" {
				d, _ = strconv.Atoi(m[3])
			}
			if mo < 1 || mo > 12 || d < 1 || d > 31 {
				return time.Time{}, false
			}
			dt := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
			if dt.Month() != time.Month(mo) || dt.Day() != d {
				return time.Time{}, false
			}
			return dt, true
		}
		s = strings.TrimSuffix(s, ".")
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return dateOnly(d), true
			}
		}
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
