package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

/********** alias registries (single source of truth) **********/

// Keys are lower-case; headers are lower-cased before lookup.
var columnAliases = map[string][]string{
	"text":   {"text", "review_text", "review", "comment", "content", "body", "message", "내용", "리뷰", "리뷰내용"},
	"title":  {"title", "review_title", "headline", "제목"},
	"extra":  {"evaluation", "평가"},
	"rating": {"rating", "rate", "score", "stars", "rating.value", "scores.overall", "overall_score", "average_score", "평점", "별점"},
	"date":   {"date", "review_date", "created_at", "createdat", "published_at", "date_created", "작성일자", "작성일", "날짜"},
	"source": {"source", "platform", "provider", "site", "origin", "channel", "구분", "출처"},
}

var prosAliases = []string{"pros", "positives"}
var consAliases = []string{"cons", "negatives"}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	if v, ok := m[path]; ok {
		return v
	}
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "". Numbers are formatted.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int, int64:
		return fmt.Sprintf("%d", v)
	case []byte:
		return string(v)
	}
	return ""
}

// firstSliceStrings: accept []any of strings, or a single string.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		switch raw := lookupAny(m, k).(type) {
		case []any:
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
			if len(out) > 0 {
				return out
			}
		case []string:
			if len(raw) > 0 {
				return raw
			}
		case string:
			if s := strings.TrimSpace(raw); s != "" {
				return []string{s}
			}
		}
	}
	return nil
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, sep)
}

// columns resolves which alias path serves each field for a header set.
type columns map[string]string

func resolve(header []string) columns {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[normalizeHeader(h)] = struct{}{}
	}
	out := columns{}
	for field, aliases := range columnAliases {
		for _, a := range aliases {
			top := a
			if _, ok := present[a]; !ok {
				if i := strings.IndexByte(a, '.'); i >= 0 {
					top = a[:i]
				}
			}
			if _, ok := present[top]; ok {
				out[field] = a
				break
			}
		}
	}
	for _, a := range append(append([]string{}, prosAliases...), consAliases...) {
		if _, ok := present[a]; ok {
			out["proscons"] = a
			break
		}
	}
	return out
}

func (c columns) hasText() bool {
	_, text := c["text"]
	_, pc := c["proscons"]
	return text || pc
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

// value returns the raw value of a resolved field or nil.
func (c columns) value(row map[string]any, field string) any {
	p, ok := c[field]
	if !ok {
		return nil
	}
	return lookupAny(row, p)
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case *time.Time:
		return t == nil
	}
	return false
}
