package sentiment

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokens lower-cases and NFC-normalizes text and splits it into words.
// Apostrophes inside words are kept so "wasn't" stays one token.
func Tokens(text string) []string {
	var out []string
	for _, seg := range Segments(text) {
		out = append(out, seg...)
	}
	return out
}

// Segments is Tokens grouped by punctuation-delimited segment. Negation
// never reaches across a segment boundary.
func Segments(text string) [][]string {
	text = norm.NFC.String(strings.ToLower(text))
	text = strings.NewReplacer("’", "'", "‘", "'").Replace(text)
	var (
		segs [][]string
		cur  []string
		b    strings.Builder
	)
	flush := func() {
		if t := strings.Trim(b.String(), "'"); t != "" {
			cur = append(cur, t)
		}
		b.Reset()
	}
	cut := func() {
		flush()
		if len(cur) > 0 {
			segs = append(segs, cur)
			cur = nil
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'':
			b.WriteRune(r)
		case strings.ContainsRune(segmentBreaks, r):
			cut()
		default:
			flush()
		}
	}
	cut()
	return segs
}

const segmentBreaks = ".,!?;:\n。、！？；"

func IsHangul(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}
