// Package insight holds the secondary reports: recurring complaint terms and
// guest segments.
package insight

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"review_insight/internal/aspect"
	"review_insight/internal/domain"
	"review_insight/internal/sentiment"
)

// ComplaintTerms are counted in negatively labelled reviews.
var ComplaintTerms = []string{
	"아쉽", "실망", "별로", "안좋", "나쁘", "불편", "문제", "결함", "고장", "부족", "떨어지", "안되", "못하",
	"싫", "짜증", "화나", "불쾌", "늘어지", "낡", "노후", "지저분", "더럽", "차갑", "춥", "시끄럽", "소음",
	"비싸", "바가지", "불친절", "무시", "격양", "말문막힘", "후회", "다시안갈", "추천안함",
	"dirty", "rude", "noisy", "broken", "old", "cold", "expensive", "overpriced", "smell*", "disappoint*",
	"uncomfortable", "crowded", "slow", "unfriendly", "stain*", "mold*",
}

type Segment struct {
	Name  string
	Terms []string
}

var DefaultSegments = []Segment{
	{Name: "family", Terms: []string{"가족", "부모님", "아이", "애", "어린이", "자녀",
		"family", "families", "kid*", "child*", "parents"}},
	{Name: "hiking", Terms: []string{"등산", "트레킹", "산행", "설악산", "주전골", "선녀탕", "만경대",
		"hike", "hiking", "trek*", "trail*", "mountain*", "seoraksan"}},
	{Name: "regulars", Terms: []string{"자주", "많이", "오래", "정기", "단골", "매년", "분기마다",
		"regular*", "every year", "every time", "again", "repeat"}},
}

func prepare(text string) (string, []string) {
	lower := strings.ToLower(norm.NFC.String(text))
	return lower, sentiment.Tokens(lower)
}

// countTerm counts occurrences: substrings for Hangul, words for the rest.
func countTerm(lower string, toks []string, term string) int {
	if sentiment.IsHangul(term) {
		return strings.Count(lower, term)
	}
	prefix := strings.HasSuffix(term, "*")
	term = strings.TrimSuffix(term, "*")
	n := 0
	for _, t := range toks {
		if t == term || (prefix && strings.HasPrefix(t, term)) {
			n++
		}
	}
	return n
}

// NegativeKeywords returns the top n complaint terms in negative reviews by
// count, ties by term. n <= 0 means no limit.
func NegativeKeywords(items []domain.ReviewAnalysis, terms []string, n int) []domain.KeywordCount {
	counts := map[string]int{}
	for _, it := range items {
		if it.Sentiment.Label != domain.Negative {
			continue
		}
		lower, toks := prepare(it.Review.FullText())
		for _, term := range terms {
			if c := countTerm(lower, toks, term); c > 0 {
				counts[strings.TrimSuffix(term, "*")] += c
			}
		}
	}
	out := make([]domain.KeywordCount, 0, len(counts))
	for term, c := range counts {
		out = append(out, domain.KeywordCount{Term: term, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Segments reports one stat per segment, in the order given. A review can
// belong to several segments.
func Segments(items []domain.ReviewAnalysis, segments []Segment) []domain.SegmentStat {
	out := make([]domain.SegmentStat, 0, len(segments))
	for _, seg := range segments {
		terms := aspect.CompileTerms(seg.Terms)
		st := domain.SegmentStat{Segment: seg.Name}
		var pos, neg, rated, sum int
		for _, it := range items {
			lower, toks := prepare(it.Review.FullText())
			if !terms.Match(lower, toks) {
				continue
			}
			st.ReviewCount++
			switch it.Sentiment.Label {
			case domain.Positive:
				pos++
			case domain.Negative:
				neg++
			}
			if it.Review.Rating != nil {
				rated++
				sum += *it.Review.Rating
			}
		}
		if st.ReviewCount > 0 {
			st.PositiveRatio = float64(pos) / float64(st.ReviewCount)
			st.NegativeRatio = float64(neg) / float64(st.ReviewCount)
		}
		if rated > 0 {
			avg := float64(sum) / float64(rated)
			st.AvgRating = &avg
		}
		out = append(out, st)
	}
	return out
}
