package sentiment

import "strings"

// English entries are whole words; a trailing '*' makes the entry a prefix.
// Hangul entries are stems matched inside a token.
var positiveTerms = []string{
	"good", "great", "excellent", "amazing", "awesome", "wonderful", "fantastic", "lovely", "nice",
	"clean", "cleaned", "spotless", "tidy", "neat", "fresh", "spacious", "quiet", "cozy", "cosy",
	"friendly", "helpful", "kind", "polite", "attentive", "courteous", "welcoming", "professional",
	"comfortable", "comfy", "relaxing", "relaxed", "soothing", "perfect", "best", "beautiful", "pleasant",
	"enjoy*", "love*", "recommend*", "worth", "affordable", "reasonable", "delicious", "superb",
	"outstanding", "satisf*", "happy", "impress*", "warm", "gorgeous", "refreshing",
	"좋", "만족", "훌륭", "최고", "추천", "완벽", "대박", "감동", "감사", "즐거", "행복", "편안", "편하",
	"안락", "깨끗", "깔끔", "친절", "따뜻", "맛있", "저렴", "힐링", "쾌적", "넓", "괜찮",
}

var negativeTerms = []string{
	"bad", "poor", "terrible", "awful", "horrible", "dirty", "filthy", "unclean", "dust", "dusty", "stain", "stains", "stained",
	"smell*", "mold", "moldy", "mould", "mouldy", "rude", "unfriendly", "unhelpful", "impolite", "noisy", "noise",
	"broken", "old", "outdated", "shabby", "worn", "cold", "lukewarm", "uncomfortable", "disappoint*",
	"overpriced", "expensive", "pricey", "crowded", "slow", "worst", "hate*", "annoy*", "problem*",
	"issue*", "complain*", "cramped", "disgust*", "mess", "messy", "bugs", "leak*", "ignored", "unpleasant",
	"아쉽", "아쉬", "실망", "별로", "안좋", "나쁘", "나빴", "불편", "문제", "결함", "고장", "부족", "싫",
	"짜증", "화나", "불쾌", "낡", "노후", "지저분", "더럽", "차갑", "춥", "시끄럽", "소음", "비싸",
	"바가지", "불친절", "무시", "후회", "최악", "냄새", "맛없", "곰팡이", "안되", "못하",
}

var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "none": {}, "nothing": {}, "hardly": {}, "barely": {},
	"without": {}, "cannot": {}, "안": {}, "못": {},
}

var intensifiers = map[string]struct{}{
	"very": {}, "really": {}, "so": {}, "too": {}, "extremely": {}, "super": {}, "absolutely": {},
	"정말": {}, "너무": {}, "진짜": {}, "매우": {}, "아주": {}, "완전": {},
}

// TermSet matches tokens against a word list (exact, prefix, Hangul stem).
type TermSet struct {
	exact  map[string]struct{}
	prefix []string
	stems  []string
}

func NewTermSet(terms []string) TermSet {
	ts := TermSet{exact: map[string]struct{}{}}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		switch {
		case t == "" || t == "*":
		case IsHangul(t):
			ts.stems = append(ts.stems, strings.TrimSuffix(t, "*"))
		case strings.HasSuffix(t, "*"):
			ts.prefix = append(ts.prefix, strings.TrimSuffix(t, "*"))
		default:
			ts.exact[t] = struct{}{}
		}
	}
	return ts
}

func (ts TermSet) Match(tok string) bool {
	if _, ok := ts.exact[tok]; ok {
		return true
	}
	for _, p := range ts.prefix {
		if strings.HasPrefix(tok, p) {
			return true
		}
	}
	if len(ts.stems) > 0 && IsHangul(tok) {
		for _, s := range ts.stems {
			if strings.Contains(tok, s) {
				return true
			}
		}
	}
	return false
}

func isNegator(tok string) bool {
	if _, ok := negators[tok]; ok {
		return true
	}
	return strings.HasSuffix(tok, "n't")
}
