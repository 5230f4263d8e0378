// Package aspect detects which service aspects a review talks about and
// scores each of them on the clauses that mention it.
package aspect

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"review_insight/internal/domain"
	"review_insight/internal/sentiment"
)

var clauseSplit = regexp.MustCompile(`[.!?。\n;,]+|\b(?:but|however|although|though|yet)\b|하지만|그러나|그런데|근데`)

// Clauses splits text into the windows aspect scores are computed on.
func Clauses(text string) []string {
	parts := clauseSplit.Split(strings.ToLower(norm.NFC.String(text)), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type phrase struct {
	words  []string
	prefix bool // last word is a prefix
}

// Terms is a compiled term list. Hangul terms are substring stems, other
// terms are word phrases whose last word may be a prefix ('*').
type Terms struct {
	phrases []phrase
	stems   []string
}

func CompileTerms(terms []string) Terms {
	var m Terms
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || t == "*" {
			continue
		}
		if sentiment.IsHangul(t) {
			m.stems = append(m.stems, norm.NFC.String(strings.TrimSuffix(t, "*")))
			continue
		}
		prefix := strings.HasSuffix(t, "*")
		words := sentiment.Tokens(strings.TrimSuffix(t, "*"))
		if len(words) > 0 {
			m.phrases = append(m.phrases, phrase{words: words, prefix: prefix})
		}
	}
	return m
}

// Match reports whether any term occurs. text must be lower-cased NFC and
// toks its sentiment.Tokens.
func (m Terms) Match(text string, toks []string) bool {
	for _, s := range m.stems {
		if strings.Contains(text, s) {
			return true
		}
	}
	for _, p := range m.phrases {
		if containsPhrase(toks, p) {
			return true
		}
	}
	return false
}

func containsPhrase(toks []string, p phrase) bool {
	n := len(p.words)
	for i := 0; i+n <= len(toks); i++ {
		ok := true
		for j, w := range p.words {
			t := toks[i+j]
			if j == n-1 && p.prefix {
				ok = strings.HasPrefix(t, w)
			} else {
				ok = t == w
			}
			if !ok {
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Extractor is a lexicon-driven domain.AspectExtractor.
type Extractor struct {
	classifier domain.SentimentClassifier
	aspects    []domain.Aspect
	matchers   map[domain.Aspect]Terms
}

func NewExtractor(lexicons map[domain.Aspect][]string, c domain.SentimentClassifier) *Extractor {
	e := &Extractor{classifier: c, matchers: make(map[domain.Aspect]Terms, len(lexicons))}
	for _, a := range domain.AllAspects {
		terms, ok := lexicons[a]
		if !ok {
			continue
		}
		e.aspects = append(e.aspects, a)
		e.matchers[a] = CompileTerms(terms)
	}
	return e
}

// Extract returns one score per mentioned aspect, in aspect order. Multiple
// mentions of an aspect are averaged. A mention falls back to the whole-text
// score when the text has a single clause or the clause has no polar signal.
func (e *Extractor) Extract(text string) []domain.AspectScore {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	clauses := Clauses(text)
	toks := make([][]string, len(clauses))
	for i, c := range clauses {
		toks[i] = sentiment.Tokens(c)
	}

	whole, wholeDone := 0.0, false
	wholeScore := func() float64 {
		if !wholeDone {
			whole, wholeDone = e.classifier.Classify(text).Score, true
		}
		return whole
	}
	clauseScores := make(map[int]float64, len(clauses))
	clauseScore := func(i int) float64 {
		if len(clauses) == 1 {
			return wholeScore()
		}
		s, ok := clauseScores[i]
		if !ok {
			s = e.classifier.Classify(clauses[i]).Score
			clauseScores[i] = s
		}
		if s == 0 {
			return wholeScore()
		}
		return s
	}

	var out []domain.AspectScore
	for _, a := range e.aspects {
		m := e.matchers[a]
		sum, n := 0.0, 0
		for i, c := range clauses {
			if m.Match(c, toks[i]) {
				sum += clauseScore(i)
				n++
			}
		}
		if n > 0 {
			out = append(out, domain.AspectScore{Aspect: a, Score: sum / float64(n)})
		}
	}
	return out
}
