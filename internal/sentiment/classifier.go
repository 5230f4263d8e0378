// Package sentiment is the default, lexicon-based sentiment classifier.
package sentiment

import (
	"context"
	"strings"

	"review_insight/internal/domain"
)

const (
	negationWindow  = 3
	intensifierGain = 1.5
)

// Lexicon scores text by counting polar terms. It is safe for concurrent use.
type Lexicon struct {
	threshold float64
	pos, neg  TermSet
}

func NewLexicon(threshold float64) *Lexicon {
	return &Lexicon{
		threshold: threshold,
		pos:       NewTermSet(positiveTerms),
		neg:       NewTermSet(negativeTerms),
	}
}

func (l *Lexicon) Name() string { return "lexicon" }

// Classify: score = (P - N) / (P + N + 1), labelled with the threshold.
// Blank text is neutral with score 0.
func (l *Lexicon) Classify(text string) domain.Sentiment {
	s := l.Score(text)
	return domain.Sentiment{Label: domain.LabelFor(s, l.threshold), Score: s}
}

func (l *Lexicon) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	var p, n float64
	for _, toks := range Segments(text) {
		// a negator flips only the first polar term within the window after it
		negAt := -1
		for i, tok := range toks {
			if isNegator(tok) {
				negAt = i
				continue
			}
			// negative stems win inside one token ("불친절" contains "친절")
			polarity := 0
			switch {
			case l.neg.Match(tok):
				polarity = -1
			case l.pos.Match(tok):
				polarity = 1
			default:
				continue
			}
			if negAt >= 0 && i-negAt <= negationWindow {
				polarity = -polarity
			}
			negAt = -1
			weight := 1.0
			if i > 0 {
				if _, ok := intensifiers[toks[i-1]]; ok {
					weight = intensifierGain
				}
			}
			if polarity > 0 {
				p += weight
			} else {
				n += weight
			}
		}
	}
	if p == 0 && n == 0 {
		return 0
	}
	return (p - n) / (p + n + 1)
}

// Provider hands out Lexicon classifiers; it needs no warm-up.
type Provider struct{}

func (Provider) Name() string { return "lexicon" }

func (Provider) Prepare(_ context.Context, _ []string, threshold float64) (domain.SentimentClassifier, error) {
	return NewLexicon(threshold), nil
}
