// Package scorecard summarises sentiment per aspect.
package scorecard

import "review_insight/internal/domain"

// Summarize returns one entry per aspect in domain.AllAspects order. Each
// mention is labelled with tau; the average rating covers mentioning reviews
// that carry a rating. Aspects without mentions have zero counts and ratios
// and nil averages.
func Summarize(mentions []domain.AspectMention, reviews []domain.Review, tau float64) []domain.AspectSummary {
	ratings := make(map[int]int, len(reviews))
	for _, rv := range reviews {
		if rv.Rating != nil {
			ratings[rv.ID] = *rv.Rating
		}
	}

	type acc struct {
		n, rated         int
		scoreSum, rating float64
		labels           map[domain.Label]int
	}
	byAspect := make(map[domain.Aspect]*acc, len(domain.AllAspects))
	for _, a := range domain.AllAspects {
		byAspect[a] = &acc{labels: map[domain.Label]int{}}
	}
	for _, m := range mentions {
		c, ok := byAspect[m.Aspect]
		if !ok {
			continue
		}
		c.n++
		c.scoreSum += m.SentimentScore
		c.labels[domain.LabelFor(m.SentimentScore, tau)]++
		if r, ok := ratings[m.ReviewID]; ok {
			c.rated++
			c.rating += float64(r)
		}
	}

	out := make([]domain.AspectSummary, 0, len(domain.AllAspects))
	for _, a := range domain.AllAspects {
		c := byAspect[a]
		s := domain.AspectSummary{
			Aspect:        a,
			MentionCount:  c.n,
			LabelCounts:   make(map[domain.Label]int, len(domain.Labels)),
			LabelRatios:   make(map[domain.Label]float64, len(domain.Labels)),
			RatedMentions: c.rated,
		}
		for _, l := range domain.Labels {
			s.LabelCounts[l] = c.labels[l]
			if c.n > 0 {
				s.LabelRatios[l] = float64(c.labels[l]) / float64(c.n)
			} else {
				s.LabelRatios[l] = 0
			}
		}
		if c.n > 0 {
			avg := c.scoreSum / float64(c.n)
			s.AvgScore = &avg
		}
		if c.rated > 0 {
			avg := c.rating / float64(c.rated)
			s.AvgRating = &avg
		}
		out = append(out, s)
	}
	return out
}
