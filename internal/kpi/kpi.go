// Package kpi computes headline figures over a whole dataset.
package kpi

import (
	"review_insight/internal/domain"
)

// Summarize never fails. sentiments are matched to reviews by ReviewID;
// reviews without a sentiment are not counted in the distribution.
func Summarize(reviews []domain.Review, sentiments []domain.SentimentResult, warnings []domain.CoercionWarning) domain.KPI {
	k := domain.KPI{
		TotalReviews:     len(reviews),
		SourceCounts:     map[string]int{},
		CoercionWarnings: len(warnings),
		SentimentDistribution: domain.SentimentDistribution{
			Counts:      map[domain.Label]int{domain.Positive: 0, domain.Neutral: 0, domain.Negative: 0},
			Proportions: map[domain.Label]float64{},
		},
	}

	sum := 0
	for _, r := range reviews {
		if r.Rating != nil {
			v := *r.Rating
			sum += v
			k.RatedReviews++
			if k.MinRating == nil || v < *k.MinRating {
				k.MinRating = &v
			}
			if k.MaxRating == nil || v > *k.MaxRating {
				k.MaxRating = &v
			}
		}
		if r.Date != nil {
			d := *r.Date
			if k.FirstReview == nil || d.Before(*k.FirstReview) {
				k.FirstReview = &d
			}
			if k.LatestReview == nil || d.After(*k.LatestReview) {
				k.LatestReview = &d
			}
		}
		if r.Source != nil && *r.Source != "" {
			k.SourceCounts[*r.Source]++
		}
	}
	if k.RatedReviews > 0 {
		avg := float64(sum) / float64(k.RatedReviews)
		k.AvgRating = &avg
	}

	ids := make(map[int]struct{}, len(reviews))
	for _, r := range reviews {
		ids[r.ID] = struct{}{}
	}
	for _, s := range sentiments {
		if _, ok := ids[s.ReviewID]; ok {
			k.SentimentDistribution.Counts[s.Label]++
		}
	}
	if k.TotalReviews > 0 {
		for _, l := range domain.Labels {
			k.SentimentDistribution.Proportions[l] = float64(k.SentimentDistribution.Counts[l]) / float64(k.TotalReviews)
		}
	}
	return k
}
