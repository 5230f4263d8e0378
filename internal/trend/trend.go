// Package trend buckets analysed reviews into calendar periods.
package trend

import (
	"sort"
	"time"

	"review_insight/internal/domain"
)

// PeriodOf returns the bucket t falls into.
func PeriodOf(t time.Time, g domain.Granularity) domain.Period {
	if g == domain.Yearly {
		return domain.Period{Year: t.Year()}
	}
	return domain.Period{Year: t.Year(), Quarter: (int(t.Month())-1)/3 + 1}
}

type bucket struct {
	count       int
	ratingSum   int
	rated       int
	dist        map[domain.Label]int
	aspectSum   map[domain.Aspect]float64
	aspectCount map[domain.Aspect]int
}

// Aggregate builds one point per period from the earliest to the latest
// dated review. Undated reviews are skipped. Periods without reviews are
// emitted with a zero count and nil metrics so the series has no holes.
func Aggregate(items []domain.ReviewAnalysis, g domain.Granularity) []domain.TrendPoint {
	buckets := map[domain.Period]*bucket{}
	for _, it := range items {
		if it.Review.Date == nil {
			continue
		}
		p := PeriodOf(*it.Review.Date, g)
		b, ok := buckets[p]
		if !ok {
			b = &bucket{
				dist:        map[domain.Label]int{domain.Positive: 0, domain.Neutral: 0, domain.Negative: 0},
				aspectSum:   map[domain.Aspect]float64{},
				aspectCount: map[domain.Aspect]int{},
			}
			buckets[p] = b
		}
		b.count++
		if r := it.Review.Rating; r != nil {
			b.ratingSum += *r
			b.rated++
		}
		b.dist[it.Sentiment.Label]++
		for _, m := range it.Mentions {
			b.aspectSum[m.Aspect] += m.SentimentScore
			b.aspectCount[m.Aspect]++
		}
	}
	if len(buckets) == 0 {
		return []domain.TrendPoint{}
	}

	periods := make([]domain.Period, 0, len(buckets))
	for p := range buckets {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	first, last := periods[0], periods[len(periods)-1]

	var out []domain.TrendPoint
	for p := first; !last.Before(p); p = p.Next() {
		tp := domain.TrendPoint{Period: p, Label: p.String()}
		if b, ok := buckets[p]; ok {
			tp.ReviewCount = b.count
			if b.rated > 0 {
				avg := float64(b.ratingSum) / float64(b.rated)
				tp.AvgRating = &avg
			}
			tp.SentimentDistribution = b.dist
			tp.AspectAvg = make(map[domain.Aspect]float64, len(b.aspectSum))
			for a, sum := range b.aspectSum {
				tp.AspectAvg[a] = sum / float64(b.aspectCount[a])
			}
		}
		out = append(out, tp)
	}
	return out
}
