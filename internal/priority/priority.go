// Package priority ranks aspects by how urgently they need attention.
package priority

import (
	"math"
	"sort"

	"review_insight/internal/domain"
)

// Rank scores every aspect in domain.AllAspects:
//
//	score = w.Volume*count/maxCount + w.Negativity*negRatio + w.Trend*max(0, -delta)
//
// A mention is negative when its score is below -tau. delta is the change in
// the aspect's average between its earliest and latest trend periods. The
// result always holds one entry per aspect, ordered by score, then mention
// count (both descending), then aspect name.
func Rank(mentions []domain.AspectMention, points []domain.TrendPoint, w domain.Weights, tau float64) []domain.PriorityEntry {
	counts := map[domain.Aspect]int{}
	negatives := map[domain.Aspect]int{}
	for _, m := range mentions {
		counts[m.Aspect]++
		if m.SentimentScore < -tau {
			negatives[m.Aspect]++
		}
	}
	maxCount := 0
	for _, c := range counts {
		maxCount = max(maxCount, c)
	}

	out := make([]domain.PriorityEntry, 0, len(domain.AllAspects))
	for _, a := range domain.AllAspects {
		e := domain.PriorityEntry{Aspect: a, MentionCount: counts[a], TrendDelta: Delta(points, a)}
		var norm float64
		if e.MentionCount > 0 {
			e.NegativeRatio = float64(negatives[a]) / float64(e.MentionCount)
			norm = float64(e.MentionCount) / float64(maxCount)
		}
		e.PriorityScore = w.Volume*norm + w.Negativity*e.NegativeRatio + w.Trend*math.Max(0, -e.TrendDelta)
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PriorityScore != out[j].PriorityScore {
			return out[i].PriorityScore > out[j].PriorityScore
		}
		if out[i].MentionCount != out[j].MentionCount {
			return out[i].MentionCount > out[j].MentionCount
		}
		return out[i].Aspect < out[j].Aspect
	})
	return out
}

// Delta is latest minus earliest aspect average over the periods that
// mention the aspect, or 0 when fewer than two do.
func Delta(points []domain.TrendPoint, a domain.Aspect) float64 {
	var first, last float64
	n := 0
	for _, p := range points {
		v, ok := p.AspectAvg[a]
		if !ok {
			continue
		}
		if n == 0 {
			first = v
		}
		last = v
		n++
	}
	if n < 2 {
		return 0
	}
	return last - first
}
