package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"review_insight/internal/domain"
)

const topPriorities = 3

// printResult writes the KPI line, the top priorities and the aspect
// summary of one analysis.
func printResult(w io.Writer, name string, res domain.AnalysisResult) {
	k := res.KPI
	avg := "n/a"
	if k.AvgRating != nil {
		avg = fmt.Sprintf("%.2f", *k.AvgRating)
	}
	p := k.SentimentDistribution.Proportions
	fmt.Fprintf(w, "%s: %d reviews, avg rating %s, positive %.0f%% neutral %.0f%% negative %.0f%% (%s)\n",
		name, k.TotalReviews, avg,
		100*p[domain.Positive], 100*p[domain.Neutral], 100*p[domain.Negative],
		res.Diagnostics.Classifier)
	if k.CoercionWarnings > 0 {
		fmt.Fprintf(w, "  %d values treated as missing\n", k.CoercionWarnings)
	}

	rows := make([][]string, 0, topPriorities)
	for _, e := range res.Priorities[:min(topPriorities, len(res.Priorities))] {
		rows = append(rows, []string{
			string(e.Aspect),
			fmt.Sprintf("%.3f", e.PriorityScore),
			fmt.Sprintf("%d", e.MentionCount),
			fmt.Sprintf("%.0f%%", 100*e.NegativeRatio),
			fmt.Sprintf("%+.2f", e.TrendDelta),
		})
	}
	table := tablewriter.NewTable(w)
	table.Header([]string{"Aspect", "Priority", "Mentions", "Negative", "Trend"})
	_ = table.Bulk(rows)
	_ = table.Render()

	printAspects(w, res.Aspects)
}

// printAspects writes one row per aspect with its label split as pos/neu/neg.
func printAspects(w io.Writer, sums []domain.AspectSummary) {
	opt := func(v *float64, format string) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf(format, *v)
	}
	rows := make([][]string, 0, len(sums))
	for _, s := range sums {
		rows = append(rows, []string{
			string(s.Aspect),
			fmt.Sprintf("%d", s.MentionCount),
			opt(s.AvgScore, "%+.2f"),
			fmt.Sprintf("%d/%d/%d", s.LabelCounts[domain.Positive], s.LabelCounts[domain.Neutral], s.LabelCounts[domain.Negative]),
			opt(s.AvgRating, "%.2f"),
		})
	}
	table := tablewriter.NewTable(w)
	table.Header([]string{"Aspect", "Mentions", "Avg Score", "Pos/Neu/Neg", "Avg Rating"})
	_ = table.Bulk(rows)
	_ = table.Render()
}
