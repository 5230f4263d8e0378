package domain

import (
	"fmt"
	"time"
)

type Granularity string

const (
	Yearly    Granularity = "year"
	Quarterly Granularity = "quarter"
)

// Period is a trend bucket. Quarter is 0 for yearly buckets.
type Period struct {
	Year    int `json:"year"`
	Quarter int `json:"quarter,omitempty"`
}

func (p Period) String() string {
	if p.Quarter == 0 {
		return fmt.Sprintf("%d", p.Year)
	}
	return fmt.Sprintf("%d-Q%d", p.Year, p.Quarter)
}

func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Quarter < o.Quarter
}

// Next returns the following bucket of the same granularity.
func (p Period) Next() Period {
	if p.Quarter == 0 {
		return Period{Year: p.Year + 1}
	}
	if p.Quarter == 4 {
		return Period{Year: p.Year + 1, Quarter: 1}
	}
	return Period{Year: p.Year, Quarter: p.Quarter + 1}
}

// TrendPoint metrics are nil for gap periods (ReviewCount == 0).
type TrendPoint struct {
	Period                Period             `json:"period"`
	Label                 string             `json:"label"`
	ReviewCount           int                `json:"review_count"`
	AvgRating             *float64           `json:"avg_rating"`
	SentimentDistribution map[Label]int      `json:"sentiment_distribution"`
	AspectAvg             map[Aspect]float64 `json:"aspect_avg"`
}

type PriorityEntry struct {
	Aspect        Aspect  `json:"aspect"`
	PriorityScore float64 `json:"priority_score"`
	MentionCount  int     `json:"mention_count"`
	NegativeRatio float64 `json:"negative_ratio"`
	TrendDelta    float64 `json:"trend_delta"`
}

// AspectSummary aggregates the mentions of one aspect. Labels are derived
// from the mention scores with the run threshold.
type AspectSummary struct {
	Aspect        Aspect            `json:"aspect"`
	MentionCount  int               `json:"mention_count"`
	AvgScore      *float64          `json:"avg_sentiment_score"`
	LabelCounts   map[Label]int     `json:"label_counts"`
	LabelRatios   map[Label]float64 `json:"label_ratios"`
	RatedMentions int               `json:"rated_mentions"`
	AvgRating     *float64          `json:"avg_rating"`
}

type SentimentDistribution struct {
	Counts      map[Label]int     `json:"counts"`
	Proportions map[Label]float64 `json:"proportions"`
}

type KPI struct {
	TotalReviews          int                   `json:"total_reviews"`
	RatedReviews          int                   `json:"rated_reviews"`
	AvgRating             *float64              `json:"avg_rating"`
	MinRating             *int                  `json:"min_rating"`
	MaxRating             *int                  `json:"max_rating"`
	SentimentDistribution SentimentDistribution `json:"sentiment_distribution"`
	FirstReview           *time.Time            `json:"first_review"`
	LatestReview          *time.Time            `json:"latest_review"`
	SourceCounts          map[string]int        `json:"source_counts"`
	CoercionWarnings      int                   `json:"coercion_warnings"`
}

type KeywordCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

type SegmentStat struct {
	Segment       string   `json:"segment"`
	ReviewCount   int      `json:"review_count"`
	AvgRating     *float64 `json:"avg_rating"`
	PositiveRatio float64  `json:"positive_ratio"`
	NegativeRatio float64  `json:"negative_ratio"`
}

type Diagnostics struct {
	Warnings   []CoercionWarning `json:"warnings"`
	Classifier string            `json:"classifier"`
	Duration   time.Duration     `json:"duration_ns"`
}

// AnalysisResult is the engine output. It is built once and only read afterwards.
type AnalysisResult struct {
	ID               string            `json:"id"`
	GeneratedAt      time.Time         `json:"generated_at"`
	Config           Config            `json:"config"`
	Reviews          []Review          `json:"reviews"`
	Sentiments       []SentimentResult `json:"sentiments"`
	Mentions         []AspectMention   `json:"mentions"`
	Trend            []TrendPoint      `json:"trend"`
	Aspects          []AspectSummary   `json:"aspects"`
	Priorities       []PriorityEntry   `json:"priorities"`
	KPI              KPI               `json:"kpi"`
	NegativeKeywords []KeywordCount    `json:"negative_keywords"`
	Segments         []SegmentStat     `json:"segments"`
	Diagnostics      Diagnostics       `json:"diagnostics"`
}

// ReviewView is one review with everything the engine derived from it.
type ReviewView struct {
	Review
	Sentiment SentimentResult `json:"sentiment"`
	Mentions  []AspectMention `json:"mentions"`
}

type ReviewsPage struct {
	Items      []ReviewView `json:"items"`
	Total      int          `json:"total"`
	NextOffset *int         `json:"next_offset"`
}
