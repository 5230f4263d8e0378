package domain

import (
	"strings"
	"time"
)

// Review is one canonical input row. It is never modified after loading.
type Review struct {
	ID     int        `json:"id"`
	Title  string     `json:"title,omitempty"`
	Text   string     `json:"text"`
	Rating *int       `json:"rating"`
	Date   *time.Time `json:"date"`
	Source *string    `json:"source"`
}

// FullText is the text every classifier sees: title and body on separate lines.
func (r Review) FullText() string {
	t, b := strings.TrimSpace(r.Title), strings.TrimSpace(r.Text)
	switch {
	case t == "":
		return b
	case b == "":
		return t
	}
	return t + "\n" + b
}

type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// Labels in reporting order.
var Labels = []Label{Positive, Neutral, Negative}

// LabelFor buckets a score with threshold tau: < -tau negative, > tau positive.
func LabelFor(score, tau float64) Label {
	switch {
	case score < -tau:
		return Negative
	case score > tau:
		return Positive
	}
	return Neutral
}

type Sentiment struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"`
}

type SentimentResult struct {
	ReviewID int     `json:"review_id"`
	Label    Label   `json:"label"`
	Score    float64 `json:"score"`
}

type Aspect string

const (
	Cleanliness    Aspect = "cleanliness"
	Facilities     Aspect = "facilities"
	Staff          Aspect = "staff"
	Price          Aspect = "price"
	HotSpringWater Aspect = "hot_spring_water"
)

// AllAspects is the fixed aspect set, in name order.
var AllAspects = []Aspect{Cleanliness, Facilities, HotSpringWater, Price, Staff}

func ParseAspect(s string) (Aspect, bool) {
	a := Aspect(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range AllAspects {
		if k == a {
			return a, true
		}
	}
	return "", false
}

// AspectScore is what an extractor reports for one aspect of one text.
type AspectScore struct {
	Aspect Aspect
	Score  float64
}

type AspectMention struct {
	ReviewID       int     `json:"review_id"`
	Aspect         Aspect  `json:"aspect"`
	SentimentScore float64 `json:"sentiment_score"`
}

// ReviewAnalysis joins a review with its per-review outputs.
type ReviewAnalysis struct {
	Review    Review
	Sentiment SentimentResult
	Mentions  []AspectMention
}
