package domain

import (
	"context"
	"time"
)

// SentimentClassifier scores free text. Implementations must be deterministic and total.
type SentimentClassifier interface {
	Classify(text string) Sentiment
}

// AspectExtractor reports at most one score per aspect for a text.
type AspectExtractor interface {
	Extract(text string) []AspectScore
}

// ResultCache keeps finished analyses for the lifetime of an upload session.
type ResultCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// ReviewClient fetches raw review payloads for a property.
type ReviewClient interface {
	GetReviews(ctx context.Context, id int64, count int) ([]map[string]any, error)
}

// ClassifierProvider builds the classifier for one analysis run. Prepare gets
// every text the run will classify so remote models can score them in bulk.
type ClassifierProvider interface {
	Name() string
	Prepare(ctx context.Context, texts []string, threshold float64) (SentimentClassifier, error)
}
