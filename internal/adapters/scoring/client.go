// Package scoring is a SentimentClassifier backed by a remote scoring model.
//
// Texts are scored in bulk before a run starts; Classify then only reads the
// prepared scores, so it stays deterministic and never blocks. Texts the model
// did not score fall back to the lexicon classifier.
package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"review_insight/internal/adapters/httpx"
	"review_insight/internal/domain"
	"review_insight/internal/sentiment"
)

const (
	defaultBatch = 64
	memoSize     = 50_000
)

type request struct {
	Texts []string `json:"texts"`
}

type response struct {
	Scores []float64 `json:"scores"`
}

type Client struct {
	url   string
	http  *httpx.Client
	batch int
	memo  *lru.Cache[string, float64]
}

// New returns a client for the model at base. Scores are memoised across runs.
func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("scoring URL is required")
	}
	memo, err := lru.New[string, float64](memoSize)
	if err != nil {
		return nil, err
	}
	return &Client{
		url:   strings.TrimRight(base, "/") + "/v1/sentiment",
		http:  httpx.New("scoring", rps, 30*time.Second, map[string]string{"Authorization": bearer(key)}),
		batch: defaultBatch,
		memo:  memo,
	}, nil
}

func bearer(key string) string {
	if key == "" {
		return ""
	}
	return "Bearer " + key
}

func (c *Client) Name() string { return "remote" }

// Prepare scores every text not already memoised.
func (c *Client) Prepare(ctx context.Context, texts []string, threshold float64) (domain.SentimentClassifier, error) {
	scores := make(map[string]float64, len(texts))
	var pending []string
	for _, t := range texts {
		if s, ok := c.memo.Get(t); ok {
			scores[t] = s
			continue
		}
		pending = append(pending, t)
	}

	for start := 0; start < len(pending); start += c.batch {
		chunk := pending[start:min(start+c.batch, len(pending))]
		var resp response
		if err := c.http.PostJSON(ctx, c.url, "sentiment", request{Texts: chunk}, &resp); err != nil {
			return nil, fmt.Errorf("score batch: %w", err)
		}
		if len(resp.Scores) != len(chunk) {
			return nil, fmt.Errorf("score batch: got %d scores for %d texts", len(resp.Scores), len(chunk))
		}
		for i, t := range chunk {
			s := resp.Scores[i]
			if math.IsNaN(s) || math.IsInf(s, 0) {
				continue
			}
			s = math.Max(-1, math.Min(1, s))
			scores[t] = s
			c.memo.Add(t, s)
		}
	}
	return &classifier{scores: scores, threshold: threshold, fallback: sentiment.NewLexicon(threshold)}, nil
}

type classifier struct {
	scores    map[string]float64
	threshold float64
	fallback  *sentiment.Lexicon
}

func (c *classifier) Classify(text string) domain.Sentiment {
	if strings.TrimSpace(text) == "" {
		return domain.Sentiment{Label: domain.Neutral}
	}
	s, ok := c.scores[text]
	if !ok {
		return c.fallback.Classify(text)
	}
	return domain.Sentiment{Label: domain.LabelFor(s, c.threshold), Score: s}
}
