package scoring_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_insight/internal/adapters/scoring"
	"review_insight/internal/domain"
)

// model scores "good"-containing texts 0.8, everything else -0.4.
func model(t *testing.T, calls *int32, texts *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sentiment", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var req struct {
			Texts []string `json:"texts"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		atomic.AddInt32(calls, 1)
		atomic.AddInt32(texts, int32(len(req.Texts)))
		scores := make([]float64, len(req.Texts))
		for i, s := range req.Texts {
			scores[i] = -0.4
			if s == "good" || s == "very good" {
				scores[i] = 0.8
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"scores": scores})
	}))
}

func TestPrepare_ScoresAndMemoises(t *testing.T) {
	var calls, texts int32
	ts := model(t, &calls, &texts)
	defer ts.Close()

	c, err := scoring.New(ts.URL+"/", "secret", 100)
	require.NoError(t, err)

	clf, err := c.Prepare(context.Background(), []string{"good", "meh"}, 0.1)
	require.NoError(t, err)
	assert.Equal(t, domain.Sentiment{Label: domain.Positive, Score: 0.8}, clf.Classify("good"))
	assert.Equal(t, domain.Sentiment{Label: domain.Negative, Score: -0.4}, clf.Classify("meh"))

	// unscored text uses the lexicon
	assert.Equal(t, domain.Negative, clf.Classify("the room was dirty").Label)
	assert.Equal(t, domain.Sentiment{Label: domain.Neutral}, clf.Classify("  "))

	// second run only sends the new text
	_, err = c.Prepare(context.Background(), []string{"good", "very good"}, 0.1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.EqualValues(t, 3, atomic.LoadInt32(&texts))
}

func TestPrepare_ThresholdIsPerRun(t *testing.T) {
	var calls, texts int32
	ts := model(t, &calls, &texts)
	defer ts.Close()

	c, err := scoring.New(ts.URL, "secret", 100)
	require.NoError(t, err)
	clf, err := c.Prepare(context.Background(), []string{"meh"}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, domain.Neutral, clf.Classify("meh").Label)
}

func TestPrepare_ErrorsSurface(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"scores": []float64{}})
	}))
	defer ts.Close()

	c, err := scoring.New(ts.URL, "", 100)
	require.NoError(t, err)
	_, err = c.Prepare(context.Background(), []string{"a"}, 0.1)
	assert.Error(t, err)
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := scoring.New("", "k", 1)
	assert.Error(t, err)
}
