package cupid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"review_insight/internal/adapters/cupid"
	"review_insight/internal/domain"
)

func TestClient_GetReviews_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/properties/123/reviews" || r.URL.Query().Get("limit") != "2" {
			t.Errorf("unexpected url %s", r.URL)
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"review_id": 1.0, "headline": "Great", "pros": "onsen"},
				{"review_id": 2.0, "headline": "Bad", "cons": "noise"},
			})
		}
	}))
	defer ts.Close()

	cl, err := cupid.New(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.GetReviews(ctx, 123, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0]["headline"] != "Great" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_GetReviews_FallsBackToLegacyPath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/property/reviews/9/5" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{{"review_id": 1.0}})
	}))
	defer ts.Close()

	cl, _ := cupid.New(ts.URL, "test-key", 100)
	got, err := cl.GetReviews(context.Background(), 9, 5)
	if err != nil || len(got) != 1 {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestClient_GetReviews_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, err := cupid.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = cl.GetReviews(ctx, 1, 10)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := cupid.New("http://x", "", 1); err == nil {
		t.Fatalf("expected error without key")
	}
}
