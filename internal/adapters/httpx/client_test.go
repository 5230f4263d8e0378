package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"review_insight/internal/domain"
)

func TestGetJSON_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "k" {
			t.Errorf("missing api key header")
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		}
	}))
	defer ts.Close()

	c := New("test", 100, time.Second, map[string]string{"X-API-Key": "k"})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var out map[string]any
	if err := c.GetJSON(ctx, ts.URL, "reviews", &out); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out["ok"] != true || atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("unexpected result %v after %d calls", out, hits)
	}
}

func TestPostJSON_SendsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
	}))
	defer ts.Close()

	var out map[string]string
	err := New("test", 100, time.Second, nil).PostJSON(context.Background(), ts.URL, "echo", map[string]string{"msg": "hi"}, &out)
	if err != nil || out["echo"] != "hi" {
		t.Fatalf("got %v, %v", out, err)
	}
}

func TestStatusErrors(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
	}
	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		var out any
		err := New("test", 100, time.Second, nil).GetJSON(context.Background(), ts.URL, "x", &out)
		ts.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: want %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	if d := retryAfter(resp); d != 0 {
		t.Fatalf("absent header: %v", d)
	}
	resp.Header.Set("Retry-After", "3")
	if d := retryAfter(resp); d != 3*time.Second {
		t.Fatalf("seconds form: %v", d)
	}
	resp.Header.Set("Retry-After", "soon")
	if d := retryAfter(resp); d != 0 {
		t.Fatalf("garbage: %v", d)
	}
}

func TestBackoffGrows(t *testing.T) {
	for i := 0; i < 3; i++ {
		base := time.Duration(1<<i) * 200 * time.Millisecond
		if d := backoff(i); d < base || d > base+base/2 {
			t.Fatalf("attempt %d: %v outside [%v, %v]", i, d, base, base+base/2)
		}
	}
}
