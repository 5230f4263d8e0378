package httpserver

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"review_insight/internal/adapters/observability"
)

func TestDeadline_ExpiresRequestContext(t *testing.T) {
	var got error
	h := Deadline(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		got = r.Context().Err()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !errors.Is(got, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", got)
	}
}

func TestInstrument_RecordsRoutePattern(t *testing.T) {
	var logs bytes.Buffer
	m := chi.NewRouter()
	m.Use(Instrument(zerolog.New(&logs)))
	m.Get("/v1/analyses/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	})

	counter := observability.HTTPRequests.WithLabelValues("/v1/analyses/{id}", http.MethodGet, "404")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analyses/abc", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
	if d := testutil.ToFloat64(counter) - before; d != 1 {
		t.Fatalf("counter moved by %v", d)
	}
	line := logs.String()
	for _, want := range []string{`"level":"warn"`, `"route":"/v1/analyses/{id}"`, `"status":404`, `"resp_bytes":7`} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q lacks %s", line, want)
		}
	}
}
