package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"review_insight/internal/adapters/observability"
)

// Deadline bounds the request context. Analyses stop at the deadline and the
// handler answers with a 503 problem.
func Deadline(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// recorder remembers the status and the body size written.
type recorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *recorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *recorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *recorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Instrument records request metrics and writes one log line per request:
// error level for 5xx, warn for 4xx.
func Instrument(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			dur := time.Since(start)
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := rec.Status()
			observability.ObserveHTTP(route, r.Method, status, dur)

			ev := l.Info()
			switch {
			case status >= 500:
				ev = l.Error()
			case status >= 400:
				ev = l.Warn()
			}
			ev.Str("route", route).
				Str("method", r.Method).
				Int("status", status).
				Int64("req_bytes", r.ContentLength).
				Int("resp_bytes", rec.bytes).
				Dur("duration", dur).
				Str("request_id", chimw.GetReqID(r.Context())).
				Str("remote", r.RemoteAddr). // already rewritten by chimw.RealIP
				Msg("http_request")
		})
	}
}
