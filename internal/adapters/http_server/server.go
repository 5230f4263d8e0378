// Package httpserver exposes the analysis engine over HTTP.
package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct{ mux *chi.Mux }

// New builds the router. Request contexts expire after timeout (60s when <= 0).
func New(timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	m := chi.NewRouter()

	// all middlewares go before any routes are added
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Instrument(log.Logger))
	m.Use(Deadline(timeout))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches an extra handler, e.g. /metrics.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
