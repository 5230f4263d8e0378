package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"review_insight/internal/app"
	"review_insight/internal/domain"
	"review_insight/internal/loader"
)

const topPriorities = 3

type Handlers struct {
	Results    *app.ResultService
	Properties *app.PropertyService
	// Defaults is copied per request and then overridden by query parameters.
	Defaults  domain.Config
	MaxUpload int64
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/analyses", h.createAnalysis)
	s.mux.Route("/v1/analyses/{id}", func(r chi.Router) {
		r.Get("/", h.getAnalysis)
		r.Delete("/", h.deleteAnalysis)
		r.Get("/kpis", h.getKPIs)
		r.Get("/trends", h.getTrends)
		r.Get("/priorities", h.getPriorities)
		r.Get("/aspects", h.getAspects)
		r.Get("/reviews", h.listReviews)
	})
	s.mux.Post("/v1/properties/{id}/analyses", h.analyzeProperty)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps engine and service errors onto problem responses. The size
// check precedes the LoadError one: an oversized upload arrives wrapped in it.
func writeError(w http.ResponseWriter, err error) {
	var (
		le *domain.LoadError
		ce *domain.ConfigurationError
		mb *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ce):
		writeProblem(w, http.StatusBadRequest, "Invalid configuration", ce.Error())
	case errors.As(err, &mb):
		writeProblem(w, http.StatusRequestEntityTooLarge, "Upload too large", fmt.Sprintf("limit is %d bytes", mb.Limit))
	case errors.As(err, &le):
		writeProblem(w, http.StatusUnprocessableEntity, le.Reason.Error(), le.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrSourceUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Source unavailable", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeProblem(w, http.StatusServiceUnavailable, "Canceled", "analysis did not finish")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON answers with v, or 304 when the client already holds this version.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag && status == http.StatusOK {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- analyses ----

func (h *Handlers) createAnalysis(w http.ResponseWriter, r *http.Request) {
	cfg, err := configFromQuery(h.Defaults, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.MaxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
	}
	t, err := h.readTable(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Results.Create(r.Context(), t, cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/analyses/"+res.ID)
	writeJSON(w, r, http.StatusCreated, res)
}

type rowsBody struct {
	Rows []map[string]any `json:"rows"`
}

// readTable accepts a multipart "file" field, a JSON {"rows": [...]} body or raw CSV.
func (h *Handlers) readTable(r *http.Request) (loader.Table, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "multipart/form-data":
		f, _, err := r.FormFile("file")
		if err != nil {
			return loader.Table{}, domain.NewLoadError(domain.ErrUndecodable, `multipart field "file"`, err)
		}
		defer f.Close()
		return loader.ReadCSV(f)

	case "application/json":
		var body rowsBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return loader.Table{}, domain.NewLoadError(domain.ErrUndecodable, "json body", err)
		}
		return loader.FromRecords(body.Rows), nil
	}

	return loader.ReadCSV(r.Body)
}

func (h *Handlers) getAnalysis(w http.ResponseWriter, r *http.Request) {
	res, err := h.Results.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *Handlers) deleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := h.Results.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type kpiResponse struct {
	domain.KPI
	NegativeKeywords []domain.KeywordCount `json:"negative_keywords"`
	Segments         []domain.SegmentStat  `json:"segments"`
}

func (h *Handlers) getKPIs(w http.ResponseWriter, r *http.Request) {
	res, err := h.Results.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, kpiResponse{KPI: res.KPI, NegativeKeywords: res.NegativeKeywords, Segments: res.Segments})
}

type trendResponse struct {
	Granularity domain.Granularity  `json:"granularity"`
	Points      []domain.TrendPoint `json:"points"`
}

func (h *Handlers) getTrends(w http.ResponseWriter, r *http.Request) {
	res, err := h.Results.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, trendResponse{Granularity: res.Config.Granularity, Points: res.Trend})
}

type priorityResponse struct {
	Top []domain.PriorityEntry `json:"top"`
	All []domain.PriorityEntry `json:"all"`
}

func (h *Handlers) getPriorities(w http.ResponseWriter, r *http.Request) {
	res, err := h.Results.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	top := res.Priorities[:min(topPriorities, len(res.Priorities))]
	writeJSON(w, r, http.StatusOK, priorityResponse{Top: top, All: res.Priorities})
}

func (h *Handlers) getAspects(w http.ResponseWriter, r *http.Request) {
	res, err := h.Results.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string][]domain.AspectSummary{"aspects": res.Aspects})
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 50
	if ls := q.Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	offset := 0
	if v := q.Get("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil || o < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid offset", "offset must be a non-negative integer")
			return
		}
		offset = o
	}

	out, err := h.Results.ListReviews(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// ---- properties ----

func (h *Handlers) analyzeProperty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	cfg, err := configFromQuery(h.Defaults, r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Properties.AnalyzeProperty(r.Context(), id, r.URL.Query().Get("source"), cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/analyses/"+res.ID)
	writeJSON(w, r, http.StatusCreated, res)
}
