package httpserver

import (
	"net/http"
	"strconv"

	"review_insight/internal/domain"
)

// configFromQuery applies granularity, threshold, weights and rating_scale
// overrides to a copy of def and validates the result.
func configFromQuery(def domain.Config, r *http.Request) (domain.Config, error) {
	cfg := def
	q := r.URL.Query()
	if v := q.Get("granularity"); v != "" {
		cfg.Granularity = domain.Granularity(v)
	}
	if v := q.Get("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, &domain.ConfigurationError{Field: "threshold", Reason: "not a number"}
		}
		cfg.Threshold = f
	}
	if v := q.Get("weights"); v != "" {
		w, err := domain.ParseWeights(v)
		if err != nil {
			return cfg, err
		}
		cfg.Weights = w
	}
	if v := q.Get("rating_scale"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, &domain.ConfigurationError{Field: "rating_scale", Reason: "not an integer"}
		}
		cfg.RatingScale = n
	}
	return cfg, cfg.Validate()
}
