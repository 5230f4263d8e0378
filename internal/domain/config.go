package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Weights of the priority score: volume, negativity and worsening trend.
type Weights struct {
	Volume     float64 `json:"volume" yaml:"volume"`
	Negativity float64 `json:"negativity" yaml:"negativity"`
	Trend      float64 `json:"trend" yaml:"trend"`
}

var EqualWeights = Weights{Volume: 1.0 / 3, Negativity: 1.0 / 3, Trend: 1.0 / 3}

// ParseWeights reads "w1,w2,w3".
func ParseWeights(s string) (Weights, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Weights{}, &ConfigurationError{Field: "weights", Reason: fmt.Sprintf("want 3 comma-separated values, got %q", s)}
	}
	var f [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Weights{}, &ConfigurationError{Field: "weights", Reason: fmt.Sprintf("%q is not a number", p)}
		}
		f[i] = v
	}
	return Weights{Volume: f[0], Negativity: f[1], Trend: f[2]}, nil
}

// Config is supplied with every analysis; nothing is read from globals during a run.
type Config struct {
	Threshold   float64             `json:"threshold"`
	Granularity Granularity         `json:"granularity"`
	Weights     Weights             `json:"weights"`
	Lexicons    map[Aspect][]string `json:"lexicons"`
	RatingScale int                 `json:"rating_scale"`
	Workers     int                 `json:"workers"`
	TopKeywords int                 `json:"top_keywords"`
}

func (c Config) Validate() error {
	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold >= 1 {
		return &ConfigurationError{Field: "threshold", Reason: fmt.Sprintf("%v not in [0,1)", c.Threshold)}
	}
	if c.Granularity != Yearly && c.Granularity != Quarterly {
		return &ConfigurationError{Field: "granularity", Reason: fmt.Sprintf("%q is not year|quarter", c.Granularity)}
	}
	ws := []float64{c.Weights.Volume, c.Weights.Negativity, c.Weights.Trend}
	sum := 0.0
	for _, w := range ws {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return &ConfigurationError{Field: "weights", Reason: fmt.Sprintf("%v must be a finite non-negative number", w)}
		}
		sum += w
	}
	if sum == 0 {
		return &ConfigurationError{Field: "weights", Reason: "all weights are zero"}
	}
	if c.RatingScale != 5 && c.RatingScale != 10 {
		return &ConfigurationError{Field: "rating_scale", Reason: fmt.Sprintf("%d is not 5|10", c.RatingScale)}
	}
	if c.Workers < 0 {
		return &ConfigurationError{Field: "workers", Reason: "must not be negative"}
	}
	if c.TopKeywords < 0 {
		return &ConfigurationError{Field: "top_keywords", Reason: "must not be negative"}
	}
	for a := range c.Lexicons {
		if _, ok := ParseAspect(string(a)); !ok {
			return &ConfigurationError{Field: "lexicons", Reason: fmt.Sprintf("unknown aspect %q", a)}
		}
	}
	for _, a := range AllAspects {
		terms := 0
		for _, t := range c.Lexicons[a] {
			if strings.TrimSpace(strings.TrimSuffix(t, "*")) != "" {
				terms++
			}
		}
		if terms == 0 {
			return &ConfigurationError{Field: "lexicons." + string(a), Reason: "no terms"}
		}
	}
	return nil
}
