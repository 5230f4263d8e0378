package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoRows       = errors.New("no analyzable reviews found")
	ErrNoTextColumn = errors.New("no review text column")
	ErrUndecodable  = errors.New("dataset could not be read")
	ErrNotFound     = errors.New("not found")
	// ErrSourceUnavailable: the requested review source is not configured or refused access.
	ErrSourceUnavailable = errors.New("review source unavailable")
)

// LoadError means the dataset is unusable and no analysis runs.
type LoadError struct {
	Reason error // one of ErrNoRows, ErrNoTextColumn, ErrUndecodable
	Detail string
	Err    error
}

func (e *LoadError) Error() string {
	msg := "load: " + e.Reason.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

func NewLoadError(reason error, detail string, cause error) *LoadError {
	return &LoadError{Reason: reason, Detail: detail, Err: cause}
}

// ConfigurationError is returned before any computation when a Config is invalid.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// CoercionWarning records a field that could not be parsed and was treated as missing.
type CoercionWarning struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func (w CoercionWarning) String() string {
	return fmt.Sprintf("row %d: %s %q treated as missing", w.Row, w.Field, w.Value)
}
