package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"review_insight/internal/domain"
	"review_insight/internal/loader"
)

const (
	SourceMySQL = "mysql"
	SourceCupid = "cupid"
)

// ReviewSource reads the stored reviews of one property.
type ReviewSource interface {
	PropertyReviews(ctx context.Context, id int64) (loader.Table, error)
}

// PropertyService analyses the reviews of a property held in a database or
// fetched from the Cupid API. Either source may be nil.
type PropertyService struct {
	results     *ResultService
	db          ReviewSource
	cupid       domain.ReviewClient
	reviewCount int
}

func NewPropertyService(r *ResultService, db ReviewSource, c domain.ReviewClient, reviewCount int) *PropertyService {
	return &PropertyService{results: r, db: db, cupid: c, reviewCount: reviewCount}
}

func (s *PropertyService) AnalyzeProperty(ctx context.Context, id int64, source string, cfg domain.Config) (domain.AnalysisResult, error) {
	t, err := s.fetch(ctx, id, source)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	return s.results.Create(ctx, t, cfg)
}

func (s *PropertyService) fetch(ctx context.Context, id int64, source string) (loader.Table, error) {
	switch strings.ToLower(source) {
	case "", SourceMySQL:
		if s.db == nil {
			return loader.Table{}, fmt.Errorf("%s: %w", SourceMySQL, domain.ErrSourceUnavailable)
		}
		t, err := s.db.PropertyReviews(ctx, id)
		if err != nil {
			return loader.Table{}, fmt.Errorf("property %d reviews: %w", id, err)
		}
		return t, nil

	case SourceCupid:
		if s.cupid == nil {
			return loader.Table{}, fmt.Errorf("%s: %w", SourceCupid, domain.ErrSourceUnavailable)
		}
		recs, err := s.cupid.GetReviews(ctx, id, s.reviewCount)
		if err != nil {
			low := strings.ToLower(err.Error())
			switch {
			case errors.Is(err, domain.ErrNotFound) || strings.Contains(low, "not found"):
				return loader.Table{}, fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
			case strings.Contains(low, "403") || strings.Contains(low, "forbidden") ||
				strings.Contains(low, "401") || strings.Contains(low, "unauthorized"):
				return loader.Table{}, fmt.Errorf("property %d: %w: %v", id, domain.ErrSourceUnavailable, err)
			}
			return loader.Table{}, err
		}
		return loader.FromRecords(recs), nil
	}
	return loader.Table{}, &domain.ConfigurationError{Field: "source", Reason: fmt.Sprintf("%q is not mysql|cupid", source)}
}
