package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"review_insight/internal/app"
	"review_insight/internal/domain"
	"review_insight/internal/loader"
)

type fakeSource struct {
	t   loader.Table
	err error
	id  int64
}

func (f *fakeSource) PropertyReviews(ctx context.Context, id int64) (loader.Table, error) {
	f.id = id
	return f.t, f.err
}

type fakeCupid struct {
	recs  []map[string]any
	err   error
	count int
}

func (f *fakeCupid) GetReviews(ctx context.Context, id int64, count int) ([]map[string]any, error) {
	f.count = count
	return f.recs, f.err
}

func newResults() *app.ResultService {
	return app.NewResultService(app.NewEngine(), &fakeCache{}, time.Minute)
}

func TestAnalyzeProperty_MySQL(t *testing.T) {
	src := &fakeSource{t: table("clean and quiet", "rude reception")}
	s := app.NewPropertyService(newResults(), src, nil, 50)

	res, err := s.AnalyzeProperty(context.Background(), 1641879, "", app.DefaultConfig())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if src.id != 1641879 || res.KPI.TotalReviews != 2 {
		t.Fatalf("unexpected: id=%d total=%d", src.id, res.KPI.TotalReviews)
	}
}

func TestAnalyzeProperty_Cupid(t *testing.T) {
	c := &fakeCupid{recs: []map[string]any{
		{"review_id": 1, "headline": "Lovely", "pros": "great onsen", "cons": "", "average_score": 9, "date": "2024-03-02 10:00:00"},
		{"review_id": 2, "headline": "Meh", "pros": "", "cons": "dirty bathroom", "average_score": 4, "date": "2024-07-01 10:00:00"},
	}}
	s := app.NewPropertyService(newResults(), nil, c, 25)

	cfg := app.DefaultConfig()
	cfg.RatingScale = 10
	res, err := s.AnalyzeProperty(context.Background(), 7, app.SourceCupid, cfg)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if c.count != 25 {
		t.Fatalf("review count not passed: %d", c.count)
	}
	if res.KPI.TotalReviews != 2 || res.KPI.AvgRating == nil || *res.KPI.AvgRating != 3.5 {
		t.Fatalf("unexpected kpi: %+v", res.KPI)
	}
	if len(res.Trend) != 3 {
		t.Fatalf("expected Q1..Q3 trend, got %d points", len(res.Trend))
	}
}

func TestAnalyzeProperty_Errors(t *testing.T) {
	cases := []struct {
		name   string
		svc    *app.PropertyService
		source string
		want   error
	}{
		{"no database", app.NewPropertyService(newResults(), nil, nil, 10), "mysql", domain.ErrSourceUnavailable},
		{"no cupid client", app.NewPropertyService(newResults(), nil, nil, 10), "cupid", domain.ErrSourceUnavailable},
		{"cupid 404", app.NewPropertyService(newResults(), nil, &fakeCupid{err: fmt.Errorf("GET /reviews: %w", domain.ErrNotFound)}, 10), "cupid", domain.ErrNotFound},
		{"cupid 403", app.NewPropertyService(newResults(), nil, &fakeCupid{err: errors.New("http 403: forbidden")}, 10), "cupid", domain.ErrSourceUnavailable},
		{"no rows", app.NewPropertyService(newResults(), &fakeSource{t: loader.Table{Columns: []string{"text"}}}, nil, 10), "mysql", domain.ErrNoRows},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.svc.AnalyzeProperty(context.Background(), 1, tc.source, app.DefaultConfig())
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAnalyzeProperty_UnknownSource(t *testing.T) {
	s := app.NewPropertyService(newResults(), nil, nil, 10)
	_, err := s.AnalyzeProperty(context.Background(), 1, "ftp", app.DefaultConfig())
	var ce *domain.ConfigurationError
	if !errors.As(err, &ce) || ce.Field != "source" {
		t.Fatalf("expected source configuration error, got %v", err)
	}
}
