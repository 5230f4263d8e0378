package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"review_insight/internal/domain"
	"review_insight/internal/loader"
)

// ResultService runs analyses and keeps their results in a cache so the
// sub-resources can be fetched afterwards.
type ResultService struct {
	engine   *Engine
	cache    domain.ResultCache
	cacheTTL time.Duration
}

func NewResultService(e *Engine, c domain.ResultCache, ttl time.Duration) *ResultService {
	return &ResultService{engine: e, cache: c, cacheTTL: ttl}
}

func resultKey(id string) string { return "analysis:" + id }

func (s *ResultService) Create(ctx context.Context, t loader.Table, cfg domain.Config) (domain.AnalysisResult, error) {
	res, err := s.engine.AnalyzeTable(ctx, t, cfg)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	if err := s.cache.Set(ctx, resultKey(res.ID), res, s.cacheTTL); err != nil {
		// the caller still gets the result; only later lookups miss
		log.Warn().Err(err).Str("id", res.ID).Msg("cache result failed")
	}
	return res, nil
}

func (s *ResultService) Get(ctx context.Context, id string) (domain.AnalysisResult, error) {
	var res domain.AnalysisResult
	ok, err := s.cache.Get(ctx, resultKey(id), &res)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("get analysis %s: %w", id, err)
	}
	if !ok {
		return domain.AnalysisResult{}, fmt.Errorf("analysis %s: %w", id, domain.ErrNotFound)
	}
	return res, nil
}

func (s *ResultService) Delete(ctx context.Context, id string) error {
	return s.cache.Del(ctx, resultKey(id))
}

// ListReviews pages through a stored analysis in review order.
func (s *ResultService) ListReviews(ctx context.Context, id string, limit, offset int) (domain.ReviewsPage, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	return PageReviews(res, limit, offset), nil
}

func PageReviews(res domain.AnalysisResult, limit, offset int) domain.ReviewsPage {
	total := len(res.Reviews)
	out := domain.ReviewsPage{Items: []domain.ReviewView{}, Total: total}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= total {
		return out
	}
	end := min(offset+limit, total)

	sentiments := make(map[int]domain.SentimentResult, len(res.Sentiments))
	for _, s := range res.Sentiments {
		sentiments[s.ReviewID] = s
	}
	mentions := map[int][]domain.AspectMention{}
	for _, m := range res.Mentions {
		mentions[m.ReviewID] = append(mentions[m.ReviewID], m)
	}
	for _, rv := range res.Reviews[offset:end] {
		ms := mentions[rv.ID]
		if ms == nil {
			ms = []domain.AspectMention{}
		}
		out.Items = append(out.Items, domain.ReviewView{Review: rv, Sentiment: sentiments[rv.ID], Mentions: ms})
	}
	if end < total {
		out.NextOffset = &end
	}
	return out
}
