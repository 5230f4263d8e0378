package app

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"review_insight/internal/aspect"
	"review_insight/internal/domain"
	"review_insight/internal/insight"
	"review_insight/internal/kpi"
	"review_insight/internal/loader"
	"review_insight/internal/priority"
	"review_insight/internal/scorecard"
	"review_insight/internal/sentiment"
	"review_insight/internal/trend"
)

// DefaultConfig is the analysis configuration used when a caller overrides nothing.
func DefaultConfig() domain.Config {
	return domain.Config{
		Threshold:   0.1,
		Granularity: domain.Quarterly,
		Weights:     domain.EqualWeights,
		Lexicons:    aspect.DefaultLexicons(),
		RatingScale: 5,
		TopKeywords: 10,
	}
}

// Recorder receives one call per finished run.
type Recorder interface {
	ObserveRun(status string, dur time.Duration, reviews int, warnings []domain.CoercionWarning)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRun(string, time.Duration, int, []domain.CoercionWarning) {}

// Engine runs the analysis pipeline. It holds no per-run state and is safe
// for concurrent use.
type Engine struct {
	provider domain.ClassifierProvider
	recorder Recorder
	segments []insight.Segment
	now      func() time.Time
	newID    func() string
}

type Option func(*Engine)

// WithClassifier replaces the lexicon classifier. If the provider fails to
// prepare, the run falls back to the lexicon.
func WithClassifier(p domain.ClassifierProvider) Option {
	return func(e *Engine) { e.provider = p }
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

func WithSegments(s []insight.Segment) Option {
	return func(e *Engine) { e.segments = s }
}

func withClock(now func() time.Time, id func() string) Option {
	return func(e *Engine) { e.now, e.newID = now, id }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		provider: sentiment.Provider{},
		recorder: nopRecorder{},
		segments: insight.DefaultSegments,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// AnalyzeTable validates cfg, loads t and analyses the result.
func (e *Engine) AnalyzeTable(ctx context.Context, t loader.Table, cfg domain.Config) (domain.AnalysisResult, error) {
	if err := cfg.Validate(); err != nil {
		e.recorder.ObserveRun(runStatus(err), 0, 0, nil)
		return domain.AnalysisResult{}, err
	}
	ds, err := loader.Load(t, loader.Options{RatingScale: cfg.RatingScale})
	if err != nil {
		e.recorder.ObserveRun(runStatus(err), 0, 0, nil)
		return domain.AnalysisResult{}, err
	}
	return e.Analyze(ctx, ds, cfg)
}

// Analyze runs every stage over ds. Per-review work is spread over
// cfg.Workers goroutines (GOMAXPROCS when 0); cancelling ctx aborts the run.
func (e *Engine) Analyze(ctx context.Context, ds loader.Dataset, cfg domain.Config) (res domain.AnalysisResult, err error) {
	start := e.now()
	defer func() {
		e.recorder.ObserveRun(runStatus(err), e.now().Sub(start), len(ds.Reviews), ds.Warnings)
	}()

	if err := cfg.Validate(); err != nil {
		return domain.AnalysisResult{}, err
	}
	if len(ds.Reviews) == 0 {
		return domain.AnalysisResult{}, domain.NewLoadError(domain.ErrNoRows, "dataset has no reviews", nil)
	}

	logger := log.With().Int("reviews", len(ds.Reviews)).Str("granularity", string(cfg.Granularity)).Logger()
	logger.Info().Msg("analysis started")
	if len(ds.Warnings) > 0 {
		logger.Warn().Int("warnings", len(ds.Warnings)).Msg("values coerced to missing")
	}

	clf, name := e.classifier(ctx, ds.Reviews, cfg.Threshold)
	ext := aspect.NewExtractor(cfg.Lexicons, clf)

	items := make([]domain.ReviewAnalysis, len(ds.Reviews))
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rv := range ds.Reviews {
		if gctx.Err() != nil {
			break
		}
		i, rv := i, rv
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i] = analyzeReview(rv, clf, ext)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.AnalysisResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.AnalysisResult{}, err
	}

	res = domain.AnalysisResult{
		ID:          e.newID(),
		GeneratedAt: e.now().UTC(),
		Config:      cfg,
		Reviews:     ds.Reviews,
		Sentiments:  make([]domain.SentimentResult, 0, len(items)),
		Mentions:    []domain.AspectMention{},
	}
	for _, it := range items {
		res.Sentiments = append(res.Sentiments, it.Sentiment)
		res.Mentions = append(res.Mentions, it.Mentions...)
	}
	res.Trend = trend.Aggregate(items, cfg.Granularity)
	res.Aspects = scorecard.Summarize(res.Mentions, ds.Reviews, cfg.Threshold)
	res.Priorities = priority.Rank(res.Mentions, res.Trend, cfg.Weights, cfg.Threshold)
	res.KPI = kpi.Summarize(ds.Reviews, res.Sentiments, ds.Warnings)
	res.NegativeKeywords = insight.NegativeKeywords(items, insight.ComplaintTerms, cfg.TopKeywords)
	res.Segments = insight.Segments(items, e.segments)
	res.Diagnostics = domain.Diagnostics{
		Warnings:   append([]domain.CoercionWarning{}, ds.Warnings...),
		Classifier: name,
		Duration:   e.now().Sub(start),
	}

	logger.Info().
		Str("id", res.ID).
		Str("classifier", name).
		Int("mentions", len(res.Mentions)).
		Dur("took", res.Diagnostics.Duration).
		Msg("analysis finished")
	return res, nil
}

// classifier prepares the configured provider, falling back to the lexicon.
func (e *Engine) classifier(ctx context.Context, reviews []domain.Review, threshold float64) (domain.SentimentClassifier, string) {
	if _, ok := e.provider.(sentiment.Provider); ok {
		return sentiment.NewLexicon(threshold), "lexicon"
	}
	clf, err := e.provider.Prepare(ctx, classifiedTexts(reviews), threshold)
	if err != nil {
		log.Warn().Err(err).Str("classifier", e.provider.Name()).Msg("classifier unavailable, using lexicon")
		return sentiment.NewLexicon(threshold), "lexicon"
	}
	return clf, e.provider.Name()
}

// classifiedTexts lists, without duplicates, every text a run will classify:
// each review and, when it has several, each of its clauses.
func classifiedTexts(reviews []domain.Review) []string {
	seen := make(map[string]struct{}, len(reviews))
	var out []string
	add := func(s string) {
		if _, ok := seen[s]; ok || s == "" {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, r := range reviews {
		full := r.FullText()
		add(full)
		if cs := aspect.Clauses(full); len(cs) > 1 {
			for _, c := range cs {
				add(c)
			}
		}
	}
	return out
}

func analyzeReview(rv domain.Review, clf domain.SentimentClassifier, ext domain.AspectExtractor) domain.ReviewAnalysis {
	text := rv.FullText()
	s := clf.Classify(text)
	out := domain.ReviewAnalysis{
		Review:    rv,
		Sentiment: domain.SentimentResult{ReviewID: rv.ID, Label: s.Label, Score: s.Score},
	}
	for _, as := range ext.Extract(text) {
		out.Mentions = append(out.Mentions, domain.AspectMention{ReviewID: rv.ID, Aspect: as.Aspect, SentimentScore: as.Score})
	}
	return out
}

func runStatus(err error) string {
	var (
		cfgErr  *domain.ConfigurationError
		loadErr *domain.LoadError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &cfgErr):
		return "config_error"
	case errors.As(err, &loadErr):
		return "load_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "error"
}
