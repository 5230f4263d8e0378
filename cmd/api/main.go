package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"review_insight/internal/adapters/cupid"
	server "review_insight/internal/adapters/http_server"
	"review_insight/internal/adapters/memcache"
	"review_insight/internal/adapters/observability"
	redisad "review_insight/internal/adapters/redis"
	"review_insight/internal/adapters/scoring"
	"review_insight/internal/app"
	"review_insight/internal/domain"
	"review_insight/internal/shared"
	mysqlrepo "review_insight/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	defaults, err := cfg.Analysis()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid analysis defaults")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// results
	var cache domain.ResultCache = memcache.New(1024, cfg.ResultTTL)
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		cache = rc
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis result cache")
	} else {
		log.Info().Msg("in-memory result cache")
	}

	// review sources
	var db app.ReviewSource
	if cfg.MySQLDSN != "" {
		conn, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer conn.Close()
		if err := conn.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		repo := mysqlrepo.New(conn)
		if err := repo.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("migrate failed")
		}
		db = repo
		log.Info().Msg("database connection ok")
	}
	var reviews domain.ReviewClient
	if cfg.CupidKey != "" {
		c, err := cupid.New(cfg.CupidBase, cfg.CupidKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Cupid client")
		}
		reviews = c
	}

	opts := []app.Option{app.WithRecorder(observability.AnalysisRecorder{})}
	if cfg.ScoringURL != "" {
		sc, err := scoring.New(cfg.ScoringURL, cfg.ScoringKey, 10)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize scoring client")
		}
		opts = append(opts, app.WithClassifier(sc))
		log.Info().Str("url", cfg.ScoringURL).Msg("remote sentiment scoring enabled")
	}
	engine := app.NewEngine(opts...)
	results := app.NewResultService(engine, cache, cfg.ResultTTL)
	props := app.NewPropertyService(results, db, reviews, cfg.ReviewCount)

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Results:    results,
		Properties: props,
		Defaults:   defaults,
		MaxUpload:  cfg.MaxUpload,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(sctx)
	}()

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
