package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/talentgrid/matchd/internal/config"
	"github.com/talentgrid/matchd/internal/db"
	"github.com/talentgrid/matchd/internal/db/postgres"
	dbRedis "github.com/talentgrid/matchd/internal/db/redis"
	"github.com/talentgrid/matchd/internal/domain/weights"
	logpkg "github.com/talentgrid/matchd/internal/logger"
	"github.com/talentgrid/matchd/internal/metrics"
	matchrepo "github.com/talentgrid/matchd/internal/repository/match"
	"github.com/talentgrid/matchd/internal/repository/matchcache"
	"github.com/talentgrid/matchd/internal/repository/profile"
	chiTransport "github.com/talentgrid/matchd/internal/transport/chi"
	batchuc "github.com/talentgrid/matchd/internal/usecase/batch"
	healthuc "github.com/talentgrid/matchd/internal/usecase/health"
	matchuc "github.com/talentgrid/matchd/internal/usecase/match"
	"github.com/talentgrid/matchd/internal/version"
)

func main() {
	// .env is optional; explicit environment always wins.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting matchd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	gdb, err := postgres.Open(cfg.Database.DSN, cfg.Database.Debug)
	if err != nil {
		logger.Fatal("Failed to connect to postgres", zap.Error(err))
	}
	if err := profile.AutoMigrate(gdb); err != nil {
		logger.Fatal("Failed to migrate profile tables", zap.Error(err))
	}
	if err := matchrepo.AutoMigrate(gdb); err != nil {
		logger.Fatal("Failed to migrate match tables", zap.Error(err))
	}
	logger.Info("Connected to postgres")

	// Optional Redis-backed match cache.
	ctx := context.Background()
	var cacheStore db.Store
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		timeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		cacheStore = store
		logger.Info("Connected to match cache")
	}

	metrics.RegisterMatchingMetrics()

	weightStore, err := weights.NewStore(cfg.Matching.WeightVector())
	if err != nil {
		logger.Fatal("Invalid weight configuration", zap.Error(err))
	}

	// Repositories
	reqRepo := profile.NewRequirements(gdb)
	candRepo := profile.NewCandidates(gdb)
	feedbackRepo := profile.NewFeedback(gdb)
	matchRepo := matchrepo.New(gdb)

	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var resultCache matchuc.ResultCache
	if cacheStore != nil {
		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		resultCache = matchcache.New(cacheStore, ttl, logger)
	}

	// Use case services
	matchSvc := matchuc.New(reqRepo, candRepo, feedbackRepo, matchRepo, weightStore, resultCache, logger).
		WithDefaultLimit(cfg.Matching.DefaultLimit)
	batchSvc := batchuc.New(reqRepo, candRepo, feedbackRepo, matchRepo, weightStore, logger).
		WithPageSize(cfg.Matching.BatchPageSize)

	var cachePinger healthuc.CachePinger
	if cacheStore != nil {
		cachePinger = cacheStore
	}
	healthSvc := healthuc.New(postgres.NewPinger(gdb), cachePinger)

	server := chiTransport.NewServer(matchSvc, batchSvc, healthSvc, weightStore, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
