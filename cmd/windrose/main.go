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
	"go.uber.org/zap"

	"github.com/windrose-search/windrose/internal/breaker"
	breakermem "github.com/windrose-search/windrose/internal/breaker/memory"
	breakerredis "github.com/windrose-search/windrose/internal/breaker/redis"
	"github.com/windrose-search/windrose/internal/config"
	"github.com/windrose-search/windrose/internal/domain"
	"github.com/windrose-search/windrose/internal/engine"
	"github.com/windrose-search/windrose/internal/engine/brave"
	"github.com/windrose-search/windrose/internal/engine/duckduckgo"
	"github.com/windrose-search/windrose/internal/engine/mojeek"
	"github.com/windrose-search/windrose/internal/engine/searxng"
	logpkg "github.com/windrose-search/windrose/internal/logger"
	"github.com/windrose-search/windrose/internal/metrics"
	"github.com/windrose-search/windrose/internal/registry"
	chiTransport "github.com/windrose-search/windrose/internal/transport/chi"
	healthuc "github.com/windrose-search/windrose/internal/usecase/health"
	"github.com/windrose-search/windrose/internal/usecase/optimize"
	searchuc "github.com/windrose-search/windrose/internal/usecase/search"
	"github.com/windrose-search/windrose/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting windrose API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("breaker_driver", cfg.Breaker.Driver),
		zap.Int("engines", len(cfg.Engines)),
	)

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Breaker counter store based on driver
	window := time.Duration(cfg.Breaker.WindowSec) * time.Second
	var store breaker.CounterStore
	var storePinger healthuc.StorePinger
	switch cfg.Breaker.Driver {
	case "memory":
		store = breakermem.New(window)
	case "redis":
		redisStore, err := breakerredis.New(breakerredis.Config{
			Addrs:    cfg.Breaker.Addrs,
			Password: cfg.Breaker.Password,
			Window:   window,
		})
		if err != nil {
			logger.Fatal("Failed to create redis breaker store", zap.Error(err))
		}
		defer redisStore.Close()
		store = redisStore
		storePinger = redisStore
	default:
		logger.Fatal("Unknown breaker driver", zap.String("driver", cfg.Breaker.Driver))
	}

	brk := breaker.New(store, cfg.Breaker.Threshold, logger)

	// Engine registry — adapters built from config, credentials fall back
	// to WINDROSE_<ID>_API_KEY env vars inside each adapter.
	reg := registry.New(brk)
	for id, ec := range cfg.Engines {
		eng, err := buildEngine(id, ec)
		if err != nil {
			logger.Fatal("Failed to build engine", zap.String("engine", id), zap.Error(err))
		}
		reg.Register(eng, registry.Config{
			Enabled:      ec.Enabled,
			Priority:     ec.Priority,
			FallbackOnly: ec.FallbackOnly,
			Timeout:      time.Duration(ec.TimeoutMS) * time.Millisecond,
			MaxResults:   ec.MaxResults,
		})
	}
	logger.Info("Engines registered", zap.Int("count", len(cfg.Engines)))

	// Use case services
	optimizer := optimize.New(optimize.DefaultOptions())
	searchSvc := searchuc.New(reg, brk, optimizer, logger)
	if cfg.Search.Cache.Enabled {
		searchSvc = searchSvc.WithCache(cfg.Search.Cache.Size,
			time.Duration(cfg.Search.Cache.TTLSec)*time.Second)
	}
	healthSvc := healthuc.New(reg, storePinger)

	// Chi server
	server := chiTransport.NewServer(searchSvc, healthSvc, reg, logger).
		WithTimeout(time.Duration(cfg.Search.TimeoutMS) * time.Millisecond)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

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

// buildEngine maps a config id to its adapter.
func buildEngine(id string, ec config.EngineConfig) (engine.Engine, error) {
	switch id {
	case "duckduckgo":
		return duckduckgo.New(duckduckgo.Config{BaseURL: ec.BaseURL}), nil
	case "brave":
		return brave.New(brave.Config{APIKey: ec.APIKey, BaseURL: ec.BaseURL}), nil
	case "mojeek":
		return mojeek.New(mojeek.Config{APIKey: ec.APIKey, BaseURL: ec.BaseURL}), nil
	case "searxng":
		return searxng.New(searxng.Config{Mirrors: ec.Mirrors}), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEngine, id)
	}
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
