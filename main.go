// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/feetinfra/feetinfra-api/auth"
	"github.com/feetinfra/feetinfra-api/bootstrap"
	"github.com/feetinfra/feetinfra-api/cliparse"
	"github.com/feetinfra/feetinfra-api/db"
	"github.com/feetinfra/feetinfra-api/metrics"
	"github.com/feetinfra/feetinfra-api/ratelimit"
	"github.com/feetinfra/feetinfra-api/router"
	"github.com/feetinfra/feetinfra-api/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger, err := newLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Error("Invalid log configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	st := store.New(dbConn, cfg.DBTimeout)

	// Verify connection
	if err := st.Ping(ctx); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// A failed bootstrap leaves the API usable for existing admins
	b := bootstrap.Bootstrapper{Store: st, Hash: auth.HashPassword, Generate: auth.GenerateSecret}
	if _, err := b.EnsureDefaultAdmin(ctx, bootstrap.DefaultAdmin{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Email:    cfg.AdminEmail,
	}); err != nil {
		slog.Error("default admin bootstrap failed", "error", err)
	}

	limiter, closeLimiter, err := newLimiter(ctx, cfg)
	if err != nil {
		slog.Error("rate limiter setup failed", "error", err)
		os.Exit(1)
	}
	defer closeLimiter()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	// Create router
	mux := router.NewRouter(dbConn, cfg, limiter, m)

	// Create server
	server := http.Server{
		Handler:           mux,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C or SIGTERM
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "metrics", cfg.MetricsEnabled, "setup_route", cfg.SetupToken != "")
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}

// newLogger builds the process logger from the configured level and format.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// newLimiter returns a Redis-backed limiter when REDIS_URL is set so limits
// are shared across instances, and an in-memory one otherwise.
func newLimiter(ctx context.Context, cfg cliparse.Config) (ratelimit.Limiter, func(), error) {
	if cfg.RedisURL == "" {
		slog.Info("Using in-memory rate limiter", "limit", cfg.RateLimit, "window", cfg.RateWindow)
		return ratelimit.NewInMemory(cfg.RateLimit, cfg.RateWindow), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)

	// Unreachable Redis is not fatal; the middleware fails open per request
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("redis ping failed", "error", err)
	}

	slog.Info("Using Redis rate limiter", "addr", opts.Addr, "limit", cfg.RateLimit, "window", cfg.RateWindow)
	return ratelimit.NewRedis(client, cfg.RateLimit, cfg.RateWindow), func() { client.Close() }, nil
}
