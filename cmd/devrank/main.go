package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devrank/devrank/internal/adapters/http/api"
	"github.com/devrank/devrank/internal/adapters/repository"
	"github.com/devrank/devrank/internal/app"
	"github.com/devrank/devrank/internal/config"
	"github.com/devrank/devrank/internal/domain/engine"
	"github.com/devrank/devrank/internal/domain/scoring"
	"github.com/devrank/devrank/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	var store repository.Store
	if cfg.DatabaseDSN != "" {
		gormStore, err := repository.NewGormStore(cfg.DatabaseDSN)
		if err != nil {
			log.Error(ctx, "failed to open database", logger.Error(err))
			return
		}
		store = gormStore
		log.Info(ctx, "using postgres store")
	} else {
		store = repository.NewMemoryStore()
		log.Info(ctx, "using in-memory store")
	}

	eng := engine.New(
		engine.WithCalculator(scoring.NewV1()),
		engine.WithLogger(log.Named("engine")),
	)

	svc := app.New(
		app.WithStore(store),
		app.WithEngine(eng),
		app.WithLogger(log.Named("service")),
		app.WithDefaultVersion(cfg.DefaultVersion),
		app.WithDefaultPageSize(cfg.DefaultPageSize),
		app.WithMaxPageSize(cfg.MaxPageSize),
		app.WithBatchWorkers(cfg.BatchWorkers),
		app.WithTopLanguages(cfg.TopLanguages),
	)

	mux := http.NewServeMux()
	api.NewServer(svc).Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("defaultVersion", cfg.DefaultVersion),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
