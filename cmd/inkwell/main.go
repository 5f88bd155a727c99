package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/inkwell-cms/inkwell/internal/config"
	"github.com/inkwell-cms/inkwell/internal/handler/api"
	"github.com/inkwell-cms/inkwell/internal/logging"
	"github.com/inkwell-cms/inkwell/internal/middleware"
	"github.com/inkwell-cms/inkwell/internal/scheduler"
	"github.com/inkwell-cms/inkwell/internal/store"
	"github.com/inkwell-cms/inkwell/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		fmt.Printf("inkwell %s (%s, built %s)\n", info.Version, info.GitCommit, info.BuildTime)
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return err
	}

	// Structured logging: text to stderr, WARN+ mirrored to the event log
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	logger.Info("starting inkwell",
		"version", appVersion,
		"env", cfg.Env,
		"db_path", cfg.DBPath,
	)

	sched := scheduler.New(db, logger, time.Duration(cfg.EventRetentionDays)*24*time.Hour)
	if err := sched.Start(cfg.MaintenanceSchedule); err != nil {
		return err
	}
	defer sched.Stop()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	defer rateLimiter.Stop()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timeout(time.Duration(cfg.RequestTimeout) * time.Second))
	r.Use(rateLimiter.Handler)

	apiHandler := api.NewHandler(db, logger)
	r.Mount("/api/v1", apiHandler.Routes())

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ServerAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
