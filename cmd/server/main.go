package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/templui/tagbox/internal/app"
	"github.com/templui/tagbox/internal/config"
	"github.com/templui/tagbox/internal/logger"
	"github.com/templui/tagbox/internal/routes"
)

const (
	shutdownTimeout   = 15 * time.Second
	sentryFlushWindow = 2 * time.Second
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Options{
		IsDev:     cfg.IsDevelopment(),
		SentryDSN: cfg.SentryDSN,
		File:      cfg.LogFile,
	})

	err := run(cfg)
	if err != nil {
		slog.Error("tagbox exited with error", "error", err)
	}

	// os.Exit skips deferred calls, so queued Sentry events go out here
	sentry.Flush(sentryFlushWindow)

	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	app, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(app),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// In-flight requests finish before the database is closed
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "storage", cfg.StorageDriver, "db", cfg.DBDriver)

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		stop()
		<-shutdownDone
		return fmt.Errorf("server failed: %w", err)
	}

	<-shutdownDone
	slog.Info("server stopped")
	return nil
}
