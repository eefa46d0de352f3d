package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/confhub/confhub/pkg/server"
	"github.com/confhub/confhub/pkg/tasks"
)

func main() {
	cfg, handler, err := server.SetupServer(nil)
	if err != nil {
		slog.Error("failed to setup server", "error", err)
		os.Exit(1)
	}

	// Context for background tasks, cancelled on shutdown
	taskCtx, taskCancel := context.WithCancel(context.Background())
	defer taskCancel()

	go tasks.StartCfpReminders(taskCtx, cfg.DB, cfg.Logger, cfg.Clock, cfg.ReminderInterval, cfg.EmailSender, cfg.EmailFrom, cfg.BaseURL)

	if cfg.FeedURL != "" {
		go tasks.StartFeedSync(taskCtx, cfg.DB, cfg.Logger, cfg.FeedURL, cfg.FeedSyncInterval)
	} else {
		cfg.Logger.Info("conference feed sync disabled (FEED_URL not set)")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		cfg.Logger.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	cfg.Logger.Info("shutting down server")

	taskCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	cfg.Logger.Info("server stopped")
}
