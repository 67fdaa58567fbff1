// Command cleanup removes stored lookup results older than the configured
// retention period so that stale dictionary entries are fetched again. It is
// intended to be invoked by an external cron job, not as an in-process
// goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/instant-jisho/internal/adapter/postgres"
	"github.com/heartmarshall/instant-jisho/internal/adapter/postgres/lookup"
	"github.com/heartmarshall/instant-jisho/internal/app"
	"github.com/heartmarshall/instant-jisho/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log, "jisho-cleanup")

	if !cfg.Database.Enabled() {
		logger.Error("database is not configured (DATABASE_DSN is empty)")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	repo := lookup.New(pool)

	threshold := time.Now().AddDate(0, 0, -cfg.Database.RetentionDays)

	deleted, err := repo.DeleteFetchedBefore(ctx, threshold)
	if err != nil {
		logger.Error("cleanup failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	remaining, err := repo.Count(ctx)
	if err != nil {
		logger.Warn("count remaining results", slog.String("error", err.Error()))
	}

	logger.Info("cleanup completed",
		slog.Int("deleted", deleted),
		slog.Int("remaining", remaining),
		slog.Time("threshold", threshold),
	)
}
