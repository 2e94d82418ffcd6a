// Package main is the one-shot budget reconciliation binary, intended to run
// under cron. Per-chain failures are logged and counted but exit 0: one broken
// owner must not page the whole job. Only a failure to start the pass at all
// exits non-zero.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/budget-tracker/engine/config"
	"github.com/budget-tracker/engine/internal/infra/db"
	"github.com/budget-tracker/engine/internal/infra/dependency"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	slog.Info("Starting budget reconciliation run")

	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	injector := dependency.NewInjector(cfg, database.DB(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	report, err := injector.Reconcile.Execute(ctx, time.Now().UTC())
	if err != nil {
		slog.Error("Reconciliation failed to start", "error", err)
		os.Exit(1)
	}

	slog.Info("Reconciliation run finished",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
}
