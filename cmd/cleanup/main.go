// Command cleanup deactivates coach memories that have not been reinforced
// within the configured retention period. It is intended to be invoked by
// an external cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/luminary-backend/internal/adapter/postgres"
	"github.com/heartmarshall/luminary-backend/internal/adapter/postgres/memory"
	"github.com/heartmarshall/luminary-backend/internal/app"
	"github.com/heartmarshall/luminary-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	threshold := time.Now().Add(-cfg.Coach.MemoryRetention)

	deactivated, err := memory.New(pool).DeactivateStale(ctx, threshold)
	if err != nil {
		logger.Error("memory cleanup failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("memory cleanup completed",
		slog.Int("deactivated", deactivated),
		slog.Time("threshold", threshold),
	)
}
