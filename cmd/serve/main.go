// Command serve runs the prediction service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/config"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/history"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/logging"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store history.Store
	if cfg.DatabaseURL != "" {
		pg, err := history.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("prediction history database: %w", err)
		}
		defer pg.Close()
		store = pg
		logger.Info("prediction history in postgres")
	} else {
		store = history.NewMemoryStore()
		logger.Info("prediction history in memory")
	}
	rec := history.NewRecorder(store, cfg.HistoryBuffer, cfg.HistoryBatch, history.WithRecorderLogger(logger))

	srv := server.New(cfg, server.WithLogger(logger), server.WithHistory(store, rec))
	return srv.Run(ctx)
}
