// cmd/dashboard/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Femvrich001/customer-churn-project/pkg/config"
	"github.com/Femvrich001/customer-churn-project/pkg/connector"
	"github.com/Femvrich001/customer-churn-project/pkg/logging"
	"github.com/Femvrich001/customer-churn-project/pkg/report"
	"github.com/Femvrich001/customer-churn-project/pkg/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Dashboard server failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	conn, err := connector.NewPostgresConnector(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer conn.Close()

	store, err := report.NewStore(conn.DB(), logger)
	if err != nil {
		return err
	}

	snapshots := report.NewSnapshotProvider(store, logger, cfg.SnapshotTTL)

	// Warm the snapshot so the first dashboard interaction doesn't pay
	// the full read-join cost. A failure here is not fatal; the server
	// retries on demand.
	if _, err := snapshots.Get(ctx); err != nil {
		logger.Warn("Could not warm snapshot at startup", zap.Error(err))
	}

	srv := server.NewServer(cfg, conn, snapshots)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
