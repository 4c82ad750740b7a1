// cmd/load/main.go
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/Femvrich001/customer-churn-project/pkg/config"
	"github.com/Femvrich001/customer-churn-project/pkg/connector"
	"github.com/Femvrich001/customer-churn-project/pkg/loader"
	"github.com/Femvrich001/customer-churn-project/pkg/logging"
	"github.com/Femvrich001/customer-churn-project/pkg/normalize"
	"github.com/Femvrich001/customer-churn-project/pkg/source"
)

func main() {
	filePath := flag.String("file", "", "path to the customer churn CSV export (required)")
	force := flag.Bool("force", false, "load even if this file's checksum was loaded before")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: load -file <path-to-csv> [-force]")
		os.Exit(2)
	}

	// Local development keeps credentials in a .env file; in other
	// environments the variables are already set.
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

	if err := run(cfg, logger, *filePath, *force); err != nil {
		logger.Error("Load failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger, filePath string, force bool) error {
	ctx := context.Background()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}

	records, err := source.NewReader(logger).Read(bytes.NewReader(data))
	if err != nil {
		return err
	}

	ds, err := normalize.NewNormalizer(logger).Normalize(records)
	if err != nil {
		var coercion *normalize.CoercionError
		if errors.As(err, &coercion) {
			return fmt.Errorf("data quality failure, batch aborted: %w", err)
		}
		return err
	}

	conn, err := connector.NewPostgresConnector(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer conn.Close()

	l, err := loader.NewLoader(conn.DB(), logger, cfg.BatchSize)
	if err != nil {
		return err
	}

	if err := l.EnsureSchema(ctx); err != nil {
		return err
	}

	result, err := l.Load(ctx, ds, loader.Source{
		Path:     filePath,
		Checksum: loader.Checksum(data),
	}, force)
	if err != nil {
		switch {
		case errors.Is(err, loader.ErrDuplicateLoad):
			return fmt.Errorf("%w (rerun with -force to append anyway)", err)
		case loader.IsConnectivityError(err):
			return fmt.Errorf("store unreachable: %w", err)
		case loader.IsConstraintViolation(err):
			return fmt.Errorf("store rejected rows (tables may be partially loaded): %w", err)
		default:
			return err
		}
	}

	if err := l.Verify(ctx, ds); err != nil {
		return err
	}

	printSummary(result)
	return nil
}

// printSummary renders the per-table row counts of a completed run.
func printSummary(result *loader.Result) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Table", "Rows Inserted"})

	for _, name := range []string{loader.TableCustomers, loader.TableServices, loader.TableBilling, loader.TableChurn} {
		table.Append([]string{name, fmt.Sprintf("%d", result.Counts[name])})
	}
	table.SetFooter([]string{"run " + result.RunID.String(), fmt.Sprintf("%d customers", result.RowCount)})
	table.Render()
}
