// pkg/loader/schema.go
package loader

import (
	"context"
	"fmt"
)

// Table names in load order. Customers goes first so the foreign keys
// on the other three tables can resolve.
const (
	TableCustomers = "customers"
	TableServices  = "services"
	TableBilling   = "billing"
	TableChurn     = "churn_outcomes"
	TableLoadRuns  = "load_runs"
)

var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id TEXT PRIMARY KEY,
		gender TEXT NOT NULL,
		senior_citizen SMALLINT NOT NULL,
		partner SMALLINT NOT NULL,
		dependents SMALLINT NOT NULL,
		tenure INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		customer_id TEXT NOT NULL REFERENCES customers(customer_id),
		phone_service SMALLINT NOT NULL,
		multiple_lines TEXT NOT NULL,
		internet_service TEXT NOT NULL,
		online_security TEXT NOT NULL,
		online_backup TEXT NOT NULL,
		device_protection TEXT NOT NULL,
		tech_support TEXT NOT NULL,
		streaming_tv TEXT NOT NULL,
		streaming_movies TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS billing (
		customer_id TEXT NOT NULL REFERENCES customers(customer_id),
		contract TEXT NOT NULL,
		paperless_billing SMALLINT NOT NULL,
		payment_method TEXT NOT NULL,
		monthly_charges NUMERIC(10,2) NOT NULL,
		total_charges NUMERIC(12,2) NOT NULL CHECK (total_charges >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS churn_outcomes (
		customer_id TEXT NOT NULL REFERENCES customers(customer_id),
		churn_status TEXT NOT NULL CHECK (churn_status IN ('Yes', 'No')),
		churn_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS load_runs (
		id UUID PRIMARY KEY,
		source_path TEXT NOT NULL,
		source_checksum TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		loaded_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// EnsureSchema creates the four target tables and the load audit table
// if they do not exist yet.
func (l *Loader) EnsureSchema(ctx context.Context) error {
	for _, stmt := range createStatements {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	l.logger.Info("Ensured target tables exist")
	return nil
}
