// pkg/report/store.go
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Femvrich001/customer-churn-project/pkg/model"
)

// Store reads the four persisted tables back for reporting. It never
// writes.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewStore creates a Store
func NewStore(db *sqlx.DB, logger *zap.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Store{db: db, logger: logger.Named("report-store")}, nil
}

// ReadAll reads every row of all four tables.
func (s *Store) ReadAll(ctx context.Context) (*model.Dataset, error) {
	ds := &model.Dataset{}

	if err := s.db.SelectContext(ctx, &ds.Customers,
		`SELECT customer_id, gender, senior_citizen, partner, dependents, tenure FROM customers`); err != nil {
		return nil, fmt.Errorf("failed to read customers: %w", err)
	}

	if err := s.db.SelectContext(ctx, &ds.Services,
		`SELECT customer_id, phone_service, multiple_lines, internet_service, online_security,
		        online_backup, device_protection, tech_support, streaming_tv, streaming_movies
		 FROM services`); err != nil {
		return nil, fmt.Errorf("failed to read services: %w", err)
	}

	if err := s.db.SelectContext(ctx, &ds.Billing,
		`SELECT customer_id, contract, paperless_billing, payment_method, monthly_charges, total_charges
		 FROM billing`); err != nil {
		return nil, fmt.Errorf("failed to read billing: %w", err)
	}

	if err := s.db.SelectContext(ctx, &ds.Churn,
		`SELECT customer_id, churn_status, churn_date FROM churn_outcomes`); err != nil {
		return nil, fmt.Errorf("failed to read churn outcomes: %w", err)
	}

	s.logger.Debug("Read source tables",
		zap.Int("customers", len(ds.Customers)),
		zap.Int("services", len(ds.Services)),
		zap.Int("billing", len(ds.Billing)),
		zap.Int("churn", len(ds.Churn)))

	return ds, nil
}
