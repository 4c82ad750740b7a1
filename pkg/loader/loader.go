// pkg/loader/loader.go
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"github.com/Femvrich001/customer-churn-project/pkg/model"
)

// Loader appends a normalized dataset to the four target tables.
// Rows are only ever appended; there is no update or delete path.
//
// The four appends are deliberately not wrapped in one transaction: a
// mid-sequence failure leaves the earlier tables loaded, and the
// caller decides whether to keep or clean up the partial set. What the
// loader does guard against is loading the same source file twice,
// keyed on the file checksum recorded in load_runs.
type Loader struct {
	db        *sqlx.DB
	logger    *zap.Logger
	batchSize int
}

// Source identifies the file a dataset came from.
type Source struct {
	Path     string
	Checksum string
}

// Result summarizes a completed load run.
type Result struct {
	RunID    uuid.UUID
	Source   Source
	RowCount int
	// Inserted rows per table, in load order.
	Counts map[string]int64
}

// NewLoader creates a Loader
func NewLoader(db *sqlx.DB, logger *zap.Logger, batchSize int) (*Loader, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if logger == nil {
		logger = zap.L()
	}
	if batchSize <= 0 {
		batchSize = 1000
	}

	return &Loader{
		db:        db,
		logger:    logger.Named("loader"),
		batchSize: batchSize,
	}, nil
}

// Checksum computes the idempotency key for a source file's bytes.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}

// Load appends every row of the dataset to its table and records the
// run in load_runs. Unless force is set, a checksum already present in
// load_runs fails with ErrDuplicateLoad before anything is written.
func (l *Loader) Load(ctx context.Context, ds *model.Dataset, src Source, force bool) (*Result, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.New("dataset is empty")
	}

	if !force {
		if err := l.checkDuplicate(ctx, src.Checksum); err != nil {
			return nil, err
		}
	}

	result := &Result{
		RunID:    uuid.New(),
		Source:   src,
		RowCount: ds.Len(),
		Counts:   make(map[string]int64, 4),
	}

	// Customers first so the foreign keys on the dependent tables
	// resolve.
	steps := []struct {
		table   string
		columns []string
		rows    [][]interface{}
	}{
		{TableCustomers, customerColumns, customerRows(ds.Customers)},
		{TableServices, serviceColumns, serviceRows(ds.Services)},
		{TableBilling, billingColumns, billingRows(ds.Billing)},
		{TableChurn, churnColumns, churnRows(ds.Churn)},
	}

	start := time.Now()
	for _, step := range steps {
		inserted, err := l.batchInsert(ctx, step.table, step.columns, step.rows)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", step.table, err)
		}
		result.Counts[step.table] = inserted
		l.logger.Info("Loaded table",
			zap.String("table", step.table),
			zap.Int64("rows", inserted))
	}

	if err := l.recordRun(ctx, result); err != nil {
		return nil, err
	}

	l.logger.Info("Load run complete",
		zap.String("run_id", result.RunID.String()),
		zap.String("checksum", src.Checksum),
		zap.Int("customers", ds.Len()),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// checkDuplicate refuses a checksum that has been loaded before.
func (l *Loader) checkDuplicate(ctx context.Context, checksum string) error {
	if checksum == "" {
		return nil
	}

	var count int
	err := l.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM load_runs WHERE source_checksum = $1", checksum)
	if err != nil {
		return fmt.Errorf("failed to check previous load runs: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("checksum %s: %w", checksum, ErrDuplicateLoad)
	}
	return nil
}

func (l *Loader) recordRun(ctx context.Context, result *Result) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO load_runs (id, source_path, source_checksum, row_count) VALUES ($1, $2, $3, $4)`,
		result.RunID, result.Source.Path, result.Source.Checksum, result.RowCount)
	if err != nil {
		return fmt.Errorf("failed to record load run: %w", err)
	}
	return nil
}

// batchInsert performs multi-row INSERTs in batches of batchSize.
func (l *Loader) batchInsert(ctx context.Context, table string, columns []string, valueRows [][]interface{}) (int64, error) {
	if len(valueRows) == 0 {
		return 0, nil
	}

	columnStr := strings.Join(columns, ", ")
	var totalInserted int64

	for i := 0; i < len(valueRows); i += l.batchSize {
		end := i + l.batchSize
		if end > len(valueRows) {
			end = len(valueRows)
		}
		batch := valueRows[i:end]

		placeholders := make([]string, len(batch))
		args := make([]interface{}, 0, len(batch)*len(columns))
		for j, row := range batch {
			rowPlaceholders := make([]string, len(columns))
			for k, val := range row {
				rowPlaceholders[k] = fmt.Sprintf("$%d", j*len(columns)+k+1)
				args = append(args, val)
			}
			placeholders[j] = fmt.Sprintf("(%s)", strings.Join(rowPlaceholders, ", "))
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			table, columnStr, strings.Join(placeholders, ", "))

		result, err := l.db.ExecContext(ctx, query, args...)
		if err != nil {
			return totalInserted, fmt.Errorf("batch insert failed: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			l.logger.Warn("Couldn't get rows affected", zap.Error(err))
			affected = int64(len(batch))
		}
		totalInserted += affected
	}

	return totalInserted, nil
}

var (
	customerColumns = []string{"customer_id", "gender", "senior_citizen", "partner", "dependents", "tenure"}
	serviceColumns  = []string{"customer_id", "phone_service", "multiple_lines", "internet_service", "online_security", "online_backup", "device_protection", "tech_support", "streaming_tv", "streaming_movies"}
	billingColumns  = []string{"customer_id", "contract", "paperless_billing", "payment_method", "monthly_charges", "total_charges"}
	churnColumns    = []string{"customer_id", "churn_status", "churn_date"}
)

func customerRows(customers []model.Customer) [][]interface{} {
	rows := make([][]interface{}, len(customers))
	for i, c := range customers {
		rows[i] = []interface{}{c.CustomerID, c.Gender, c.SeniorCitizen, c.Partner, c.Dependents, c.Tenure}
	}
	return rows
}

func serviceRows(services []model.ServiceProfile) [][]interface{} {
	rows := make([][]interface{}, len(services))
	for i, s := range services {
		rows[i] = []interface{}{s.CustomerID, s.PhoneService, s.MultipleLines, s.InternetService, s.OnlineSecurity, s.OnlineBackup, s.DeviceProtection, s.TechSupport, s.StreamingTV, s.StreamingMovies}
	}
	return rows
}

func billingRows(billing []model.BillingProfile) [][]interface{} {
	rows := make([][]interface{}, len(billing))
	for i, b := range billing {
		rows[i] = []interface{}{b.CustomerID, b.Contract, b.PaperlessBilling, b.PaymentMethod, b.MonthlyCharges, b.TotalCharges}
	}
	return rows
}

func churnRows(churn []model.ChurnOutcome) [][]interface{} {
	rows := make([][]interface{}, len(churn))
	for i, c := range churn {
		rows[i] = []interface{}{c.CustomerID, c.ChurnStatus, c.ChurnDate}
	}
	return rows
}
