// pkg/report/snapshot.go
package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/Femvrich001/customer-churn-project/pkg/model"
)

// Snapshot is one cached read of the four tables, joined into the base
// view. It also carries the dataset-wide monthly-charges median, which
// the premium KPI uses as its fixed baseline for every filter.
type Snapshot struct {
	LoadedAt       time.Time
	Rows           []model.CustomerView
	BaselineMedian float64
	Options        FilterOptions
}

// SnapshotProvider caches a single global snapshot of the base view.
// There is one cache key (the whole dataset), a TTL, and a manual
// Refresh trigger; nothing is memoized implicitly.
type SnapshotProvider struct {
	store  *Store
	logger *zap.Logger
	ttl    time.Duration

	mu      sync.Mutex
	current *Snapshot
}

// NewSnapshotProvider creates a SnapshotProvider. A zero TTL disables
// expiry: the snapshot lives until an explicit Refresh.
func NewSnapshotProvider(store *Store, logger *zap.Logger, ttl time.Duration) *SnapshotProvider {
	if logger == nil {
		logger = zap.L()
	}
	return &SnapshotProvider{
		store:  store,
		logger: logger.Named("snapshot"),
		ttl:    ttl,
	}
}

// Get returns the current snapshot, reloading it from the store when
// absent or expired.
func (p *SnapshotProvider) Get(ctx context.Context) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil && !p.expired() {
		return p.current, nil
	}
	return p.reload(ctx)
}

// Refresh discards the cached snapshot and reloads it.
func (p *SnapshotProvider) Refresh(ctx context.Context) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reload(ctx)
}

func (p *SnapshotProvider) expired() bool {
	if p.ttl <= 0 {
		return false
	}
	return time.Since(p.current.LoadedAt) > p.ttl
}

// reload must be called with the mutex held.
func (p *SnapshotProvider) reload(ctx context.Context) (*Snapshot, error) {
	ds, err := p.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	rows := BuildView(ds)

	snap := &Snapshot{
		LoadedAt:       time.Now(),
		Rows:           rows,
		BaselineMedian: baselineMedian(rows),
		Options:        Options(rows),
	}
	p.current = snap

	p.logger.Info("Loaded snapshot",
		zap.Int("rows", len(rows)),
		zap.Float64("baseline_median", snap.BaselineMedian))

	return snap, nil
}

// baselineMedian computes the monthly-charges median over the whole
// base view; zero when no billing rows exist.
func baselineMedian(rows []model.CustomerView) float64 {
	var monthlies []float64
	for i := range rows {
		if rows[i].MonthlyCharges != nil {
			monthlies = append(monthlies, *rows[i].MonthlyCharges)
		}
	}
	median, err := stats.Median(monthlies)
	if err != nil {
		return 0
	}
	return median
}
