// pkg/loader/verify.go
package loader

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Femvrich001/customer-churn-project/pkg/model"
)

// Verify checks that every customer of the loaded dataset is present in
// all four tables. It runs after Load: the appends are not transactional,
// so a mid-sequence failure can leave the dependent tables short.
func (l *Loader) Verify(ctx context.Context, ds *model.Dataset) error {
	if ds == nil || ds.Len() == 0 {
		return nil
	}

	ids := make([]string, len(ds.Customers))
	for i, c := range ds.Customers {
		ids[i] = c.CustomerID
	}

	for _, table := range []string{TableCustomers, TableServices, TableBilling, TableChurn} {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE customer_id = ANY($1)", table)
		if err := l.db.GetContext(ctx, &count, query, pq.Array(ids)); err != nil {
			return fmt.Errorf("failed to verify %s: %w", table, err)
		}
		if count < len(ids) {
			return fmt.Errorf("verification failed: %s holds %d of %d loaded customers", table, count, len(ids))
		}
	}

	l.logger.Info("Verified load completeness", zap.Int("customers", len(ids)))
	return nil
}
