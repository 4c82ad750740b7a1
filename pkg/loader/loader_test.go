// pkg/loader/loader_test.go
package loader

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Femvrich001/customer-churn-project/pkg/model"
)

func newMockLoader(t *testing.T, batchSize int) (*Loader, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	l, err := NewLoader(sqlx.NewDb(mockDB, "sqlmock"), zap.NewNop(), batchSize)
	require.NoError(t, err)
	return l, mock
}

// testDataset builds n customers with all four table sides present.
func testDataset(n int) *model.Dataset {
	ds := &model.Dataset{}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("C%d", i+1)
		ds.Customers = append(ds.Customers, model.Customer{CustomerID: id, Gender: "Female", Tenure: 12})
		ds.Services = append(ds.Services, model.ServiceProfile{CustomerID: id, PhoneService: 1, MultipleLines: "No", InternetService: "DSL", OnlineSecurity: "No", OnlineBackup: "No", DeviceProtection: "No", TechSupport: "No", StreamingTV: "No", StreamingMovies: "No"})
		ds.Billing = append(ds.Billing, model.BillingProfile{CustomerID: id, Contract: "Month-to-month", PaymentMethod: "Electronic check", MonthlyCharges: 29.85, TotalCharges: 358.2})
		ds.Churn = append(ds.Churn, model.ChurnOutcome{CustomerID: id, ChurnStatus: "No"})
	}
	return ds
}

var duplicateCheckQuery = regexp.QuoteMeta("SELECT COUNT(*) FROM load_runs WHERE source_checksum = $1")

func expectDuplicateCheck(mock sqlmock.Sqlmock, checksum string, count int) {
	mock.ExpectQuery(duplicateCheckQuery).
		WithArgs(checksum).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func TestLoadInsertsFourTablesInOrder(t *testing.T) {
	l, mock := newMockLoader(t, 100)
	ds := testDataset(2)

	expectDuplicateCheck(mock, "abc123", 0)
	mock.ExpectExec("INSERT INTO customers").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO services").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO billing").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO churn_outcomes").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO load_runs").WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := l.Load(context.Background(), ds, Source{Path: "churn.csv", Checksum: "abc123"}, false)
	require.NoError(t, err)

	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, int64(2), result.Counts[TableCustomers])
	assert.Equal(t, int64(2), result.Counts[TableChurn])
	assert.NotEqual(t, result.RunID.String(), "00000000-0000-0000-0000-000000000000")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadRefusesDuplicateChecksum(t *testing.T) {
	l, mock := newMockLoader(t, 100)

	expectDuplicateCheck(mock, "abc123", 1)

	_, err := l.Load(context.Background(), testDataset(1), Source{Path: "churn.csv", Checksum: "abc123"}, false)
	require.ErrorIs(t, err, ErrDuplicateLoad)
	assert.NoError(t, mock.ExpectationsWereMet(), "nothing is written after a duplicate hit")
}

func TestLoadForceSkipsDuplicateCheck(t *testing.T) {
	l, mock := newMockLoader(t, 100)

	mock.ExpectExec("INSERT INTO customers").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO services").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO billing").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO churn_outcomes").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO load_runs").WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := l.Load(context.Background(), testDataset(1), Source{Path: "churn.csv", Checksum: "abc123"}, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSplitsIntoBatches(t *testing.T) {
	l, mock := newMockLoader(t, 2)
	ds := testDataset(3)

	expectDuplicateCheck(mock, "abc123", 0)
	for _, table := range []string{"customers", "services", "billing", "churn_outcomes"} {
		mock.ExpectExec("INSERT INTO " + table).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("INSERT INTO " + table).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec("INSERT INTO load_runs").WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := l.Load(context.Background(), ds, Source{Path: "churn.csv", Checksum: "abc123"}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Counts[TableCustomers])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadRejectsEmptyDataset(t *testing.T) {
	l, _ := newMockLoader(t, 100)

	_, err := l.Load(context.Background(), &model.Dataset{}, Source{}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset is empty")
}

func TestLoadStopsOnFirstTableFailure(t *testing.T) {
	l, mock := newMockLoader(t, 100)

	expectDuplicateCheck(mock, "abc123", 0)
	mock.ExpectExec("INSERT INTO customers").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO services").WillReturnError(assert.AnError)

	_, err := l.Load(context.Background(), testDataset(1), Source{Path: "churn.csv", Checksum: "abc123"}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load services")
	assert.NoError(t, mock.ExpectationsWereMet(), "billing and churn are never attempted")
}

func TestEnsureSchemaCreatesAllTables(t *testing.T) {
	l, mock := newMockLoader(t, 100)

	for i := 0; i < 5; i++ {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, l.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyPassesWhenAllTablesComplete(t *testing.T) {
	l, mock := newMockLoader(t, 100)
	ds := testDataset(2)

	for range []string{"customers", "services", "billing", "churn_outcomes"} {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	}

	require.NoError(t, l.Verify(context.Background(), ds))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyFlagsShortTable(t *testing.T) {
	l, mock := newMockLoader(t, 100)
	ds := testDataset(2)

	mock.ExpectQuery(`FROM customers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`FROM services`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := l.Verify(context.Background(), ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "services holds 1 of 2")
}

func TestChecksumIsStable(t *testing.T) {
	data := []byte("customerID,gender\nA,Female\n")

	first := Checksum(data)
	assert.Equal(t, first, Checksum(data))
	assert.Len(t, first, 16)
	assert.NotEqual(t, first, Checksum([]byte("customerID,gender\nB,Male\n")))
}
