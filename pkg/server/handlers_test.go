// pkg/server/handlers_test.go
package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Femvrich001/customer-churn-project/pkg/config"
	"github.com/Femvrich001/customer-churn-project/pkg/report"
)

// newTestServer wires a Server onto a sqlmock-backed snapshot provider.
// The health endpoint needs a live connector and is not exercised here.
func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	store, err := report.NewStore(sqlx.NewDb(mockDB, "sqlmock"), zap.NewNop())
	require.NoError(t, err)

	snapshots := report.NewSnapshotProvider(store, zap.NewNop(), 0)

	cfg := &config.Config{
		HTTPPort:       8080,
		AllowedOrigins: []string{"*"},
	}
	return NewServer(cfg, nil, snapshots), mock
}

// expectReadAll queues the four table reads behind one snapshot load:
// three customers, one churned, one with no billing or churn rows.
func expectReadAll(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`FROM customers`).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "gender", "senior_citizen", "partner", "dependents", "tenure"}).
			AddRow("A", "Female", 0, 1, 0, 12).
			AddRow("B", "Male", 1, 0, 0, 2).
			AddRow("C", "Female", 0, 0, 0, 40))
	mock.ExpectQuery(`FROM services`).
		WillReturnRows(sqlmock.NewRows([]string{
			"customer_id", "phone_service", "multiple_lines", "internet_service", "online_security",
			"online_backup", "device_protection", "tech_support", "streaming_tv", "streaming_movies",
		}).
			AddRow("A", 1, "No", "DSL", "Yes", "No", "No", "Yes", "No", "No").
			AddRow("B", 1, "Yes", "Fiber optic", "No", "No", "No", "No", "Yes", "Yes"))
	mock.ExpectQuery(`FROM billing`).
		WillReturnRows(sqlmock.NewRows([]string{
			"customer_id", "contract", "paperless_billing", "payment_method", "monthly_charges", "total_charges",
		}).
			AddRow("A", "Month-to-month", 1, "Electronic check", 29.85, 358.2).
			AddRow("B", "Month-to-month", 1, "Electronic check", 94.4, 188.8))
	mock.ExpectQuery(`FROM churn_outcomes`).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "churn_status", "churn_date"}).
			AddRow("A", "No", nil).
			AddRow("B", "Yes", nil))
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDashboardEndpoint(t *testing.T) {
	srv, mock := newTestServer(t)
	expectReadAll(mock)

	rec := get(t, srv, "/api/v1/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Equal(t, float64(3), body["row_count"])

	kpis := body["report"].(map[string]any)["kpis"].(map[string]any)
	assert.Equal(t, float64(3), kpis["total_customers"])
	assert.InDelta(t, 1132.8, kpis["revenue_at_risk"], 0.001)
}

func TestDashboardAppliesFilters(t *testing.T) {
	srv, mock := newTestServer(t)
	expectReadAll(mock)

	rec := get(t, srv, "/api/v1/dashboard?churn_statuses=Yes")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["row_count"])
}

func TestDashboardRejectsBadParam(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/api/v1/dashboard?tenure_min=abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "tenure_min must be an integer")
}

func TestDashboardSnapshotFailure(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectQuery(`FROM customers`).WillReturnError(assert.AnError)

	rec := get(t, srv, "/api/v1/dashboard")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "failed to load data from database", decodeBody(t, rec)["error"])
}

func TestFilterOptionsEndpoint(t *testing.T) {
	srv, mock := newTestServer(t)
	expectReadAll(mock)

	rec := get(t, srv, "/api/v1/filters")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, []any{"Female", "Male"}, body["genders"])
	assert.Equal(t, float64(2), body["tenure_min"])
	assert.Equal(t, float64(40), body["tenure_max"])
}

func TestCustomersPagination(t *testing.T) {
	srv, mock := newTestServer(t)
	expectReadAll(mock)

	rec := get(t, srv, "/api/v1/customers?limit=2&offset=2")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(3), body["total"])
	assert.Len(t, body["customers"], 1)
}

func TestCustomersRejectsBadLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/api/v1/customers?limit=0")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	srv, mock := newTestServer(t)
	expectReadAll(mock)

	rec := get(t, srv, "/api/v1/export?churn_statuses=Yes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), report.ExportFilename)

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2, "header plus the one churned customer")
	assert.True(t, strings.HasPrefix(lines[0], "customer_id,"))
	assert.True(t, strings.HasPrefix(lines[1], "B,"))
}

func TestRefreshEndpoint(t *testing.T) {
	srv, mock := newTestServer(t)
	expectReadAll(mock)

	rec := get(t, srv, "/api/v1/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	// A second dashboard hit is served from cache; refresh re-queries.
	expectReadAll(mock)

	refreshRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(refreshRec, httptest.NewRequest(http.MethodPost, "/api/v1/snapshot/refresh", nil))
	require.Equal(t, http.StatusOK, refreshRec.Code)

	body := decodeBody(t, refreshRec)
	assert.Equal(t, "refreshed", body["status"])
	assert.Equal(t, float64(3), body["rows"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseFilterSpecSetSemantics(t *testing.T) {
	spec, err := parseFilterSpec(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, spec.Genders, "absent parameter applies no constraint")

	spec, err = parseFilterSpec(url.Values{"genders": {""}})
	require.NoError(t, err)
	require.NotNil(t, spec.Genders)
	assert.Empty(t, spec.Genders, "present but empty means nothing selected")

	spec, err = parseFilterSpec(url.Values{"genders": {"Male, Female"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Male", "Female"}, spec.Genders)
}

func TestParseFilterSpecNumericBounds(t *testing.T) {
	spec, err := parseFilterSpec(url.Values{
		"tenure_min":          {"6"},
		"monthly_charges_max": {"79.5"},
		"high_risk_only":      {"true"},
	})
	require.NoError(t, err)
	require.NotNil(t, spec.TenureMin)
	assert.Equal(t, 6, *spec.TenureMin)
	assert.Nil(t, spec.TenureMax)
	require.NotNil(t, spec.MonthlyChargesMax)
	assert.Equal(t, 79.5, *spec.MonthlyChargesMax)
	assert.True(t, spec.HighRiskOnly)

	_, err = parseFilterSpec(url.Values{"monthly_charges_min": {"lots"}})
	require.Error(t, err)
}
