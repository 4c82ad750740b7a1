// pkg/server/handlers.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Femvrich001/customer-churn-project/pkg/report"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// handleHealth reports whether the store is reachable.
// GET /api/v1/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.conn.Ping(r.Context()); err != nil {
		s.logger.Warn("Health check failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFilterOptions returns the observed filter domain for building
// the dashboard controls.
// GET /api/v1/filters
func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshots.Get(r.Context())
	if err != nil {
		s.failSnapshot(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Options)
}

// handleDashboard computes the full KPI and breakdown set over the
// filtered view.
// GET /api/v1/dashboard?genders=Male,Female&contracts=...&tenure_min=...
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilterSpec(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.snapshots.Get(r.Context())
	if err != nil {
		s.failSnapshot(w, err)
		return
	}

	filtered := spec.Apply(snap.Rows)
	rep := report.Aggregate(filtered, snap.BaselineMedian)

	writeJSON(w, http.StatusOK, map[string]any{
		"report":       rep,
		"row_count":    len(filtered),
		"snapshot_age": snap.LoadedAt,
	})
}

// handleCustomers returns a page of the filtered raw-data table.
// GET /api/v1/customers?limit=50&offset=0
func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	spec, err := parseFilterSpec(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := defaultPageSize
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
	}

	offset := 0
	if v := q.Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
	}

	snap, err := s.snapshots.Get(r.Context())
	if err != nil {
		s.failSnapshot(w, err)
		return
	}

	filtered := spec.Apply(snap.Rows)

	end := offset + limit
	if offset > len(filtered) {
		offset = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"customers": filtered[offset:end],
		"total":     len(filtered),
		"offset":    offset,
		"limit":     limit,
	})
}

// handleExport streams the filtered view as a CSV download.
// GET /api/v1/export
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilterSpec(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.snapshots.Get(r.Context())
	if err != nil {
		s.failSnapshot(w, err)
		return
	}

	filtered := spec.Apply(snap.Rows)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.ExportFilename))

	if err := report.WriteCSV(w, filtered); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("CSV export failed mid-stream", zap.Error(err))
	}
}

// handleRefresh discards the cached snapshot and reloads it.
// POST /api/v1/snapshot/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshots.Refresh(r.Context())
	if err != nil {
		s.failSnapshot(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "refreshed",
		"rows":      len(snap.Rows),
		"loaded_at": snap.LoadedAt,
	})
}

// failSnapshot surfaces a snapshot load failure. The interaction halts
// with a visible error rather than rendering partial or stale data.
func (s *Server) failSnapshot(w http.ResponseWriter, err error) {
	s.logger.Error("Snapshot unavailable", zap.Error(err))
	writeError(w, http.StatusServiceUnavailable, "failed to load data from database")
}

// parseFilterSpec builds a FilterSpec from query parameters. A
// categorical parameter that is present but empty means "nothing
// selected" and matches no rows; an absent parameter applies no
// constraint.
func parseFilterSpec(q url.Values) (*report.FilterSpec, error) {
	spec := &report.FilterSpec{
		Genders:       parseSet(q, "genders"),
		Contracts:     parseSet(q, "contracts"),
		ChurnStatuses: parseSet(q, "churn_statuses"),
		HighRiskOnly:  q.Get("high_risk_only") == "true",
	}

	var err error
	if spec.TenureMin, err = parseIntParam(q, "tenure_min"); err != nil {
		return nil, err
	}
	if spec.TenureMax, err = parseIntParam(q, "tenure_max"); err != nil {
		return nil, err
	}
	if spec.MonthlyChargesMin, err = parseFloatParam(q, "monthly_charges_min"); err != nil {
		return nil, err
	}
	if spec.MonthlyChargesMax, err = parseFloatParam(q, "monthly_charges_max"); err != nil {
		return nil, err
	}

	return spec, nil
}

func parseSet(q url.Values, key string) []string {
	if _, ok := q[key]; !ok {
		return nil
	}

	values := []string{}
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

func parseIntParam(q url.Values, key string) (*int, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

func parseFloatParam(q url.Values, key string) (*float64, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &n, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
