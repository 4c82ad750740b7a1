// pkg/report/filter.go
package report

import (
	"sort"

	"github.com/Femvrich001/customer-churn-project/pkg/model"
)

// Tenure threshold (months) below which a confirmed churner counts as
// high-risk for the high-risk-only filter.
const highRiskFilterTenure = 6

// FilterSpec is a conjunctive set of predicates over the joined view.
//
// Categorical filters follow multi-select semantics: a nil slice means
// the filter is untouched and passes everything through, while a
// non-nil empty slice means nothing is selected and excludes every row.
// Numeric ranges are inclusive; a nil bound is unbounded.
type FilterSpec struct {
	Genders       []string `json:"genders"`
	Contracts     []string `json:"contracts"`
	ChurnStatuses []string `json:"churn_statuses"`

	TenureMin *int `json:"tenure_min"`
	TenureMax *int `json:"tenure_max"`

	MonthlyChargesMin *float64 `json:"monthly_charges_min"`
	MonthlyChargesMax *float64 `json:"monthly_charges_max"`

	// HighRiskOnly restricts to short-tenure confirmed churners
	// (tenure < 6 and churn_status == "Yes").
	HighRiskOnly bool `json:"high_risk_only"`
}

// Apply returns the subset of rows satisfying every predicate.
func (f *FilterSpec) Apply(rows []model.CustomerView) []model.CustomerView {
	if f == nil {
		return rows
	}

	out := make([]model.CustomerView, 0, len(rows))
	for _, row := range rows {
		if f.matches(&row) {
			out = append(out, row)
		}
	}
	return out
}

func (f *FilterSpec) matches(row *model.CustomerView) bool {
	if !memberOf(f.Genders, &row.Gender) {
		return false
	}
	if !memberOf(f.Contracts, row.Contract) {
		return false
	}
	if !memberOf(f.ChurnStatuses, row.ChurnStatus) {
		return false
	}

	if f.TenureMin != nil && row.Tenure < *f.TenureMin {
		return false
	}
	if f.TenureMax != nil && row.Tenure > *f.TenureMax {
		return false
	}

	if f.MonthlyChargesMin != nil && (row.MonthlyCharges == nil || *row.MonthlyCharges < *f.MonthlyChargesMin) {
		return false
	}
	if f.MonthlyChargesMax != nil && (row.MonthlyCharges == nil || *row.MonthlyCharges > *f.MonthlyChargesMax) {
		return false
	}

	if f.HighRiskOnly && !(row.Tenure < highRiskFilterTenure && row.Churned()) {
		return false
	}

	return true
}

// memberOf implements multi-select membership: nil allowed set is
// pass-through, empty allowed set matches nothing, and a row with a
// null value never matches a constrained set.
func memberOf(allowed []string, value *string) bool {
	if allowed == nil {
		return true
	}
	if value == nil {
		return false
	}
	for _, a := range allowed {
		if a == *value {
			return true
		}
	}
	return false
}

// FilterOptions describes the observed filter domain: the distinct
// values and numeric bounds the dashboard builds its controls from.
type FilterOptions struct {
	Genders       []string `json:"genders"`
	Contracts     []string `json:"contracts"`
	ChurnStatuses []string `json:"churn_statuses"`

	TenureMin int `json:"tenure_min"`
	TenureMax int `json:"tenure_max"`

	MonthlyChargesMin float64 `json:"monthly_charges_min"`
	MonthlyChargesMax float64 `json:"monthly_charges_max"`
}

// Options collects the distinct categorical values and numeric bounds
// observed in the base view.
func Options(rows []model.CustomerView) FilterOptions {
	genders := map[string]struct{}{}
	contracts := map[string]struct{}{}
	statuses := map[string]struct{}{}

	opts := FilterOptions{}
	first := true
	firstMonthly := true

	for _, row := range rows {
		genders[row.Gender] = struct{}{}
		if row.Contract != nil {
			contracts[*row.Contract] = struct{}{}
		}
		if row.ChurnStatus != nil {
			statuses[*row.ChurnStatus] = struct{}{}
		}

		if first || row.Tenure < opts.TenureMin {
			opts.TenureMin = row.Tenure
		}
		if first || row.Tenure > opts.TenureMax {
			opts.TenureMax = row.Tenure
		}
		if row.MonthlyCharges != nil {
			if firstMonthly || *row.MonthlyCharges < opts.MonthlyChargesMin {
				opts.MonthlyChargesMin = *row.MonthlyCharges
			}
			if firstMonthly || *row.MonthlyCharges > opts.MonthlyChargesMax {
				opts.MonthlyChargesMax = *row.MonthlyCharges
			}
			firstMonthly = false
		}
		first = false
	}

	opts.Genders = sortedKeys(genders)
	opts.Contracts = sortedKeys(contracts)
	opts.ChurnStatuses = sortedKeys(statuses)
	return opts
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
