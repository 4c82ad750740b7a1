// pkg/normalize/normalize.go
package normalize

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/Femvrich001/customer-churn-project/pkg/model"
)

// Sentinel values that conditional-service columns carry when the
// prerequisite service is absent. They collapse to plain "No" so the
// columns hold a clean two-value domain downstream.
const (
	sentinelNoPhone    = "No phone service"
	sentinelNoInternet = "No internet service"
)

// Normalizer converts validated raw records into the canonical
// four-table dataset. It performs no I/O; callers persist the result
// through the loader.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a Normalizer
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.L()
	}
	return &Normalizer{logger: logger.Named("normalize")}
}

// Normalize applies the field-level normalization rules and projects
// the record set into the four-table schema. Each input row yields
// exactly one row in every output table (1:1:1:1 fanout).
//
// Normalization is idempotent: already-normalized values ("1"/"0"
// booleans, collapsed service columns, numeric total_charges) map to
// themselves.
func (n *Normalizer) Normalize(records []model.RawRecord) (*model.Dataset, error) {
	ds := &model.Dataset{
		Customers: make([]model.Customer, 0, len(records)),
		Services:  make([]model.ServiceProfile, 0, len(records)),
		Billing:   make([]model.BillingProfile, 0, len(records)),
		Churn:     make([]model.ChurnOutcome, 0, len(records)),
	}

	seen := make(map[string]int, len(records))

	for i, rec := range records {
		row := i + 1

		if rec.CustomerID == "" {
			return nil, &CoercionError{Row: row, Column: model.ColCustomerID, Value: ""}
		}
		if prev, dup := seen[rec.CustomerID]; dup {
			return nil, fmt.Errorf("row %d: duplicate customer_id %q (first seen at row %d)", row, rec.CustomerID, prev)
		}
		seen[rec.CustomerID] = row

		customer, err := normalizeCustomer(row, rec)
		if err != nil {
			return nil, err
		}

		service, err := normalizeService(row, rec)
		if err != nil {
			return nil, err
		}

		billing, err := normalizeBilling(row, rec)
		if err != nil {
			return nil, err
		}

		churn, err := normalizeChurn(row, rec)
		if err != nil {
			return nil, err
		}

		ds.Customers = append(ds.Customers, customer)
		ds.Services = append(ds.Services, service)
		ds.Billing = append(ds.Billing, billing)
		ds.Churn = append(ds.Churn, churn)
	}

	n.logger.Info("Normalized record set", zap.Int("rows", ds.Len()))
	return ds, nil
}

func normalizeCustomer(row int, rec model.RawRecord) (model.Customer, error) {
	senior, err := remapBool(row, model.ColSeniorCitizen, rec.SeniorCitizen)
	if err != nil {
		return model.Customer{}, err
	}
	partner, err := remapBool(row, model.ColPartner, rec.Partner)
	if err != nil {
		return model.Customer{}, err
	}
	dependents, err := remapBool(row, model.ColDependents, rec.Dependents)
	if err != nil {
		return model.Customer{}, err
	}
	tenure, err := strconv.Atoi(rec.Tenure)
	if err != nil || tenure < 0 {
		return model.Customer{}, &CoercionError{Row: row, Column: model.ColTenure, Value: rec.Tenure}
	}

	return model.Customer{
		CustomerID:    rec.CustomerID,
		Gender:        rec.Gender,
		SeniorCitizen: senior,
		Partner:       partner,
		Dependents:    dependents,
		Tenure:        tenure,
	}, nil
}

func normalizeService(row int, rec model.RawRecord) (model.ServiceProfile, error) {
	phone, err := remapBool(row, model.ColPhoneService, rec.PhoneService)
	if err != nil {
		return model.ServiceProfile{}, err
	}

	return model.ServiceProfile{
		CustomerID:       rec.CustomerID,
		PhoneService:     phone,
		MultipleLines:    collapse(rec.MultipleLines),
		InternetService:  rec.InternetService,
		OnlineSecurity:   collapse(rec.OnlineSecurity),
		OnlineBackup:     collapse(rec.OnlineBackup),
		DeviceProtection: collapse(rec.DeviceProtection),
		TechSupport:      collapse(rec.TechSupport),
		StreamingTV:      collapse(rec.StreamingTV),
		StreamingMovies:  collapse(rec.StreamingMovies),
	}, nil
}

func normalizeBilling(row int, rec model.RawRecord) (model.BillingProfile, error) {
	paperless, err := remapBool(row, model.ColPaperlessBilling, rec.PaperlessBilling)
	if err != nil {
		return model.BillingProfile{}, err
	}

	monthly, err := strconv.ParseFloat(rec.MonthlyCharges, 64)
	if err != nil {
		return model.BillingProfile{}, &CoercionError{Row: row, Column: model.ColMonthlyCharges, Value: rec.MonthlyCharges}
	}

	total, err := coerceTotalCharges(rec.TotalCharges)
	if err != nil {
		return model.BillingProfile{}, &CoercionError{Row: row, Column: model.ColTotalCharges, Value: rec.TotalCharges}
	}

	return model.BillingProfile{
		CustomerID:       rec.CustomerID,
		Contract:         rec.Contract,
		PaperlessBilling: paperless,
		PaymentMethod:    rec.PaymentMethod,
		MonthlyCharges:   monthly,
		TotalCharges:     total,
	}, nil
}

func normalizeChurn(row int, rec model.RawRecord) (model.ChurnOutcome, error) {
	switch rec.Churn {
	case "Yes", "No":
	default:
		return model.ChurnOutcome{}, &CoercionError{Row: row, Column: model.ColChurn, Value: rec.Churn}
	}

	// churn_date is a placeholder for future enrichment, always NULL
	// at load time.
	return model.ChurnOutcome{
		CustomerID:  rec.CustomerID,
		ChurnStatus: rec.Churn,
		ChurnDate:   nil,
	}, nil
}

// remapBool maps the textual boolean domain to 0/1. The numeric forms
// are accepted so normalizing already-normalized data is a no-op; any
// other value is a data-quality failure.
func remapBool(row int, column, value string) (int, error) {
	switch value {
	case "Yes", "1":
		return 1, nil
	case "No", "0":
		return 0, nil
	default:
		return 0, &CoercionError{Row: row, Column: column, Value: value}
	}
}

// collapse replaces the no-service sentinels with plain "No"; every
// other value passes through unchanged.
func collapse(value string) string {
	if value == sentinelNoPhone || value == sentinelNoInternet {
		return "No"
	}
	return value
}

// coerceTotalCharges parses total charges permissively: blank or
// unparseable text means no charges have accrued yet (early-tenure
// customers) and becomes 0. A parseable negative amount is still an
// error, since total_charges must never go below zero.
func coerceTotalCharges(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	total, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, nil
	}
	if total < 0 {
		return 0, fmt.Errorf("negative total charges %q", value)
	}
	return total, nil
}
