// pkg/model/records.go
package model

import "time"

// Customer holds the demographic attributes of a single customer.
// Boolean-coded columns (senior_citizen, partner, dependents) contain
// only 0 or 1 after normalization.
type Customer struct {
	CustomerID    string `db:"customer_id" json:"customer_id"`
	Gender        string `db:"gender" json:"gender"`
	SeniorCitizen int    `db:"senior_citizen" json:"senior_citizen"`
	Partner       int    `db:"partner" json:"partner"`
	Dependents    int    `db:"dependents" json:"dependents"`
	Tenure        int    `db:"tenure" json:"tenure"`
}

// ServiceProfile holds the subscribed-service attributes of a customer.
// Conditional-service columns carry the canonical Yes/No domain; the
// "No phone service" / "No internet service" sentinels are collapsed
// during normalization and never reach this struct.
type ServiceProfile struct {
	CustomerID       string `db:"customer_id" json:"customer_id"`
	PhoneService     int    `db:"phone_service" json:"phone_service"`
	MultipleLines    string `db:"multiple_lines" json:"multiple_lines"`
	InternetService  string `db:"internet_service" json:"internet_service"`
	OnlineSecurity   string `db:"online_security" json:"online_security"`
	OnlineBackup     string `db:"online_backup" json:"online_backup"`
	DeviceProtection string `db:"device_protection" json:"device_protection"`
	TechSupport      string `db:"tech_support" json:"tech_support"`
	StreamingTV      string `db:"streaming_tv" json:"streaming_tv"`
	StreamingMovies  string `db:"streaming_movies" json:"streaming_movies"`
}

// BillingProfile holds the contract and charge attributes of a customer.
// TotalCharges is always non-negative; blank source values are coerced
// to zero during normalization.
type BillingProfile struct {
	CustomerID       string  `db:"customer_id" json:"customer_id"`
	Contract         string  `db:"contract" json:"contract"`
	PaperlessBilling int     `db:"paperless_billing" json:"paperless_billing"`
	PaymentMethod    string  `db:"payment_method" json:"payment_method"`
	MonthlyCharges   float64 `db:"monthly_charges" json:"monthly_charges"`
	TotalCharges     float64 `db:"total_charges" json:"total_charges"`
}

// ChurnOutcome records whether a customer has churned. ChurnDate is a
// placeholder for future enrichment and is always NULL at load time.
type ChurnOutcome struct {
	CustomerID  string     `db:"customer_id" json:"customer_id"`
	ChurnStatus string     `db:"churn_status" json:"churn_status"`
	ChurnDate   *time.Time `db:"churn_date" json:"churn_date"`
}

// Dataset is the normalized four-table projection of one source file.
// The four slices share the same length and ordering: row i of each
// slice describes the same customer (1:1:1:1 fanout).
type Dataset struct {
	Customers []Customer
	Services  []ServiceProfile
	Billing   []BillingProfile
	Churn     []ChurnOutcome
}

// Len returns the number of customers in the dataset.
func (d *Dataset) Len() int {
	return len(d.Customers)
}
