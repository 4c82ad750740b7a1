// pkg/model/view.go
package model

import "time"

// CustomerView is one row of the reconstructed reporting view: the
// customer record joined left-outer against its service, billing and
// churn rows. Pointer fields are nil when the corresponding side of
// the join is missing, so incomplete customers still appear.
type CustomerView struct {
	CustomerID    string `json:"customer_id"`
	Gender        string `json:"gender"`
	SeniorCitizen int    `json:"senior_citizen"`
	Partner       int    `json:"partner"`
	Dependents    int    `json:"dependents"`
	Tenure        int    `json:"tenure"`

	PhoneService     *int    `json:"phone_service"`
	MultipleLines    *string `json:"multiple_lines"`
	InternetService  *string `json:"internet_service"`
	OnlineSecurity   *string `json:"online_security"`
	OnlineBackup     *string `json:"online_backup"`
	DeviceProtection *string `json:"device_protection"`
	TechSupport      *string `json:"tech_support"`
	StreamingTV      *string `json:"streaming_tv"`
	StreamingMovies  *string `json:"streaming_movies"`

	Contract         *string  `json:"contract"`
	PaperlessBilling *int     `json:"paperless_billing"`
	PaymentMethod    *string  `json:"payment_method"`
	MonthlyCharges   *float64 `json:"monthly_charges"`
	TotalCharges     *float64 `json:"total_charges"`

	ChurnStatus *string    `json:"churn_status"`
	ChurnDate   *time.Time `json:"churn_date"`
}

// Churned reports whether the row carries a confirmed churn outcome.
func (v *CustomerView) Churned() bool {
	return v.ChurnStatus != nil && *v.ChurnStatus == "Yes"
}
