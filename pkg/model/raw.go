// pkg/model/raw.go
package model

// Source column names as they appear in the Telco churn export.
// The CSV reader validates the header against this list before any
// transformation runs.
const (
	ColCustomerID       = "customerID"
	ColGender           = "gender"
	ColSeniorCitizen    = "SeniorCitizen"
	ColPartner          = "Partner"
	ColDependents       = "Dependents"
	ColTenure           = "tenure"
	ColPhoneService     = "PhoneService"
	ColMultipleLines    = "MultipleLines"
	ColInternetService  = "InternetService"
	ColOnlineSecurity   = "OnlineSecurity"
	ColOnlineBackup     = "OnlineBackup"
	ColDeviceProtection = "DeviceProtection"
	ColTechSupport      = "TechSupport"
	ColStreamingTV      = "StreamingTV"
	ColStreamingMovies  = "StreamingMovies"
	ColContract         = "Contract"
	ColPaperlessBilling = "PaperlessBilling"
	ColPaymentMethod    = "PaymentMethod"
	ColMonthlyCharges   = "MonthlyCharges"
	ColTotalCharges     = "TotalCharges"
	ColChurn            = "Churn"
)

// SourceColumns lists every column the loader requires in the input
// file, in canonical order.
var SourceColumns = []string{
	ColCustomerID,
	ColGender,
	ColSeniorCitizen,
	ColPartner,
	ColDependents,
	ColTenure,
	ColPhoneService,
	ColMultipleLines,
	ColInternetService,
	ColOnlineSecurity,
	ColOnlineBackup,
	ColDeviceProtection,
	ColTechSupport,
	ColStreamingTV,
	ColStreamingMovies,
	ColContract,
	ColPaperlessBilling,
	ColPaymentMethod,
	ColMonthlyCharges,
	ColTotalCharges,
	ColChurn,
}

// RawRecord is one validated source row. Every field is the untouched
// source text; typing and domain checks happen in the normalizer.
type RawRecord struct {
	CustomerID       string
	Gender           string
	SeniorCitizen    string
	Partner          string
	Dependents       string
	Tenure           string
	PhoneService     string
	MultipleLines    string
	InternetService  string
	OnlineSecurity   string
	OnlineBackup     string
	DeviceProtection string
	TechSupport      string
	StreamingTV      string
	StreamingMovies  string
	Contract         string
	PaperlessBilling string
	PaymentMethod    string
	MonthlyCharges   string
	TotalCharges     string
	Churn            string
}
