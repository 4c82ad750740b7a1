// pkg/report/view.go
package report

import "github.com/Femvrich001/customer-churn-project/pkg/model"

// BuildView reconstructs the logical joined view from the four tables:
// a left outer join chain anchored at customers. A customer missing a
// service, billing or churn row still appears, with nil-filled columns
// for the missing side; reporting never silently drops incomplete
// records. The result has exactly one row per customers row.
func BuildView(ds *model.Dataset) []model.CustomerView {
	services := make(map[string]*model.ServiceProfile, len(ds.Services))
	for i := range ds.Services {
		s := &ds.Services[i]
		if _, ok := services[s.CustomerID]; !ok {
			services[s.CustomerID] = s
		}
	}

	billing := make(map[string]*model.BillingProfile, len(ds.Billing))
	for i := range ds.Billing {
		b := &ds.Billing[i]
		if _, ok := billing[b.CustomerID]; !ok {
			billing[b.CustomerID] = b
		}
	}

	churn := make(map[string]*model.ChurnOutcome, len(ds.Churn))
	for i := range ds.Churn {
		c := &ds.Churn[i]
		if _, ok := churn[c.CustomerID]; !ok {
			churn[c.CustomerID] = c
		}
	}

	rows := make([]model.CustomerView, 0, len(ds.Customers))
	for _, cust := range ds.Customers {
		row := model.CustomerView{
			CustomerID:    cust.CustomerID,
			Gender:        cust.Gender,
			SeniorCitizen: cust.SeniorCitizen,
			Partner:       cust.Partner,
			Dependents:    cust.Dependents,
			Tenure:        cust.Tenure,
		}

		if s, ok := services[cust.CustomerID]; ok {
			row.PhoneService = intPtr(s.PhoneService)
			row.MultipleLines = strPtr(s.MultipleLines)
			row.InternetService = strPtr(s.InternetService)
			row.OnlineSecurity = strPtr(s.OnlineSecurity)
			row.OnlineBackup = strPtr(s.OnlineBackup)
			row.DeviceProtection = strPtr(s.DeviceProtection)
			row.TechSupport = strPtr(s.TechSupport)
			row.StreamingTV = strPtr(s.StreamingTV)
			row.StreamingMovies = strPtr(s.StreamingMovies)
		}

		if b, ok := billing[cust.CustomerID]; ok {
			row.Contract = strPtr(b.Contract)
			row.PaperlessBilling = intPtr(b.PaperlessBilling)
			row.PaymentMethod = strPtr(b.PaymentMethod)
			row.MonthlyCharges = floatPtr(b.MonthlyCharges)
			row.TotalCharges = floatPtr(b.TotalCharges)
		}

		if c, ok := churn[cust.CustomerID]; ok {
			row.ChurnStatus = strPtr(c.ChurnStatus)
			row.ChurnDate = c.ChurnDate
		}

		rows = append(rows, row)
	}

	return rows
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }
