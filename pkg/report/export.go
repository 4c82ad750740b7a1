// pkg/report/export.go
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Femvrich001/customer-churn-project/pkg/model"
)

// ExportFilename is the suggested download name for a filtered export.
const ExportFilename = "filtered_churn_data.csv"

var exportHeader = []string{
	"customer_id", "gender", "senior_citizen", "partner", "dependents", "tenure",
	"phone_service", "multiple_lines", "internet_service", "online_security",
	"online_backup", "device_protection", "tech_support", "streaming_tv", "streaming_movies",
	"contract", "paperless_billing", "payment_method", "monthly_charges", "total_charges",
	"churn_status", "churn_date",
}

// WriteCSV writes the filtered view as UTF-8 CSV, header row included.
// Null join sides render as empty cells.
func WriteCSV(w io.Writer, rows []model.CustomerView) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range rows {
		v := &rows[i]
		record := []string{
			v.CustomerID,
			v.Gender,
			strconv.Itoa(v.SeniorCitizen),
			strconv.Itoa(v.Partner),
			strconv.Itoa(v.Dependents),
			strconv.Itoa(v.Tenure),
			intCell(v.PhoneService),
			strCell(v.MultipleLines),
			strCell(v.InternetService),
			strCell(v.OnlineSecurity),
			strCell(v.OnlineBackup),
			strCell(v.DeviceProtection),
			strCell(v.TechSupport),
			strCell(v.StreamingTV),
			strCell(v.StreamingMovies),
			strCell(v.Contract),
			intCell(v.PaperlessBilling),
			strCell(v.PaymentMethod),
			floatCell(v.MonthlyCharges),
			floatCell(v.TotalCharges),
			strCell(v.ChurnStatus),
			dateCell(v),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func strCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func dateCell(v *model.CustomerView) string {
	if v.ChurnDate == nil {
		return ""
	}
	return v.ChurnDate.Format("2006-01-02")
}
