// pkg/source/csv.go
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Femvrich001/customer-churn-project/pkg/model"
)

// Reader ingests the flat customer export and produces typed, validated
// raw records. The header is checked against the required column set
// before any row is read, so a malformed export fails fast with a
// field-level diagnostic instead of surfacing later as a missing map key.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a Reader
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.L()
	}
	return &Reader{logger: logger.Named("source")}
}

// ReadFile opens and parses a CSV file from disk
func (r *Reader) ReadFile(path string) ([]model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()

	records, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

// Read parses CSV data into raw records
func (r *Reader) Read(src io.Reader) ([]model.RawRecord, error) {
	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file: no header row found")
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	index, err := validateHeader(header)
	if err != nil {
		return nil, err
	}

	var records []model.RawRecord
	rowNum := 1 // header is row 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			// Structural errors abort the batch; the loader never
			// skips rows and continues.
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		records = append(records, buildRecord(row, index))
	}

	if len(records) == 0 {
		return nil, errors.New("file contains no data rows")
	}

	r.logger.Info("Parsed source file",
		zap.Int("rows", len(records)),
		zap.Int("columns", len(header)))

	return records, nil
}

// validateHeader maps required column names to their positions and
// reports every missing column in one diagnostic.
func validateHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range model.SourceColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("source file is missing required columns: %s", strings.Join(missing, ", "))
	}

	return index, nil
}

func buildRecord(row []string, index map[string]int) model.RawRecord {
	get := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	return model.RawRecord{
		CustomerID:       get(model.ColCustomerID),
		Gender:           get(model.ColGender),
		SeniorCitizen:    get(model.ColSeniorCitizen),
		Partner:          get(model.ColPartner),
		Dependents:       get(model.ColDependents),
		Tenure:           get(model.ColTenure),
		PhoneService:     get(model.ColPhoneService),
		MultipleLines:    get(model.ColMultipleLines),
		InternetService:  get(model.ColInternetService),
		OnlineSecurity:   get(model.ColOnlineSecurity),
		OnlineBackup:     get(model.ColOnlineBackup),
		DeviceProtection: get(model.ColDeviceProtection),
		TechSupport:      get(model.ColTechSupport),
		StreamingTV:      get(model.ColStreamingTV),
		StreamingMovies:  get(model.ColStreamingMovies),
		Contract:         get(model.ColContract),
		PaperlessBilling: get(model.ColPaperlessBilling),
		PaymentMethod:    get(model.ColPaymentMethod),
		MonthlyCharges:   get(model.ColMonthlyCharges),
		TotalCharges:     get(model.ColTotalCharges),
		Churn:            get(model.ColChurn),
	}
}
