// pkg/report/export_test.go
package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Femvrich001/customer-churn-project/pkg/model"
)

func TestWriteCSVHeaderAndRows(t *testing.T) {
	rows := []model.CustomerView{
		testRow("7590-VHVEG", 12, 29.85, "No"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	header := parsed[0]
	assert.Equal(t, "customer_id", header[0])
	assert.Equal(t, "churn_date", header[len(header)-1])

	row := parsed[1]
	require.Len(t, row, len(header))
	assert.Equal(t, "7590-VHVEG", row[0])
	assert.Equal(t, "12", row[5])
	assert.Equal(t, "29.85", row[18])
	assert.Equal(t, "No", row[20])
	assert.Equal(t, "", row[21], "null churn date renders empty")
}

func TestWriteCSVNullSidesRenderEmpty(t *testing.T) {
	rows := []model.CustomerView{
		{CustomerID: "A", Gender: "Male", Tenure: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	row := parsed[1]
	assert.Equal(t, "A", row[0])
	assert.Equal(t, "", row[6], "phone_service")
	assert.Equal(t, "", row[15], "contract")
	assert.Equal(t, "", row[18], "monthly_charges")
	assert.Equal(t, "", row[20], "churn_status")
}

func TestWriteCSVEmptyViewWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, exportHeader, parsed[0])
}
