// pkg/report/view_test.go
package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Femvrich001/customer-churn-project/pkg/model"
)

// testRow builds a fully joined view row for filter/aggregate tests.
func testRow(id string, tenure int, monthly float64, churn string, opts ...func(*model.CustomerView)) model.CustomerView {
	row := model.CustomerView{
		CustomerID:      id,
		Gender:          "Female",
		Tenure:          tenure,
		MonthlyCharges:  floatPtr(monthly),
		TotalCharges:    floatPtr(monthly * float64(tenure)),
		Contract:        strPtr("Month-to-month"),
		PaymentMethod:   strPtr("Electronic check"),
		InternetService: strPtr("DSL"),
		ChurnStatus:     strPtr(churn),
	}
	for _, opt := range opts {
		opt(&row)
	}
	return row
}

func withGender(g string) func(*model.CustomerView) {
	return func(v *model.CustomerView) { v.Gender = g }
}

func withContract(c string) func(*model.CustomerView) {
	return func(v *model.CustomerView) { v.Contract = strPtr(c) }
}

func withSenior(s int) func(*model.CustomerView) {
	return func(v *model.CustomerView) { v.SeniorCitizen = s }
}

func TestBuildViewJoinsAllFourTables(t *testing.T) {
	ds := &model.Dataset{
		Customers: []model.Customer{
			{CustomerID: "A", Gender: "Female", Tenure: 5, Partner: 1},
		},
		Services: []model.ServiceProfile{
			{CustomerID: "A", PhoneService: 1, MultipleLines: "No", InternetService: "DSL"},
		},
		Billing: []model.BillingProfile{
			{CustomerID: "A", Contract: "Two year", MonthlyCharges: 42.5, TotalCharges: 212.5},
		},
		Churn: []model.ChurnOutcome{
			{CustomerID: "A", ChurnStatus: "No"},
		},
	}

	rows := BuildView(ds)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "A", row.CustomerID)
	assert.Equal(t, 5, row.Tenure)
	require.NotNil(t, row.PhoneService)
	assert.Equal(t, 1, *row.PhoneService)
	require.NotNil(t, row.Contract)
	assert.Equal(t, "Two year", *row.Contract)
	require.NotNil(t, row.MonthlyCharges)
	assert.Equal(t, 42.5, *row.MonthlyCharges)
	require.NotNil(t, row.ChurnStatus)
	assert.Equal(t, "No", *row.ChurnStatus)
}

// The join is anchored at customers: missing sides null-fill, they
// never drop the row.
func TestBuildViewKeepsIncompleteCustomers(t *testing.T) {
	ds := &model.Dataset{
		Customers: []model.Customer{
			{CustomerID: "A", Gender: "Male", Tenure: 1},
			{CustomerID: "B", Gender: "Female", Tenure: 9},
		},
		Billing: []model.BillingProfile{
			{CustomerID: "B", Contract: "One year", MonthlyCharges: 70},
		},
	}

	rows := BuildView(ds)
	require.Len(t, rows, len(ds.Customers), "left-anchored join never drops rows")

	a := rows[0]
	assert.Nil(t, a.Contract)
	assert.Nil(t, a.MonthlyCharges)
	assert.Nil(t, a.ChurnStatus)
	assert.Nil(t, a.PhoneService)
	assert.False(t, a.Churned())

	b := rows[1]
	require.NotNil(t, b.Contract)
	assert.Equal(t, "One year", *b.Contract)
	assert.Nil(t, b.ChurnStatus)
}

func TestBuildViewEmptyDataset(t *testing.T) {
	rows := BuildView(&model.Dataset{})
	assert.Empty(t, rows)
}
