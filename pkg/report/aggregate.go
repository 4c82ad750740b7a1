// pkg/report/aggregate.go
package report

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/Femvrich001/customer-churn-project/pkg/model"
)

// Metric thresholds. The high-risk KPI uses a tighter tenure cutoff
// than the high-risk filter.
const (
	highRiskCountTenure = 3
	loyalTenure         = 24
	bucketLowCeiling    = 30.0
	bucketMediumCeiling = 60.0
)

// KPIs are the headline metrics of the dashboard. Average fields are
// nil when the filtered view is empty (rendered as N/A), counts and
// rates degrade to zero.
type KPIs struct {
	TotalCustomers    int      `json:"total_customers"`
	ChurnRate         float64  `json:"churn_rate"`
	AvgTenure         *float64 `json:"avg_tenure"`
	AvgMonthlyCharges *float64 `json:"avg_monthly_charges"`
	RevenueAtRisk     float64  `json:"revenue_at_risk"`
	HighRiskCount     int      `json:"high_risk_count"`
	PremiumCount      int      `json:"premium_count"`
	LoyalCount        int      `json:"loyal_count"`
}

// GroupChurnCount is one cell of a (group x churn_status) breakdown.
type GroupChurnCount struct {
	Group       string `json:"group"`
	ChurnStatus string `json:"churn_status"`
	Count       int    `json:"count"`
}

// RateRow is a per-group churn rate.
type RateRow struct {
	Group     string  `json:"group"`
	Customers int     `json:"customers"`
	Churned   int     `json:"churned"`
	ChurnRate float64 `json:"churn_rate"`
}

// SegmentRow describes one monthly-charge bucket.
type SegmentRow struct {
	Segment          string  `json:"segment"`
	Customers        int     `json:"customers"`
	AvgTenure        float64 `json:"avg_tenure"`
	ChurnProbability float64 `json:"churn_probability"`
}

// ContractRevenueRow carries per-contract monthly revenue, total and
// the share attributable to churned customers.
type ContractRevenueRow struct {
	Contract       string  `json:"contract"`
	TotalRevenue   float64 `json:"total_revenue"`
	ChurnedRevenue float64 `json:"churned_revenue"`
}

// ContractValueRow approximates per-contract lifetime value via the
// average of accumulated total charges.
type ContractValueRow struct {
	Contract        string  `json:"contract"`
	Customers       int     `json:"customers"`
	Churned         int     `json:"churned"`
	AvgTotalCharges float64 `json:"avg_total_charges"`
}

// Correlations holds point-biserial correlations of the 0/1 churn
// indicator against numeric attributes. A nil value means the
// correlation is undefined over the current view (empty or constant).
type Correlations struct {
	Tenure         *float64 `json:"tenure"`
	MonthlyCharges *float64 `json:"monthly_charges"`
	SeniorCitizen  *float64 `json:"senior_citizen"`
}

// Report is the full aggregate set computed over one filtered view.
// Every report surface is computed here, from one definition per
// metric, so the breakdown tabs can never drift apart.
type Report struct {
	KPIs KPIs `json:"kpis"`

	ChurnByGender   []GroupChurnCount `json:"churn_by_gender"`
	ChurnByContract []GroupChurnCount `json:"churn_by_contract"`

	ChurnRateByInternetService []RateRow `json:"churn_rate_by_internet_service"`
	ChurnRateByPaymentMethod   []RateRow `json:"churn_rate_by_payment_method"`

	ChargeSegments  []SegmentRow         `json:"charge_segments"`
	ContractRevenue []ContractRevenueRow `json:"contract_revenue"`
	ContractValue   []ContractValueRow   `json:"contract_value"`

	Correlations Correlations `json:"correlations"`
}

// Aggregate computes the full report over a filtered view.
// baselineMedian is the monthly-charges median of the UNFILTERED base
// view: "premium" means above the dataset-wide median regardless of
// the active filter.
func Aggregate(rows []model.CustomerView, baselineMedian float64) *Report {
	r := &Report{}
	r.KPIs = computeKPIs(rows, baselineMedian)
	r.ChurnByGender = churnCountsBy(rows, func(v *model.CustomerView) (string, bool) {
		return v.Gender, true
	})
	r.ChurnByContract = churnCountsBy(rows, func(v *model.CustomerView) (string, bool) {
		if v.Contract == nil {
			return "", false
		}
		return *v.Contract, true
	})
	r.ChurnRateByInternetService = churnRatesBy(rows, func(v *model.CustomerView) (string, bool) {
		if v.InternetService == nil {
			return "", false
		}
		return *v.InternetService, true
	})
	r.ChurnRateByPaymentMethod = churnRatesBy(rows, func(v *model.CustomerView) (string, bool) {
		if v.PaymentMethod == nil {
			return "", false
		}
		return *v.PaymentMethod, true
	})
	r.ChargeSegments = chargeSegments(rows)
	r.ContractRevenue = contractRevenue(rows)
	r.ContractValue = contractValue(rows)
	r.Correlations = correlations(rows)
	return r
}

func computeKPIs(rows []model.CustomerView, baselineMedian float64) KPIs {
	k := KPIs{}

	distinct := make(map[string]struct{}, len(rows))
	churned := 0
	var tenures, monthlies []float64

	for i := range rows {
		v := &rows[i]
		distinct[v.CustomerID] = struct{}{}
		tenures = append(tenures, float64(v.Tenure))

		if v.Churned() {
			churned++
			if v.MonthlyCharges != nil {
				k.RevenueAtRisk += *v.MonthlyCharges
			}
			if v.Tenure < highRiskCountTenure {
				k.HighRiskCount++
			}
		}
		if v.MonthlyCharges != nil {
			monthlies = append(monthlies, *v.MonthlyCharges)
			if *v.MonthlyCharges > baselineMedian {
				k.PremiumCount++
			}
		}
		if v.Tenure > loyalTenure {
			k.LoyalCount++
		}
	}

	k.TotalCustomers = len(distinct)
	// Annualized monthly revenue of churned customers.
	k.RevenueAtRisk = round2(k.RevenueAtRisk * 12)

	if len(rows) > 0 {
		k.ChurnRate = round2(float64(churned) / float64(len(rows)) * 100)
	}
	if mean, err := stats.Mean(tenures); err == nil {
		v := round2(mean)
		k.AvgTenure = &v
	}
	if mean, err := stats.Mean(monthlies); err == nil {
		v := round2(mean)
		k.AvgMonthlyCharges = &v
	}

	return k
}

func churnCountsBy(rows []model.CustomerView, key func(*model.CustomerView) (string, bool)) []GroupChurnCount {
	type cell struct{ group, status string }
	counts := map[cell]int{}

	for i := range rows {
		group, ok := key(&rows[i])
		if !ok || rows[i].ChurnStatus == nil {
			continue
		}
		counts[cell{group, *rows[i].ChurnStatus}]++
	}

	out := make([]GroupChurnCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, GroupChurnCount{Group: c.group, ChurnStatus: c.status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].ChurnStatus < out[j].ChurnStatus
	})
	return out
}

func churnRatesBy(rows []model.CustomerView, key func(*model.CustomerView) (string, bool)) []RateRow {
	totals := map[string]*RateRow{}

	for i := range rows {
		group, ok := key(&rows[i])
		if !ok {
			continue
		}
		row, exists := totals[group]
		if !exists {
			row = &RateRow{Group: group}
			totals[group] = row
		}
		row.Customers++
		if rows[i].Churned() {
			row.Churned++
		}
	}

	out := make([]RateRow, 0, len(totals))
	for _, row := range totals {
		if row.Customers > 0 {
			row.ChurnRate = round2(float64(row.Churned) / float64(row.Customers) * 100)
		}
		out = append(out, *row)
	}
	// Highest churn rate first, matching the report ordering.
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChurnRate != out[j].ChurnRate {
			return out[i].ChurnRate > out[j].ChurnRate
		}
		return out[i].Group < out[j].Group
	})
	return out
}

func chargeSegment(monthly float64) string {
	switch {
	case monthly < bucketLowCeiling:
		return "Low"
	case monthly < bucketMediumCeiling:
		return "Medium"
	default:
		return "High"
	}
}

func chargeSegments(rows []model.CustomerView) []SegmentRow {
	type acc struct {
		customers  int
		tenureSum  float64
		churnedSum float64
	}
	buckets := map[string]*acc{}

	for i := range rows {
		v := &rows[i]
		if v.MonthlyCharges == nil {
			continue
		}
		segment := chargeSegment(*v.MonthlyCharges)
		a, ok := buckets[segment]
		if !ok {
			a = &acc{}
			buckets[segment] = a
		}
		a.customers++
		a.tenureSum += float64(v.Tenure)
		if v.Churned() {
			a.churnedSum++
		}
	}

	out := make([]SegmentRow, 0, len(buckets))
	for _, segment := range []string{"Low", "Medium", "High"} {
		a, ok := buckets[segment]
		if !ok {
			continue
		}
		out = append(out, SegmentRow{
			Segment:          segment,
			Customers:        a.customers,
			AvgTenure:        round2(a.tenureSum / float64(a.customers)),
			ChurnProbability: round2(a.churnedSum / float64(a.customers)),
		})
	}
	return out
}

func contractRevenue(rows []model.CustomerView) []ContractRevenueRow {
	totals := map[string]*ContractRevenueRow{}

	for i := range rows {
		v := &rows[i]
		if v.Contract == nil || v.MonthlyCharges == nil {
			continue
		}
		row, ok := totals[*v.Contract]
		if !ok {
			row = &ContractRevenueRow{Contract: *v.Contract}
			totals[*v.Contract] = row
		}
		row.TotalRevenue += *v.MonthlyCharges
		if v.Churned() {
			row.ChurnedRevenue += *v.MonthlyCharges
		}
	}

	out := make([]ContractRevenueRow, 0, len(totals))
	for _, row := range totals {
		row.TotalRevenue = round2(row.TotalRevenue)
		row.ChurnedRevenue = round2(row.ChurnedRevenue)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Contract < out[j].Contract })
	return out
}

func contractValue(rows []model.CustomerView) []ContractValueRow {
	type acc struct {
		customers int
		churned   int
		totalSum  float64
	}
	totals := map[string]*acc{}

	for i := range rows {
		v := &rows[i]
		if v.Contract == nil {
			continue
		}
		a, ok := totals[*v.Contract]
		if !ok {
			a = &acc{}
			totals[*v.Contract] = a
		}
		a.customers++
		if v.Churned() {
			a.churned++
		}
		if v.TotalCharges != nil {
			a.totalSum += *v.TotalCharges
		}
	}

	out := make([]ContractValueRow, 0, len(totals))
	for contract, a := range totals {
		out = append(out, ContractValueRow{
			Contract:        contract,
			Customers:       a.customers,
			Churned:         a.churned,
			AvgTotalCharges: round2(a.totalSum / float64(a.customers)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Contract < out[j].Contract })
	return out
}

// correlations computes the Pearson correlation between the binary
// churn indicator and each numeric attribute. Rows without a churn
// outcome are excluded; so are rows missing the attribute.
func correlations(rows []model.CustomerView) Correlations {
	var c Correlations

	c.Tenure = pearsonAgainstChurn(rows, func(v *model.CustomerView) (float64, bool) {
		return float64(v.Tenure), true
	})
	c.MonthlyCharges = pearsonAgainstChurn(rows, func(v *model.CustomerView) (float64, bool) {
		if v.MonthlyCharges == nil {
			return 0, false
		}
		return *v.MonthlyCharges, true
	})
	c.SeniorCitizen = pearsonAgainstChurn(rows, func(v *model.CustomerView) (float64, bool) {
		return float64(v.SeniorCitizen), true
	})

	return c
}

func pearsonAgainstChurn(rows []model.CustomerView, value func(*model.CustomerView) (float64, bool)) *float64 {
	var xs, ys []float64
	for i := range rows {
		v := &rows[i]
		if v.ChurnStatus == nil {
			continue
		}
		x, ok := value(v)
		if !ok {
			continue
		}
		xs = append(xs, x)
		y := 0.0
		if v.Churned() {
			y = 1.0
		}
		ys = append(ys, y)
	}

	corr, err := stats.Pearson(xs, ys)
	if err != nil || math.IsNaN(corr) {
		return nil
	}
	corr = round2(corr)
	return &corr
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
