// Package export serializes aggregation reports to portable formats.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"time"

	"github.com/ledgerline/backend/internal/analytics"
	"github.com/ledgerline/backend/internal/models"
	"github.com/shopspring/decimal"
)

// Report is the aggregation result for a (typically filtered) record set.
// Its JSON form mirrors this structure exactly so that exports round-trip.
type Report struct {
	GeneratedAt time.Time               `json:"generatedAt" example:"2024-02-01T12:00:00Z"`
	Totals      analytics.Totals        `json:"totals"`
	NetWorth    decimal.Decimal         `json:"netWorth" example:"9000"`
	Income      []analytics.CategorySum `json:"income"`   // Per-category income breakdown
	Expenses    []analytics.CategorySum `json:"expenses"` // Per-category expense breakdown
	Trend       []analytics.TrendEntry  `json:"trend"`
}

// Build aggregates the record set into a report. The trend covers the last
// monthCount calendar months ending at the month of now.
func Build(records []models.Transaction, monthCount int, now time.Time) Report {
	totals := analytics.ComputeTotals(records)

	return Report{
		GeneratedAt: now.In(time.UTC),
		Totals:      totals,
		NetWorth:    analytics.NetWorth(totals),
		Income:      analytics.ByCategory(records, models.KindIncome),
		Expenses:    analytics.ByCategory(records, models.KindExpense),
		Trend:       analytics.MonthlyTrend(records, monthCount, now),
	}
}

// ToJSON serializes the report.
func (r Report) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a report serialized with ToJSON.
func FromJSON(data []byte) (Report, error) {
	var r Report
	err := json.Unmarshal(data, &r)
	return r, err
}

// ToCSV serializes the report as one row per category line item plus a
// trailing totals row. Fields are quoted per standard CSV rules.
func (r Report) ToCSV() ([]byte, error) {
	var buffer bytes.Buffer
	w := csv.NewWriter(&buffer)

	if err := w.Write([]string{"kind", "category", "amount", "percentage"}); err != nil {
		return nil, err
	}

	for _, line := range r.Income {
		if err := w.Write([]string{"income", line.Category, line.Sum.String(), line.Percentage.String()}); err != nil {
			return nil, err
		}
	}

	for _, line := range r.Expenses {
		if err := w.Write([]string{"expense", line.Category, line.Sum.String(), line.Percentage.String()}); err != nil {
			return nil, err
		}
	}

	if err := w.Write([]string{"total", "net worth", r.NetWorth.String(), ""}); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}
