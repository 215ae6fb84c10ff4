package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/ledgerline/backend/internal/controllers/v1"
	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createScenario fills the ledger with one month of activity: a salary, the
// rent and an already overdue loan to Bilal.
func (suite *TestSuiteStandard) createScenario() {
	overdue := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	createTestTransaction(suite.T(), v1.TransactionEditable{
		Kind:     models.KindIncome,
		Amount:   decimal.NewFromInt(10000),
		Category: "Salary",
		Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	createTestTransaction(suite.T(), v1.TransactionEditable{
		Kind:     models.KindExpense,
		Amount:   decimal.NewFromInt(3000),
		Category: "Rent",
		Date:     time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	})
	createTestTransaction(suite.T(), v1.TransactionEditable{
		Kind:     models.KindLent,
		Amount:   decimal.NewFromInt(2000),
		Category: "Personal",
		Date:     time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
		DueDate:  &overdue,
		CounterpartyDetails: models.CounterpartyDetails{
			Name:  "Bilal",
			Phone: "03001234567",
			Email: "bilal@example.com",
		},
	})
}

// TestAnalyticsSummary verifies the aggregated summary over the scenario.
func (suite *TestSuiteStandard) TestAnalyticsSummary() {
	suite.createScenario()

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/analytics/summary", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var res v1.SummaryResponse
	test.DecodeResponse(suite.T(), &r, &res)
	require.NotNil(suite.T(), res.Data)

	assert.True(suite.T(), res.Data.Totals.Income.Equal(decimal.NewFromInt(10000)), res.Data.Totals.Income)
	assert.True(suite.T(), res.Data.Totals.Expenses.Equal(decimal.NewFromInt(3000)), res.Data.Totals.Expenses)
	assert.True(suite.T(), res.Data.Totals.Lent.Equal(decimal.NewFromInt(2000)), res.Data.Totals.Lent)
	assert.True(suite.T(), res.Data.NetWorth.Equal(decimal.NewFromInt(9000)), res.Data.NetWorth)
	assert.Equal(suite.T(), 1, res.Data.OverdueCount)
}

// TestAnalyticsSummaryFiltered verifies that the summary honors the same
// filter parameters as the transaction list.
func (suite *TestSuiteStandard) TestAnalyticsSummaryFiltered() {
	suite.createScenario()

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/analytics/summary?kind=expense", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var res v1.SummaryResponse
	test.DecodeResponse(suite.T(), &r, &res)
	require.NotNil(suite.T(), res.Data)

	assert.True(suite.T(), res.Data.Totals.Income.IsZero())
	assert.True(suite.T(), res.Data.Totals.Expenses.Equal(decimal.NewFromInt(3000)))
	assert.Equal(suite.T(), 0, res.Data.OverdueCount, "lending records are filtered out")
}

// TestAnalyticsSummaryInvalidKind verifies that an unknown kind is rejected.
func (suite *TestSuiteStandard) TestAnalyticsSummaryInvalidKind() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/analytics/summary?kind=donation", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

// TestAnalyticsCategories verifies the per-category breakdown.
func (suite *TestSuiteStandard) TestAnalyticsCategories() {
	suite.createScenario()
	createTestTransaction(suite.T(), v1.TransactionEditable{
		Kind:     models.KindExpense,
		Amount:   decimal.NewFromInt(1000),
		Category: "Food",
		Date:     time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC),
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/analytics/categories?kind=expense", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var res v1.CategorySumListResponse
	test.DecodeResponse(suite.T(), &r, &res)

	require.Len(suite.T(), res.Data, 2)
	assert.Equal(suite.T(), "Rent", res.Data[0].Category, "largest sum must come first")
	assert.True(suite.T(), res.Data[0].Sum.Equal(decimal.NewFromInt(3000)))
	assert.True(suite.T(), res.Data[0].Percentage.Equal(decimal.NewFromInt(75)), res.Data[0].Percentage)
	assert.Equal(suite.T(), "Food", res.Data[1].Category)
}

// TestAnalyticsCategoriesInvalidKind verifies that an unknown kind is
// rejected.
func (suite *TestSuiteStandard) TestAnalyticsCategoriesInvalidKind() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/analytics/categories?kind=donation", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

// TestAnalyticsTrend verifies the length invariant of the trend.
func (suite *TestSuiteStandard) TestAnalyticsTrend() {
	suite.createScenario()

	tests := []struct {
		months string
		status int
		length int
	}{
		{"", http.StatusOK, 6},
		{"?months=1", http.StatusOK, 1},
		{"?months=24", http.StatusOK, 24},
		{"?months=0", http.StatusBadRequest, 0},
		{"?months=25", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		suite.T().Run(fmt.Sprintf("months %q", tt.months), func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/analytics/trend%s", tt.months), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status != http.StatusOK {
				return
			}

			var res v1.TrendResponse
			test.DecodeResponse(t, &r, &res)
			assert.Len(t, res.Data, tt.length, "the trend must always cover the requested number of months")
		})
	}
}
