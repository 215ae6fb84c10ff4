// Package analytics computes summary statistics over transaction
// snapshots.
//
// All functions are pure: they work on the slice passed in, use exact
// decimal arithmetic and hold no state. Time-dependent views take the
// reference time as a parameter, callers pass time.Now().
package analytics

import (
	"sort"
	"time"

	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Totals are the per-kind sums and counts of a record set.
type Totals struct {
	Income       decimal.Decimal `json:"income" example:"10000"`
	Expenses     decimal.Decimal `json:"expenses" example:"3000"`
	Borrowed     decimal.Decimal `json:"borrowed" example:"0"`
	Lent         decimal.Decimal `json:"lent" example:"2000"`
	IncomeCount  int             `json:"incomeCount" example:"1"`
	ExpenseCount int             `json:"expenseCount" example:"1"`
}

// ComputeTotals sums the record set per kind.
func ComputeTotals(records []models.Transaction) Totals {
	totals := Totals{
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
		Borrowed: decimal.Zero,
		Lent:     decimal.Zero,
	}

	for _, t := range records {
		switch t.Kind {
		case models.KindIncome:
			totals.Income = totals.Income.Add(t.Amount)
			totals.IncomeCount++
		case models.KindExpense:
			totals.Expenses = totals.Expenses.Add(t.Amount)
			totals.ExpenseCount++
		case models.KindBorrowed:
			totals.Borrowed = totals.Borrowed.Add(t.Amount)
		case models.KindLent:
			totals.Lent = totals.Lent.Add(t.Amount)
		}
	}

	return totals
}

// NetWorth is income - expenses + lent - borrowed.
//
// Every net worth display routes through this function, it is never
// recomputed ad hoc.
func NetWorth(totals Totals) decimal.Decimal {
	return totals.Income.Sub(totals.Expenses).Add(totals.Lent).Sub(totals.Borrowed)
}

// CategorySum is the aggregate for one category within a kind.
type CategorySum struct {
	Category   string          `json:"category" example:"Rent"`
	Sum        decimal.Decimal `json:"sum" example:"3000"`
	Percentage decimal.Decimal `json:"percentage" example:"30"` // Share of the kind total, 0 when the total is 0
}

// ByCategory groups the records of one kind by category and sums them.
// The result is ordered by sum, largest first, ties broken by name so the
// output is deterministic.
func ByCategory(records []models.Transaction, kind models.Kind) []CategorySum {
	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero

	for _, t := range records {
		if t.Kind != kind {
			continue
		}

		sums[t.Category] = sums[t.Category].Add(t.Amount)
		total = total.Add(t.Amount)
	}

	hundred := decimal.NewFromInt(100)
	result := make([]CategorySum, 0, len(sums))
	for category, sum := range sums {
		percentage := decimal.Zero
		if !total.IsZero() {
			percentage = sum.Div(total).Mul(hundred)
		}

		result = append(result, CategorySum{
			Category:   category,
			Sum:        sum,
			Percentage: percentage,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Sum.Equal(result[j].Sum) {
			return result[i].Sum.GreaterThan(result[j].Sum)
		}
		return result[i].Category < result[j].Category
	})

	return result
}

// TrendEntry is the income/expense aggregate for one calendar month.
type TrendEntry struct {
	Month   types.Month     `json:"month" example:"2024-01"`
	Income  decimal.Decimal `json:"income" example:"10000"`
	Expense decimal.Decimal `json:"expense" example:"3000"`
	Profit  decimal.Decimal `json:"profit" example:"7000"`
}

// MonthlyTrend sums income and expense records for each of the last
// monthCount calendar months ending at the month of now. Months without
// records yield zeroed entries, the result always has exactly monthCount
// entries in chronological order.
func MonthlyTrend(records []models.Transaction, monthCount int, now time.Time) []TrendEntry {
	if monthCount <= 0 {
		return []TrendEntry{}
	}

	current := types.MonthOf(now)
	entries := make([]TrendEntry, monthCount)
	for i := range entries {
		entries[i] = TrendEntry{
			Month:   current.AddDate(0, i-monthCount+1),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
			Profit:  decimal.Zero,
		}
	}

	for _, t := range records {
		for i := range entries {
			if !entries[i].Month.Contains(t.Date) {
				continue
			}

			switch t.Kind {
			case models.KindIncome:
				entries[i].Income = entries[i].Income.Add(t.Amount)
			case models.KindExpense:
				entries[i].Expense = entries[i].Expense.Add(t.Amount)
			}
			break
		}
	}

	for i := range entries {
		entries[i].Profit = entries[i].Income.Sub(entries[i].Expense)
	}

	return entries
}

// AverageDaily is the pace-to-date burn rate for the month of now: the sum
// of the kind in that month divided by the elapsed days. The divisor is the
// current day of the month, never the full month length.
func AverageDaily(records []models.Transaction, kind models.Kind, now time.Time) decimal.Decimal {
	month := types.MonthOf(now)

	sum := decimal.Zero
	for _, t := range records {
		if t.Kind == kind && month.Contains(t.Date) {
			sum = sum.Add(t.Amount)
		}
	}

	return sum.Div(decimal.NewFromInt(int64(now.Day())))
}
