// Package lending presents the borrowed/lent records of a snapshot as a
// two-party ledger.
//
// Overdue is a derived, time-dependent property: a record becomes overdue
// without any write to it, so classification is always recomputed from the
// reference time passed by the caller.
package lending

import (
	"sort"
	"time"

	"github.com/ledgerline/backend/internal/models"
	"github.com/shopspring/decimal"
)

// State is the derived risk state of a lending record.
type State string

const (
	StatePaid    State = "paid"
	StateOverdue State = "overdue"
	StatePending State = "pending"
)

// Classify returns the state of a record at the given time. The due date is
// inclusive of its own day: a record due exactly today is pending, not
// overdue.
func Classify(t models.Transaction, now time.Time) State {
	if t.Status == models.StatusPaid {
		return StatePaid
	}

	if t.DueDate != nil && day(*t.DueDate).Before(day(now)) {
		return StateOverdue
	}

	return StatePending
}

// BalanceFor returns the open balance with one counterparty: lent amounts
// minus borrowed amounts that are still pending. Positive means they owe
// the user. Paid records are excluded from the balance but stay in history.
func BalanceFor(records []models.Transaction, counterparty string) decimal.Decimal {
	balance := decimal.Zero

	for _, t := range records {
		if !t.Kind.IsLending() || t.Counterparty != counterparty || t.Status == models.StatusPaid {
			continue
		}

		switch t.Kind {
		case models.KindLent:
			balance = balance.Add(t.Amount)
		case models.KindBorrowed:
			balance = balance.Sub(t.Amount)
		}
	}

	return balance
}

// NetPosition is lent minus borrowed over the full record set, regardless
// of status. Positive means the user is owed more than they owe.
func NetPosition(records []models.Transaction) decimal.Decimal {
	position := decimal.Zero

	for _, t := range records {
		switch t.Kind {
		case models.KindLent:
			position = position.Add(t.Amount)
		case models.KindBorrowed:
			position = position.Sub(t.Amount)
		}
	}

	return position
}

// OverdueCount counts the lending records classified overdue at the given
// time.
func OverdueCount(records []models.Transaction, now time.Time) int {
	count := 0
	for _, t := range records {
		if t.Kind.IsLending() && Classify(t, now) == StateOverdue {
			count++
		}
	}

	return count
}

// CounterpartySummary is the per-counterparty rollup of the subledger.
type CounterpartySummary struct {
	Counterparty string          `json:"counterparty" example:"Ali Hassan"`
	Balance      decimal.Decimal `json:"balance" example:"5000"` // Positive: they owe the user
	Pending      int             `json:"pending" example:"1"`
	Overdue      int             `json:"overdue" example:"0"`
	Paid         int             `json:"paid" example:"2"`
}

// Counterparties returns one summary per counterparty that appears in the
// lending subledger, ordered by name.
func Counterparties(records []models.Transaction, now time.Time) []CounterpartySummary {
	summaries := make(map[string]*CounterpartySummary)

	for _, t := range records {
		if !t.Kind.IsLending() {
			continue
		}

		s, ok := summaries[t.Counterparty]
		if !ok {
			s = &CounterpartySummary{
				Counterparty: t.Counterparty,
				Balance:      decimal.Zero,
			}
			summaries[t.Counterparty] = s
		}

		switch Classify(t, now) {
		case StatePaid:
			s.Paid++
		case StateOverdue:
			s.Overdue++
		case StatePending:
			s.Pending++
		}

		if t.Status != models.StatusPaid {
			if t.Kind == models.KindLent {
				s.Balance = s.Balance.Add(t.Amount)
			} else {
				s.Balance = s.Balance.Sub(t.Amount)
			}
		}
	}

	result := make([]CounterpartySummary, 0, len(summaries))
	for _, s := range summaries {
		result = append(result, *s)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Counterparty < result[j].Counterparty
	})

	return result
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
