// Package query implements the composable filter over transaction
// snapshots.
//
// Filtering is a pure function of the record slice and the filter value:
// no hidden state, the output preserves the relative order of the input.
package query

import (
	"strings"
	"time"

	"github.com/ledgerline/backend/internal/models"
	"github.com/ryanuber/go-glob"
)

// All is the wildcard value for the enumerated filter fields.
const All = "all"

// Filter describes which records to keep. Zero or "all" values deactivate
// the respective predicate; all active predicates are AND-ed.
type Filter struct {
	Search   string // Case-insensitive substring match on description, category and counterparty
	Kind     string
	Category string
	Medium   string

	// Date constraint: either From/To (inclusive) or Year. Year wins if
	// both are set.
	From time.Time
	To   time.Time
	Year int
}

// IsZero reports whether no predicate is active. Applying a zero filter
// returns the input unchanged.
func (f Filter) IsZero() bool {
	return !f.searchActive() && !active(f.Kind) && !active(f.Category) && !active(f.Medium) &&
		f.From.IsZero() && f.To.IsZero() && f.Year == 0
}

func (f Filter) searchActive() bool {
	return strings.TrimSpace(f.Search) != ""
}

func active(value string) bool {
	return value != "" && value != All
}

// Apply returns the records matching the filter, in the input order.
func Apply(records []models.Transaction, f Filter) []models.Transaction {
	matched := make([]models.Transaction, 0, len(records))
	for _, t := range records {
		if f.Matches(t) {
			matched = append(matched, t)
		}
	}

	return matched
}

// Matches reports whether a single record passes all active predicates.
func (f Filter) Matches(t models.Transaction) bool {
	if active(f.Kind) && string(t.Kind) != f.Kind {
		return false
	}

	if active(f.Category) && t.Category != f.Category {
		return false
	}

	if active(f.Medium) && string(t.Medium) != f.Medium {
		return false
	}

	if f.searchActive() && !matchesSearch(t, f.Search) {
		return false
	}

	if f.Year != 0 {
		return t.Date.Year() == f.Year
	}

	if !f.From.IsZero() && t.Date.Before(startOfDay(f.From)) {
		return false
	}

	if !f.To.IsZero() && !t.Date.Before(startOfDay(f.To).AddDate(0, 0, 1)) {
		return false
	}

	return true
}

// matchesSearch checks the free-text fields with a case-insensitive
// substring match.
func matchesSearch(t models.Transaction, search string) bool {
	pattern := "*" + strings.ToLower(strings.TrimSpace(search)) + "*"

	for _, field := range []string{t.Description, t.Category, t.Counterparty} {
		if glob.Glob(pattern, strings.ToLower(field)) {
			return true
		}
	}

	return false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
