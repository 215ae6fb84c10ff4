package models

import (
	"strings"

	"golang.org/x/exp/slices"
)

// taxonomy maps every transaction kind to the categories that are allowed
// for it. It is a pure data table so that validation stays testable and the
// set can be swapped without touching any handler.
var taxonomy = map[Kind][]string{
	KindIncome:   {"Salary", "Business", "Freelance", "Investment", "Gift", "Other"},
	KindExpense:  {"Food", "Rent", "Transport", "Utilities", "Shopping", "Health", "Education", "Entertainment", "Other"},
	KindBorrowed: {"Personal", "Business", "Emergency", "Other"},
	KindLent:     {"Personal", "Business", "Emergency", "Other"},
}

// Categories returns the allowed categories for a kind. The returned slice
// is a copy, callers can modify it freely.
func Categories(kind Kind) []string {
	return slices.Clone(taxonomy[kind])
}

// CategoryAllowed reports whether the category is in the allowed set for
// the kind. Matching ignores surrounding whitespace but not case, the
// taxonomy entries are the canonical spelling.
func CategoryAllowed(kind Kind, category string) bool {
	return slices.Contains(taxonomy[kind], strings.TrimSpace(category))
}
