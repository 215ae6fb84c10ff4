package models

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Kind is the transaction kind axis. It is immutable after creation since
// the allowed categories depend on it - changing the kind of a record is
// modeled as delete and recreate.
type Kind string

const (
	KindIncome   Kind = "income"
	KindExpense  Kind = "expense"
	KindBorrowed Kind = "borrowed"
	KindLent     Kind = "lent"
)

// Valid reports whether the kind is one of the defined kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense || k == KindBorrowed || k == KindLent
}

// IsLending reports whether records of this kind belong to the lending
// subledger.
func (k Kind) IsLending() bool {
	return k == KindBorrowed || k == KindLent
}

// Medium is the payment medium of a transaction.
type Medium string

const (
	MediumCash         Medium = "cash"
	MediumMobileWallet Medium = "mobile_wallet"
	MediumBank         Medium = "bank"
	MediumCheque       Medium = "cheque"
	MediumOther        Medium = "other"
)

// Valid reports whether the medium is one of the defined media.
func (m Medium) Valid() bool {
	switch m {
	case MediumCash, MediumMobileWallet, MediumBank, MediumCheque, MediumOther:
		return true
	}
	return false
}

// Status tracks settlement of borrowed and lent transactions. It is set by
// users only. "Overdue" is intentionally not a status: it is derived from
// the due date at read time.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Valid reports whether the status is one of the defined statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// CounterpartyDetails is the contact information for the external party of
// a borrowed or lent transaction.
type CounterpartyDetails struct {
	Name    string `json:"name" example:"Ali Hassan" default:""`          // Display name of the counterparty
	Phone   string `json:"phone" example:"03001234567" default:""`       // Phone number, at least 10 digits for borrowed/lent
	Email   string `json:"email" example:"ali@example.com" default:""`   // Email address
	Address string `json:"address" example:"12 Canal Road" default:""`   // Postal address
}

// Complete reports whether the details are sufficient for a lending record:
// a non-empty email and a phone number with at least 10 digits.
func (d CounterpartyDetails) Complete() bool {
	digits := 0
	for _, r := range d.Phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}

	return digits >= 10 && strings.TrimSpace(d.Email) != ""
}

// Transaction is a single record of the personal finance ledger.
type Transaction struct {
	DefaultModel
	Kind         Kind            `json:"kind" example:"expense"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"14.03"`
	Category     string          `json:"category" example:"Rent"`
	Medium       Medium          `json:"medium" example:"cash" default:"cash"`
	Description  string          `json:"description" example:"February rent" default:""`
	Date         time.Time       `json:"date" example:"2024-01-15T00:00:00Z"` // Origination date for borrowed/lent records
	DueDate      *time.Time      `json:"dueDate" example:"2024-03-01T00:00:00Z"`
	Status       Status          `json:"status" example:"pending" default:"pending"`
	Counterparty string          `json:"counterparty" example:"Ali Hassan" default:""`

	CounterpartyDetails CounterpartyDetails `json:"counterpartyDetails" gorm:"embedded;embeddedPrefix:counterparty_"`
}

func (t Transaction) Self() string {
	return "Transaction"
}

// Validate checks all write-time invariants of the record.
func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrKindInvalid
	}

	if !t.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if !t.Medium.Valid() {
		return ErrMediumInvalid
	}

	if !CategoryAllowed(t.Kind, t.Category) {
		return ErrCategoryInvalid
	}

	if t.Kind.IsLending() {
		if t.Status != "" && !t.Status.Valid() {
			return ErrStatusInvalid
		}

		if !t.CounterpartyDetails.Complete() {
			return ErrCounterpartyInfoMissing
		}
	}

	return nil
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
//
// We already store them in UTC, but somehow reading
// them from the database returns them as +0000.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	if t.DueDate != nil {
		due := t.DueDate.In(time.UTC)
		t.DueDate = &due
	}

	return
}

// BeforeSave
//   - validates the write-time invariants
//   - sets the timezone for the dates to UTC
//   - trims whitespace from string fields
//   - defaults the status of lending records to pending and clears fields
//     that are only meaningful for the lending subledger on other kinds
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	t.Category = strings.TrimSpace(t.Category)
	t.Description = strings.TrimSpace(t.Description)
	t.Counterparty = strings.TrimSpace(t.Counterparty)
	t.CounterpartyDetails.Phone = strings.TrimSpace(t.CounterpartyDetails.Phone)
	t.CounterpartyDetails.Email = strings.TrimSpace(t.CounterpartyDetails.Email)

	if t.Medium == "" {
		t.Medium = MediumCash
	}

	if t.Kind.IsLending() {
		if t.Status == "" {
			t.Status = StatusPending
		}

		if t.Counterparty == "" {
			t.Counterparty = strings.TrimSpace(t.CounterpartyDetails.Name)
		}
	} else {
		t.Status = ""
		t.DueDate = nil
		t.CounterpartyDetails = CounterpartyDetails{}
	}

	if err := t.Validate(); err != nil {
		return err
	}

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	if t.DueDate != nil {
		due := t.DueDate.In(time.UTC)
		t.DueDate = &due
	}

	return
}

// Export returns all transactions for export.
func (Transaction) Export() (json.RawMessage, error) {
	var transactions []Transaction
	err := DB.Unscoped().Find(&transactions).Error
	if err != nil {
		return json.RawMessage{}, err
	}

	j, err := json.Marshal(&transactions)
	if err != nil {
		return json.RawMessage{}, err
	}

	return json.RawMessage(j), nil
}
