package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Validation errors for transactions. Every message names the violated
// invariant since multiple invariants can fail on one submission.
var (
	ErrAmountNotPositive       = errors.New("the transaction amount must be greater than 0")
	ErrKindInvalid             = errors.New("the transaction kind must be one of income, expense, borrowed, lent")
	ErrMediumInvalid           = errors.New("the payment medium must be one of cash, mobile_wallet, bank, cheque, other")
	ErrStatusInvalid           = errors.New("the status must be one of pending, paid")
	ErrCategoryInvalid         = errors.New("the category is not allowed for the transaction kind")
	ErrCounterpartyInfoMissing = errors.New("borrowed and lent transactions need counterparty details with an email and a phone number of at least 10 digits")
)
