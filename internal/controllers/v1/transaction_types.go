package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/backend/internal/analytics"
	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/query"
	"github.com/shopspring/decimal"
)

type TransactionEditable struct {
	Kind models.Kind `json:"kind" example:"expense"` // Kind of the transaction. Immutable after creation

	// The maximum value is "999999999999.99999999", swagger unfortunately rounds this.
	Amount decimal.Decimal `json:"amount" example:"14.03" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // The amount of the transaction

	Category     string          `json:"category" example:"Rent"`                        // Category, must be allowed for the kind
	Medium       models.Medium   `json:"medium" example:"cash" default:"cash"`           // Payment medium
	Description  string          `json:"description" example:"February rent" default:""` // A note
	Date         time.Time       `json:"date" example:"2024-01-15T00:00:00Z"`            // Date of the transaction. Origination date for borrowed and lent records
	DueDate      *time.Time      `json:"dueDate" example:"2024-03-01T00:00:00Z"`         // Expected settlement date, only for borrowed and lent records
	Status       models.Status   `json:"status" example:"pending" default:"pending"`     // Settlement status, only for borrowed and lent records
	Counterparty string          `json:"counterparty" example:"Ali Hassan" default:""`   // Name of the external party, only for borrowed and lent records

	CounterpartyDetails models.CounterpartyDetails `json:"counterpartyDetails"` // Contact details of the counterparty, required for borrowed and lent records
}

// model returns the ledger resource for the API representation of the editable fields
func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		Kind:                editable.Kind,
		Amount:              editable.Amount,
		Category:            editable.Category,
		Medium:              editable.Medium,
		Description:         editable.Description,
		Date:                editable.Date,
		DueDate:             editable.DueDate,
		Status:              editable.Status,
		Counterparty:        editable.Counterparty,
		CounterpartyDetails: editable.CounterpartyDetails,
	}
}

// newTransactionEditable returns the editable fields of an existing record.
// PATCH requests are bound over this so that fields that are not part of the
// request body keep their current value.
func newTransactionEditable(model models.Transaction) TransactionEditable {
	return TransactionEditable{
		Kind:                model.Kind,
		Amount:              model.Amount,
		Category:            model.Category,
		Medium:              model.Medium,
		Description:         model.Description,
		Date:                model.Date,
		DueDate:             model.DueDate,
		Status:              model.Status,
		Counterparty:        model.Counterparty,
		CounterpartyDetails: model.CounterpartyDetails,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
}

// Transaction is the representation of a Transaction in API v1.
type Transaction struct {
	models.DefaultModel
	TransactionEditable
	Links TransactionLinks `json:"links"`
}

// newTransaction returns the API v1 representation of the resource
func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel:        model.DefaultModel,
		TransactionEditable: newTransactionEditable(model),
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionListResponse struct {
	Data       []Transaction     `json:"data"`                                                          // List of transactions
	Totals     *analytics.Totals `json:"totals"`                                                        // Aggregated totals of all matching transactions
	NetWorth   *decimal.Decimal  `json:"netWorth" example:"9000"`                                       // Net worth of all matching transactions
	Error      *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination       `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []TransactionResponse `json:"data"`                                                          // List of created Transactions
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this transaction
	Data  *Transaction `json:"data"`                                                          // The Transaction data, if the request was successful
}

type TransactionQueryFilter struct {
	Search   string    `form:"search"`                                           // Case-insensitive substring match on description, category and counterparty
	Kind     string    `form:"kind"`                                             // Kind of the transaction, or "all"
	Category string    `form:"category"`                                         // Category of the transaction, or "all"
	Medium   string    `form:"medium"`                                           // Payment medium, or "all"
	FromDate time.Time `form:"fromDate" time_format:"2006-01-02" time_utc:"1"`   // Transactions at and after this day
	ToDate   time.Time `form:"untilDate" time_format:"2006-01-02" time_utc:"1"`  // Transactions before and at this day
	Year     int       `form:"year"`                                             // Transactions within this calendar year. Takes precedence over fromDate and untilDate
	Offset   uint      `form:"offset"`                                           // The offset of the first Transaction returned. Defaults to 0.
	Limit    int       `form:"limit,default=50"`                                 // Maximum number of Transactions to return. Defaults to 50. Set to -1 to return all.
}

// filter returns the in-memory filter for the query parameters.
func (f TransactionQueryFilter) filter() query.Filter {
	return query.Filter{
		Search:   f.Search,
		Kind:     f.Kind,
		Category: f.Category,
		Medium:   f.Medium,
		From:     f.FromDate,
		To:       f.ToDate,
		Year:     f.Year,
	}
}

// validate checks enum query parameters that would otherwise silently match
// nothing.
func (f TransactionQueryFilter) validate() error {
	if f.Kind != "" && f.Kind != query.All && !models.Kind(f.Kind).Valid() {
		return models.ErrKindInvalid
	}

	if f.Medium != "" && f.Medium != query.All && !models.Medium(f.Medium).Valid() {
		return models.ErrMediumInvalid
	}

	return nil
}
