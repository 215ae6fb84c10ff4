package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/backend/internal/httputil"
	"github.com/ledgerline/backend/internal/ledger"
	"github.com/ledgerline/backend/internal/lending"
	"github.com/ledgerline/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterLendingRoutes registers the routes for the lending subledger with
// the RouterGroup that is passed.
func RegisterLendingRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsLending)
	r.GET("", GetLending)

	r.OPTIONS("/counterparties", OptionsLendingCounterparties)
	r.GET("/counterparties", GetLendingCounterparties)
}

// LendingRecord is a borrowed or lent transaction together with its derived
// settlement state.
type LendingRecord struct {
	Transaction
	State lending.State `json:"state" example:"overdue"` // Derived settlement state at the time of the request
}

// LendingSummary is the lending subledger view.
type LendingSummary struct {
	NetPosition  decimal.Decimal `json:"netPosition" example:"3000"` // Sum of lent minus sum of borrowed across all lending records
	OverdueCount int             `json:"overdueCount" example:"1"`   // Number of unpaid records past their due date
	Records      []LendingRecord `json:"records"`                    // All lending records with their derived state
}

type LendingResponse struct {
	Data  *LendingSummary `json:"data"`                                                          // The lending subledger
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CounterpartyListResponse struct {
	Data  []lending.CounterpartySummary `json:"data"`                                                          // Per-counterparty rollup
	Error *string                       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Lending
// @Success		204
// @Router			/v1/lending [options]
func OptionsLending(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Lending
// @Success		204
// @Router			/v1/lending/counterparties [options]
func OptionsLendingCounterparties(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get lending subledger
// @Description	Returns all borrowed and lent transactions with their derived settlement state, the net position and the overdue count
// @Tags			Lending
// @Produce		json
// @Success		200	{object}	LendingResponse
// @Router			/v1/lending [get]
func GetLending(c *gin.Context) {
	now := time.Now().In(time.UTC)

	var subledger []models.Transaction
	for _, transaction := range ledger.Default.All() {
		if transaction.Kind.IsLending() {
			subledger = append(subledger, transaction)
		}
	}

	// Newest first, same order as the transaction list
	slices.SortStableFunc(subledger, func(a, b models.Transaction) int {
		if cmp := b.Date.Compare(a.Date); cmp != 0 {
			return cmp
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	lendingRecords := make([]LendingRecord, 0, len(subledger))
	for _, transaction := range subledger {
		lendingRecords = append(lendingRecords, LendingRecord{
			Transaction: newTransaction(c, transaction),
			State:       lending.Classify(transaction, now),
		})
	}

	c.JSON(http.StatusOK, LendingResponse{
		Data: &LendingSummary{
			NetPosition:  lending.NetPosition(subledger),
			OverdueCount: lending.OverdueCount(subledger, now),
			Records:      lendingRecords,
		},
	})
}

// @Summary		Get counterparties
// @Description	Returns the per-counterparty rollup of the lending subledger, sorted by counterparty name
// @Tags			Lending
// @Produce		json
// @Success		200	{object}	CounterpartyListResponse
// @Router			/v1/lending/counterparties [get]
func GetLendingCounterparties(c *gin.Context) {
	now := time.Now().In(time.UTC)

	c.JSON(http.StatusOK, CounterpartyListResponse{
		Data: lending.Counterparties(ledger.Default.All(), now),
	})
}
