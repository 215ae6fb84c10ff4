package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/backend/internal/analytics"
	"github.com/ledgerline/backend/internal/httputil"
	"github.com/ledgerline/backend/internal/ledger"
	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/notifications"
	"github.com/ledgerline/backend/internal/query"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactions)
		r.GET("", GetTransactions)
		r.POST("", CreateTransactions)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.PATCH("/:id", UpdateTransaction)
		r.DELETE("/:id", DeleteTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactions(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: httputil.ErrInvalidUUID.Error(),
		})
		return
	}

	_, err = ledger.Default.Get(uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{
			Error: &e,
		})
		return
	}

	transaction, err := ledger.Default.Get(uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Get transactions
// @Description	Returns a list of transactions together with the totals and net worth of all matching transactions
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	TransactionListResponse
// @Router			/v1/transactions [get]
// @Param			search		query	string	false	"Case-insensitive substring match on description, category and counterparty"
// @Param			kind		query	string	false	"Kind of the transaction, or 'all'"
// @Param			category	query	string	false	"Category of the transaction, or 'all'"
// @Param			medium		query	string	false	"Payment medium, or 'all'"
// @Param			fromDate	query	string	false	"Transactions at and after this day, format YYYY-MM-DD"
// @Param			untilDate	query	string	false	"Transactions before and at this day, format YYYY-MM-DD"
// @Param			year		query	int		false	"Transactions within this calendar year. Takes precedence over fromDate and untilDate"
// @Param			offset		query	uint	false	"The offset of the first Transaction returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Transactions to return. Defaults to 50. -1 returns all."
func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{
			Error: &s,
		})
		return
	}

	if err := filter.validate(); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{
			Error: &s,
		})
		return
	}

	records := ledger.Default.All()

	// Newest first, ties broken by creation time
	slices.SortStableFunc(records, func(a, b models.Transaction) int {
		if cmp := b.Date.Compare(a.Date); cmp != 0 {
			return cmp
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	matching := query.Apply(records, filter.filter())

	// Totals and net worth always cover the full matching set, not only the
	// page that is returned
	totals := analytics.ComputeTotals(matching)
	netWorth := analytics.NetWorth(totals)

	// The conversion wraps for offsets beyond the int range, which must end
	// up as an empty page, not a slice bounds panic
	offset := int(filter.Offset)
	if offset < 0 || offset > len(matching) {
		offset = len(matching)
	}

	end := len(matching)
	if filter.Limit >= 0 && filter.Limit < end-offset {
		end = offset + filter.Limit
	}

	data := make([]Transaction, 0, end-offset)
	for _, transaction := range matching[offset:end] {
		data = append(data, newTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data:     data,
		Totals:   &totals,
		NetWorth: &netWorth,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  len(matching),
			Offset: filter.Offset,
			Limit:  filter.Limit,
		},
	})
}

// @Summary		Create transactions
// @Description	Creates transactions from the list of submitted transaction data. The response code is the highest response code number that a single transaction creation would have caused. If it is not equal to 201, at least one transaction has an error.
// @Tags			Transactions
// @Produce		json
// @Success		201				{object}	TransactionCreateResponse
// @Failure		400				{object}	TransactionCreateResponse
// @Failure		500				{object}	TransactionCreateResponse
// @Param			transactions	body		[]TransactionEditable	true	"Transactions"
// @Param			notify			query		string					false	"Send a payment reminder for created borrowed and lent transactions. One of 'email', 'whatsapp'"
// @Router			/v1/transactions [post]
func CreateTransactions(c *gin.Context) {
	channel, notify, err := notifyChannel(c)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionCreateResponse{
			Error: &e,
		})
		return
	}

	var editables []TransactionEditable

	// Bind data and return error if not possible
	err = httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	responseStatus := http.StatusCreated
	r := TransactionCreateResponse{}

	for _, editable := range editables {
		transaction, err := ledger.Default.Create(editable.model())
		if err != nil {
			responseStatus = r.appendError(err, responseStatus)
			continue
		}

		if notify {
			sendReminder(c, transaction, channel)
		}

		data := newTransaction(c, transaction)
		r.Data = append(r.Data, TransactionResponse{Data: &data})
	}

	c.JSON(responseStatus, r)
}

// @Summary		Update transaction
// @Description	Updates an existing transaction. Only values to be updated need to be specified. The kind cannot be changed.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Param			notify		query		string				false	"Send a payment reminder for the updated transaction if it is borrowed or lent. One of 'email', 'whatsapp'"
// @Router			/v1/transactions/{id} [patch]
func UpdateTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{
			Error: &e,
		})
		return
	}

	channel, notify, err := notifyChannel(c)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{
			Error: &e,
		})
		return
	}

	current, err := ledger.Default.Get(uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	// Bind over the current values so that fields that are not part of the
	// request body keep their value
	update := newTransactionEditable(current)
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	transaction, err := ledger.Default.Update(uri.ID.UUID, update.model())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &e,
		})
		return
	}

	if notify {
		sendReminder(c, transaction, channel)
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Delete transaction
// @Description	Deletes a transaction
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [delete]
func DeleteTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: httputil.ErrInvalidUUID.Error(),
		})
		return
	}

	err = ledger.Default.Delete(uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// notifyChannel parses the "notify" query parameter. The second return value
// reports whether a reminder was requested at all.
func notifyChannel(c *gin.Context) (notifications.Channel, bool, error) {
	param := c.Query("notify")
	if param == "" {
		return "", false, nil
	}

	channel := notifications.Channel(param)
	if !channel.Valid() {
		return "", false, errNotificationChannelInvalid
	}

	return channel, true, nil
}

// sendReminder dispatches a payment reminder to the contact matching the
// requested channel. Only pending lending records with a due date get a
// reminder, everything else is silently skipped.
func sendReminder(c *gin.Context, transaction models.Transaction, channel notifications.Channel) {
	if !transaction.Kind.IsLending() || transaction.Status != models.StatusPending || transaction.DueDate == nil {
		return
	}

	var contact string
	switch channel {
	case notifications.ChannelEmail:
		contact = transaction.CounterpartyDetails.Email
	case notifications.ChannelWhatsApp:
		contact = transaction.CounterpartyDetails.Phone
	}

	body := fmt.Sprintf("%s: %s, %s, due %s",
		transaction.Kind, transaction.Amount, transaction.Counterparty,
		transaction.DueDate.Format("2006-01-02"))

	notifications.Dispatch(c.Request.Context(), notifications.Message{
		Contacts: []string{contact},
		Subject:  "Payment reminder",
		Body:     body,
		Channel:  channel,
	})
}
