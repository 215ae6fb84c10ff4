package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	v1 "github.com/ledgerline/backend/internal/controllers/v1"
	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTransaction creates a test transaction via the v1 API.
func createTestTransaction(t *testing.T, transaction v1.TransactionEditable, expectedStatus ...int) v1.TransactionResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	reqBody := []v1.TransactionEditable{transaction}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions", reqBody)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var tr v1.TransactionCreateResponse
	test.DecodeResponse(t, &r, &tr)

	return tr.Data[0]
}

// testExpense returns an expense that passes validation.
func testExpense() v1.TransactionEditable {
	return v1.TransactionEditable{
		Kind:     models.KindExpense,
		Amount:   decimal.NewFromInt(3000),
		Category: "Rent",
		Date:     time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	}
}

// testLent returns a lent transaction that passes validation.
func testLent() v1.TransactionEditable {
	return v1.TransactionEditable{
		Kind:     models.KindLent,
		Amount:   decimal.NewFromInt(2000),
		Category: "Personal",
		Date:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		CounterpartyDetails: models.CounterpartyDetails{
			Name:  "Bilal",
			Phone: "03001234567",
			Email: "bilal@example.com",
		},
	}
}

// TestTransactionsOptions verifies that the HTTP OPTIONS response for /transactions/{id} is correct.
func (suite *TestSuiteStandard) TestTransactionsOptions() {
	tests := []struct {
		name     string        // Name for the test
		status   int           // Expected HTTP status
		id       string        // String to use as ID. Ignored when pathFunc is non-nil
		pathFunc func() string // Function returning the path
	}{
		{
			"Does not exist",
			http.StatusNotFound,
			uuid.New().String(),
			nil,
		},
		{
			"Invalid UUID",
			http.StatusBadRequest,
			"NotParseableAsUUID",
			nil,
		},
		{
			"Success",
			http.StatusNoContent,
			"",
			func() string {
				return createTestTransaction(suite.T(), testExpense()).Data.Links.Self
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var p string
			if tt.pathFunc != nil {
				p = tt.pathFunc()
			} else {
				p = fmt.Sprintf("%s/%s", "http://example.com/v1/transactions", tt.id)
			}

			r := test.Request(t, http.MethodOptions, p, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestTransactionsCreate verifies the defaults that are set on creation.
func (suite *TestSuiteStandard) TestTransactionsCreate() {
	tr := createTestTransaction(suite.T(), testExpense())
	require.NotNil(suite.T(), tr.Data)

	assert.Equal(suite.T(), models.KindExpense, tr.Data.Kind)
	assert.Equal(suite.T(), models.MediumCash, tr.Data.Medium, "medium must default to cash")
	assert.NotEqual(suite.T(), uuid.Nil, tr.Data.ID, "id must be set")
	assert.Empty(suite.T(), tr.Data.Status, "status must be empty for non-lending records")
}

// TestTransactionsCreateLending verifies the lending specific defaults.
func (suite *TestSuiteStandard) TestTransactionsCreateLending() {
	tr := createTestTransaction(suite.T(), testLent())
	require.NotNil(suite.T(), tr.Data)

	assert.Equal(suite.T(), models.StatusPending, tr.Data.Status, "status must default to pending")
	assert.Equal(suite.T(), "Bilal", tr.Data.Counterparty, "counterparty must default to the contact name")
}

// TestTransactionsCreateInvalid verifies that invalid records are rejected
// and never created.
func (suite *TestSuiteStandard) TestTransactionsCreateInvalid() {
	tests := []struct {
		name        string
		transaction v1.TransactionEditable
	}{
		{"Zero amount", v1.TransactionEditable{Kind: models.KindExpense, Category: "Rent"}},
		{"Negative amount", v1.TransactionEditable{Kind: models.KindExpense, Amount: decimal.NewFromInt(-10), Category: "Rent"}},
		{"Invalid kind", v1.TransactionEditable{Kind: "donation", Amount: decimal.NewFromInt(10), Category: "Other"}},
		{"Category not in taxonomy", v1.TransactionEditable{Kind: models.KindExpense, Amount: decimal.NewFromInt(10), Category: "Salary"}},
		{"Lending without counterparty details", v1.TransactionEditable{Kind: models.KindLent, Amount: decimal.NewFromInt(10), Category: "Personal"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			tr := createTestTransaction(t, tt.transaction, http.StatusBadRequest)
			assert.NotNil(t, tr.Error)

			var l v1.TransactionListResponse
			r := test.Request(t, http.MethodGet, "http://example.com/v1/transactions", "")
			test.DecodeResponse(t, &r, &l)
			assert.Len(t, l.Data, 0, "invalid record must not be created")
		})
	}
}

// TestTransactionsGetFilter verifies filtering and the aggregate fields of
// the list response.
func (suite *TestSuiteStandard) TestTransactionsGetFilter() {
	createTestTransaction(suite.T(), v1.TransactionEditable{
		Kind:     models.KindIncome,
		Amount:   decimal.NewFromInt(10000),
		Category: "Salary",
		Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	createTestTransaction(suite.T(), testExpense())
	createTestTransaction(suite.T(), testLent())

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"No filter", "", 3},
		{"Kind", "kind=expense", 1},
		{"Kind all", "kind=all", 3},
		{"Category", "category=Salary", 1},
		{"Search description and counterparty", "search=bil", 1},
		{"Year without matches", "year=2023", 0},
		{"Date range", "fromDate=2024-01-15&untilDate=2024-01-20", 2},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=2&limit=-1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var l v1.TransactionListResponse
			test.DecodeResponse(t, &r, &l)
			assert.Len(t, l.Data, tt.count)
		})
	}
}

// TestTransactionsListAggregates verifies that the list response reports
// totals and net worth for the full matching set, not only the page.
func (suite *TestSuiteStandard) TestTransactionsListAggregates() {
	createTestTransaction(suite.T(), v1.TransactionEditable{
		Kind:     models.KindIncome,
		Amount:   decimal.NewFromInt(10000),
		Category: "Salary",
		Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	createTestTransaction(suite.T(), testExpense())

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions?limit=1", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var l v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &l)

	assert.Len(suite.T(), l.Data, 1)
	require.NotNil(suite.T(), l.Totals)
	require.NotNil(suite.T(), l.NetWorth)
	assert.True(suite.T(), l.Totals.Income.Equal(decimal.NewFromInt(10000)), l.Totals.Income)
	assert.True(suite.T(), l.NetWorth.Equal(decimal.NewFromInt(7000)), l.NetWorth)
	assert.Equal(suite.T(), 2, l.Pagination.Total)
}

// TestTransactionsGetPaginationBounds verifies that offsets and limits
// beyond the number of matching transactions return an empty page.
func (suite *TestSuiteStandard) TestTransactionsGetPaginationBounds() {
	createTestTransaction(suite.T(), testExpense())

	tests := []struct {
		name  string
		query string
	}{
		{"Offset beyond matches", "offset=100"},
		{"Offset wrapping the int range", "offset=18446744073709551615"},
		{"Offset with maximum limit", "offset=1&limit=9223372036854775807"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var l v1.TransactionListResponse
			test.DecodeResponse(t, &r, &l)
			assert.Len(t, l.Data, 0)
			assert.Equal(t, 1, l.Pagination.Total)
		})
	}
}

// TestTransactionsGetSingle verifies reading a single transaction.
func (suite *TestSuiteStandard) TestTransactionsGetSingle() {
	tr := createTestTransaction(suite.T(), testExpense())

	r := test.Request(suite.T(), http.MethodGet, tr.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var got v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &got)
	assert.Equal(suite.T(), tr.Data.ID, got.Data.ID)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions/NotParseableAsUUID", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

// TestTransactionsUpdate verifies that PATCH only changes the submitted
// fields and revalidates the record.
func (suite *TestSuiteStandard) TestTransactionsUpdate() {
	tr := createTestTransaction(suite.T(), testExpense())

	r := test.Request(suite.T(), http.MethodPatch, tr.Data.Links.Self, map[string]any{
		"description": "February rent",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Equal(suite.T(), "February rent", updated.Data.Description)
	assert.True(suite.T(), updated.Data.Amount.Equal(decimal.NewFromInt(3000)), "amount must be unchanged")
}

// TestTransactionsUpdateKindImmutable verifies that the kind of a record
// cannot be changed.
func (suite *TestSuiteStandard) TestTransactionsUpdateKindImmutable() {
	tr := createTestTransaction(suite.T(), testExpense())

	r := test.Request(suite.T(), http.MethodPatch, tr.Data.Links.Self, map[string]any{
		"kind": "income",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

// TestTransactionsUpdateStatus verifies settling a lending record.
func (suite *TestSuiteStandard) TestTransactionsUpdateStatus() {
	tr := createTestTransaction(suite.T(), testLent())

	r := test.Request(suite.T(), http.MethodPatch, tr.Data.Links.Self, map[string]any{
		"status": "paid",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Equal(suite.T(), models.StatusPaid, updated.Data.Status)
}

// TestTransactionsUpdateInvalidBody verifies the error responses for broken
// request bodies.
func (suite *TestSuiteStandard) TestTransactionsUpdateInvalidBody() {
	tr := createTestTransaction(suite.T(), testExpense())

	r := test.Request(suite.T(), http.MethodPatch, tr.Data.Links.Self, `{ "description": }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodPatch, tr.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

// TestTransactionsDelete verifies deletion. Deleting twice must return 404.
func (suite *TestSuiteStandard) TestTransactionsDelete() {
	tr := createTestTransaction(suite.T(), testExpense())

	r := test.Request(suite.T(), http.MethodDelete, tr.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodDelete, tr.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// testLentDue returns a pending lent transaction with a due date, so that a
// payment reminder is applicable.
func testLentDue() v1.TransactionEditable {
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	lent := testLent()
	lent.DueDate = &due
	return lent
}

// TestTransactionsNotify verifies that creating a pending lending record
// with a due date and the notify parameter dispatches a payment reminder.
func (suite *TestSuiteStandard) TestTransactionsNotify() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions?notify=email", []v1.TransactionEditable{testLentDue()})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	require.Len(suite.T(), suite.reminders.Messages, 1)
	assert.Equal(suite.T(), []string{"bilal@example.com"}, suite.reminders.Messages[0].Contacts)
	assert.Equal(suite.T(), "Payment reminder", suite.reminders.Messages[0].Subject)
	assert.Contains(suite.T(), suite.reminders.Messages[0].Body, "due 2024-02-01")
}

// TestTransactionsNotifyWhatsApp verifies the whatsapp channel uses the
// phone number of the counterparty.
func (suite *TestSuiteStandard) TestTransactionsNotifyWhatsApp() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions?notify=whatsapp", []v1.TransactionEditable{testLentDue()})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	require.Len(suite.T(), suite.reminders.Messages, 1)
	assert.Equal(suite.T(), []string{"03001234567"}, suite.reminders.Messages[0].Contacts)
}

// TestTransactionsNotifyNotApplicable verifies that no reminder is sent for
// records that are already settled or have no due date.
func (suite *TestSuiteStandard) TestTransactionsNotifyNotApplicable() {
	paid := testLentDue()
	paid.Status = models.StatusPaid

	tests := []struct {
		name        string
		transaction v1.TransactionEditable
	}{
		{"Already settled", paid},
		{"No due date", testLent()},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions?notify=email", []v1.TransactionEditable{tt.transaction})
			test.AssertHTTPStatus(t, &r, http.StatusCreated)

			assert.Empty(t, suite.reminders.Messages)
		})
	}
}

// TestTransactionsNotifyInvalidChannel verifies that an unknown channel is
// rejected before any record is created.
func (suite *TestSuiteStandard) TestTransactionsNotifyInvalidChannel() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions?notify=carrier-pigeon", []v1.TransactionEditable{testLent()})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	assert.Empty(suite.T(), suite.reminders.Messages)

	var l v1.TransactionListResponse
	lr := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions", "")
	test.DecodeResponse(suite.T(), &lr, &l)
	assert.Len(suite.T(), l.Data, 0)
}

// TestTransactionsNotifyNonLending verifies that no reminder is sent for
// income and expense records.
func (suite *TestSuiteStandard) TestTransactionsNotifyNonLending() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions?notify=email", []v1.TransactionEditable{testExpense()})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	assert.Empty(suite.T(), suite.reminders.Messages)
}
