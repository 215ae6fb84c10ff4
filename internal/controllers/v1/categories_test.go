package v1_test

import (
	"net/http"

	v1 "github.com/ledgerline/backend/internal/controllers/v1"
	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCategoriesOptions verifies the allowed methods for the taxonomy
// endpoint. Categories are fixed, so there is no POST.
func (suite *TestSuiteStandard) TestCategoriesOptions() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/categories", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), "GET", r.Header().Get("allow"))
}

// TestCategoriesGet verifies the full taxonomy response.
func (suite *TestSuiteStandard) TestCategoriesGet() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/categories", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var res v1.CategoryListResponse
	test.DecodeResponse(suite.T(), &r, &res)

	require.Len(suite.T(), res.Data, 4)
	assert.Equal(suite.T(), models.KindIncome, res.Data[0].Kind)
	assert.Contains(suite.T(), res.Data[0].Categories, "Salary")
	assert.Equal(suite.T(), models.KindExpense, res.Data[1].Kind)
	assert.Contains(suite.T(), res.Data[1].Categories, "Rent")
}

// TestCategoriesGetKind verifies limiting the taxonomy to a single kind.
func (suite *TestSuiteStandard) TestCategoriesGetKind() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/categories?kind=lent", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var res v1.CategoryListResponse
	test.DecodeResponse(suite.T(), &r, &res)

	require.Len(suite.T(), res.Data, 1)
	assert.Equal(suite.T(), models.KindLent, res.Data[0].Kind)
	assert.Contains(suite.T(), res.Data[0].Categories, "Personal")
}

// TestCategoriesGetInvalidKind verifies that an unknown kind is rejected.
func (suite *TestSuiteStandard) TestCategoriesGetInvalidKind() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/categories?kind=donation", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
