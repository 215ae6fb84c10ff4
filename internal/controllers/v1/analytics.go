package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/backend/internal/analytics"
	"github.com/ledgerline/backend/internal/httputil"
	"github.com/ledgerline/backend/internal/ledger"
	"github.com/ledgerline/backend/internal/lending"
	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/query"
	"github.com/shopspring/decimal"
)

// RegisterAnalyticsRoutes registers the routes for analytics with the
// RouterGroup that is passed.
func RegisterAnalyticsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/summary", OptionsAnalyticsSummary)
	r.GET("/summary", GetAnalyticsSummary)

	r.OPTIONS("/categories", OptionsAnalyticsCategories)
	r.GET("/categories", GetAnalyticsCategories)

	r.OPTIONS("/trend", OptionsAnalyticsTrend)
	r.GET("/trend", GetAnalyticsTrend)
}

// Summary is the aggregated view over a (possibly filtered) record set.
type Summary struct {
	Totals              analytics.Totals `json:"totals"`                           // Sums and counts per kind
	NetWorth            decimal.Decimal  `json:"netWorth" example:"9000"`          // income - expenses + lent - borrowed
	AverageDailyIncome  decimal.Decimal  `json:"averageDailyIncome" example:"100"` // Income divided by days elapsed in the current month
	AverageDailyExpense decimal.Decimal  `json:"averageDailyExpense" example:"30"` // Expenses divided by days elapsed in the current month
	OverdueCount        int              `json:"overdueCount" example:"1"`         // Number of unpaid lending records past their due date
}

type SummaryResponse struct {
	Data  *Summary `json:"data"`                                          // The summary
	Error *string  `json:"error" example:"the specified kind is invalid"` // The error, if any occurred
}

type CategorySumListResponse struct {
	Data  []analytics.CategorySum `json:"data"`                                          // Per-category sums, largest first
	Error *string                 `json:"error" example:"the specified kind is invalid"` // The error, if any occurred
}

type TrendResponse struct {
	Data  []analytics.TrendEntry `json:"data"`                                                           // One entry per month, oldest first
	Error *string                `json:"error" example:"the months parameter must be between 1 and 24"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Analytics
// @Success		204
// @Router			/v1/analytics/summary [options]
func OptionsAnalyticsSummary(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Analytics
// @Success		204
// @Router			/v1/analytics/categories [options]
func OptionsAnalyticsCategories(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Analytics
// @Success		204
// @Router			/v1/analytics/trend [options]
func OptionsAnalyticsTrend(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get summary
// @Description	Returns totals, net worth, average daily income and expenses and the overdue count. Supports the same filter parameters as the transaction list.
// @Tags			Analytics
// @Produce		json
// @Success		200	{object}	SummaryResponse
// @Failure		400	{object}	SummaryResponse
// @Param			search		query	string	false	"Case-insensitive substring match on description, category and counterparty"
// @Param			kind		query	string	false	"Kind of the transaction, or 'all'"
// @Param			category	query	string	false	"Category of the transaction, or 'all'"
// @Param			medium		query	string	false	"Payment medium, or 'all'"
// @Param			fromDate	query	string	false	"Transactions at and after this day, format YYYY-MM-DD"
// @Param			untilDate	query	string	false	"Transactions before and at this day, format YYYY-MM-DD"
// @Param			year		query	int		false	"Transactions within this calendar year"
// @Router			/v1/analytics/summary [get]
func GetAnalyticsSummary(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, SummaryResponse{
			Error: &s,
		})
		return
	}

	if err := filter.validate(); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, SummaryResponse{
			Error: &s,
		})
		return
	}

	now := time.Now().In(time.UTC)
	matching := query.Apply(ledger.Default.All(), filter.filter())
	totals := analytics.ComputeTotals(matching)

	c.JSON(http.StatusOK, SummaryResponse{
		Data: &Summary{
			Totals:              totals,
			NetWorth:            analytics.NetWorth(totals),
			AverageDailyIncome:  analytics.AverageDaily(matching, models.KindIncome, now),
			AverageDailyExpense: analytics.AverageDaily(matching, models.KindExpense, now),
			OverdueCount:        lending.OverdueCount(matching, now),
		},
	})
}

// @Summary		Get category breakdown
// @Description	Returns per-category sums and percentages for one transaction kind, largest sum first
// @Tags			Analytics
// @Produce		json
// @Success		200		{object}	CategorySumListResponse
// @Failure		400		{object}	CategorySumListResponse
// @Param			kind	query		string	false	"The transaction kind to break down. Defaults to 'expense'"
// @Router			/v1/analytics/categories [get]
func GetAnalyticsCategories(c *gin.Context) {
	kind := models.Kind(c.DefaultQuery("kind", string(models.KindExpense)))
	if !kind.Valid() {
		e := models.ErrKindInvalid.Error()
		c.JSON(http.StatusBadRequest, CategorySumListResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, CategorySumListResponse{
		Data: analytics.ByCategory(ledger.Default.All(), kind),
	})
}

type trendQuery struct {
	Months int `form:"months,default=6"` // Number of months the trend covers, between 1 and 24
}

// @Summary		Get monthly trend
// @Description	Returns income, expenses and profit per calendar month for the requested number of months ending at the current month. Months without transactions are included with zero values.
// @Tags			Analytics
// @Produce		json
// @Success		200		{object}	TrendResponse
// @Failure		400		{object}	TrendResponse
// @Param			months	query		int	false	"Number of months, between 1 and 24. Defaults to 6"
// @Router			/v1/analytics/trend [get]
func GetAnalyticsTrend(c *gin.Context) {
	var q trendQuery
	if err := c.Bind(&q); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TrendResponse{
			Error: &s,
		})
		return
	}

	if q.Months < 1 || q.Months > 24 {
		e := errTrendMonthsInvalid.Error()
		c.JSON(http.StatusBadRequest, TrendResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, TrendResponse{
		Data: analytics.MonthlyTrend(ledger.Default.All(), q.Months, time.Now().In(time.UTC)),
	})
}
