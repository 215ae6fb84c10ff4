package v1

import (
	"encoding/json"
	"net/http"
	"reflect"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/backend/internal/export"
	"github.com/ledgerline/backend/internal/httputil"
	"github.com/ledgerline/backend/internal/ledger"
	"github.com/ledgerline/backend/internal/models"
	"github.com/ledgerline/backend/internal/query"
)

// RegisterReportRoutes registers the routes for report exports with the
// RouterGroup that is passed.
func RegisterReportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/export", OptionsReportExport)
	r.GET("/export", GetReportExport)

	r.OPTIONS("/backup", OptionsBackup)
	r.GET("/backup", GetBackup)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Router			/v1/reports/export [options]
func OptionsReportExport(c *gin.Context) {
	httputil.OptionsGet(c)
}

type exportQuery struct {
	TransactionQueryFilter
	Format string `form:"format,default=json"` // Export format, "json" or "csv"
	Months int    `form:"months,default=6"`    // Number of months the trend section covers, between 1 and 24
}

// @Summary		Export report
// @Description	Builds an aggregation report over the matching transactions and returns it as JSON or CSV. JSON exports parse back into the same report.
// @Tags			Reports
// @Produce		json
// @Produce		text/csv
// @Success		200		{object}	export.Report
// @Failure		400		{object}	httpError
// @Param			format	query		string	false	"Export format, 'json' or 'csv'. Defaults to 'json'"
// @Param			months	query		int		false	"Number of months the trend section covers, between 1 and 24. Defaults to 6"
// @Param			search		query	string	false	"Case-insensitive substring match on description, category and counterparty"
// @Param			kind		query	string	false	"Kind of the transaction, or 'all'"
// @Param			category	query	string	false	"Category of the transaction, or 'all'"
// @Param			medium		query	string	false	"Payment medium, or 'all'"
// @Param			fromDate	query	string	false	"Transactions at and after this day, format YYYY-MM-DD"
// @Param			untilDate	query	string	false	"Transactions before and at this day, format YYYY-MM-DD"
// @Param			year		query	int		false	"Transactions within this calendar year"
// @Router			/v1/reports/export [get]
func GetReportExport(c *gin.Context) {
	var q exportQuery
	if err := c.Bind(&q); err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: err.Error(),
		})
		return
	}

	if err := q.validate(); err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: err.Error(),
		})
		return
	}

	if q.Format != "json" && q.Format != "csv" {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errExportFormatInvalid.Error(),
		})
		return
	}

	if q.Months < 1 || q.Months > 24 {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errTrendMonthsInvalid.Error(),
		})
		return
	}

	matching := query.Apply(ledger.Default.All(), q.filter())
	report := export.Build(matching, q.Months, time.Now().In(time.UTC))

	if q.Format == "csv" {
		data, err := report.ToCSV()
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpError{
				Error: err.Error(),
			})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="ledger-report.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
		return
	}

	c.JSON(http.StatusOK, report)
}

type BackupResponse struct {
	Data         map[string]json.RawMessage `json:"data"`         // The exported raw data per resource
	CreationTime time.Time                  `json:"creationTime"` // Time the backup was created
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Router			/v1/reports/backup [options]
func OptionsBackup(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Backup
// @Description	Exports the raw data of all resources for the instance
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	BackupResponse
// @Failure		500	{object}	httpError
// @Router			/v1/reports/backup [get]
func GetBackup(c *gin.Context) {
	resources := make(map[string]json.RawMessage)

	for _, model := range models.Registry {
		b, err := model.Export()
		if err != nil {
			c.JSON(status(err), httpError{
				Error: err.Error(),
			})
			return
		}

		resources[reflect.TypeOf(model).Name()] = b
	}

	c.JSON(http.StatusOK, BackupResponse{
		Data:         resources,
		CreationTime: time.Now().In(time.UTC),
	})
}
