package v1

import (
	"errors"
	"net/http"

	"github.com/ledgerline/backend/internal/ledger"
	"github.com/ledgerline/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"there is no transaction matching your query"`
}

// status returns the appropriate HTTP status for an error
func status(err error) int {
	var persistence *ledger.PersistenceError
	if errors.Is(err, models.ErrGeneral) || errors.As(err, &persistence) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, ledger.ErrNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var (
	errNotificationChannelInvalid = errors.New(`the notify parameter must be one of "email" or "whatsapp"`)
	errTrendMonthsInvalid         = errors.New("the months parameter must be between 1 and 24")
	errExportFormatInvalid        = errors.New(`the format parameter must be one of "json" or "csv"`)
)
