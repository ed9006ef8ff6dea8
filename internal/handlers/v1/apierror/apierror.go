// Package apierror maps ledger, service and bank feed errors onto Huma
// status errors.
package apierror

import (
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-ledger/internal/bankfeed"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/service"
)

// From returns a huma.StatusError for err. msg is used for unexpected
// failures, which are reported as 500.
func From(err error, msg string) error {
	var statusErr huma.StatusError
	if errors.As(err, &statusErr) {
		return err
	}

	var rateLimit *bankfeed.RateLimitError
	switch {
	case ledger.IsValidation(err), errors.Is(err, service.ErrInvalidWindow):
		return huma.NewError(http.StatusBadRequest, err.Error())
	case ledger.IsNotFound(err):
		return huma.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrDuplicateCategory), errors.Is(err, service.ErrImportInProgress):
		return huma.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrBankFeedDisabled):
		return huma.NewError(http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &rateLimit):
		return huma.NewError(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, bankfeed.ErrTimeout):
		return huma.NewError(http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, bankfeed.ErrUnauthorized):
		return huma.NewError(http.StatusBadGateway, err.Error())
	}

	var upstream *bankfeed.StatusError
	if errors.As(err, &upstream) {
		return huma.NewError(http.StatusBadGateway, err.Error())
	}
	return huma.NewError(http.StatusInternalServerError, msg, err)
}

// BadRequest wraps a request parsing failure.
func BadRequest(msg string, err error) error {
	return huma.NewError(http.StatusBadRequest, msg, err)
}

// ParseTime parses an optional RFC3339 timestamp. Blank input yields nil.
func ParseTime(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, BadRequest("invalid "+field, err)
	}
	return &t, nil
}
