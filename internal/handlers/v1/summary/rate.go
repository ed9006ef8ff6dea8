package summary

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/service"
)

type RateInput struct {
	From string `query:"from" doc:"Source currency, defaults to the first base currency"`
	To   string `query:"to" doc:"Target currency, defaults to the second base currency"`
	AsOf string `query:"asOf" doc:"RFC3339 time; the nearest recorded rate is used instead of the latest"`
}

type Rate struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Rate   string `json:"rate" doc:"Units of from per unit of to, 0 when unknown"`
	Found  bool   `json:"found"`
	Source string `json:"sourceTransactionID,omitempty" doc:"Transaction the rate was read from"`
	Date   string `json:"sourceDate,omitempty"`
}

type RateOutput struct {
	Body Rate
}

type rateReader interface {
	ExchangeRate(ctx context.Context, from, to string, asOf *time.Time) (*service.RateQuote, error)
}

// RateHandler handles GET /v1/rate.
type RateHandler struct {
	SummaryService rateReader
}

func NewRateHandler(svc rateReader) *RateHandler {
	return &RateHandler{SummaryService: svc}
}

func (h *RateHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-rate",
		Method:      http.MethodGet,
		Path:        "/v1/rate",
		Summary:     "Exchange rate",
		Description: "Reads an exchange rate from recorded two-currency transactions.",
		Tags:        []string{"Summary"},
	}, h.handle)
}

func (h *RateHandler) handle(ctx context.Context, input *RateInput) (*RateOutput, error) {
	asOf, err := apierror.ParseTime("asOf", input.AsOf)
	if err != nil {
		return nil, err
	}
	quote, err := h.SummaryService.ExchangeRate(ctx, input.From, input.To, asOf)
	if err != nil {
		return nil, apierror.From(err, "failed to read rate")
	}

	out := &RateOutput{Body: Rate{
		From:  quote.From,
		To:    quote.To,
		Rate:  quote.Rate.String(),
		Found: quote.Found,
	}}
	if quote.Source != nil {
		out.Body.Source = quote.Source.ID.String()
		out.Body.Date = quote.Source.Date.Format(time.RFC3339)
	}
	return out, nil
}
