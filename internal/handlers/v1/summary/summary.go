package summary

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/service"
)

type SummaryBody struct {
	Category       string `json:"category,omitempty" doc:"Only aggregate this category; empty or All aggregates everything"`
	Currency       string `json:"currency,omitempty" doc:"Target currency, defaults to the first base currency"`
	From           string `json:"from,omitempty" format:"date-time" doc:"Inclusive lower bound on the transaction date"`
	To             string `json:"to,omitempty" format:"date-time" doc:"Exclusive upper bound on the transaction date"`
	Budget         string `json:"budget,omitempty" doc:"Overrides the stored budget"`
	InitialBalance string `json:"initialBalance,omitempty" doc:"Overrides the stored initial balance"`
}

type SummaryInput struct {
	Body SummaryBody
}

// Summary is the API model for ledger.Summary.
type Summary struct {
	Currency            string `json:"currency"`
	TransactionCount    int    `json:"transactionCount"`
	TotalExpenses       string `json:"totalExpenses"`
	TotalReplenishment  string `json:"totalReplenishment"`
	TotalToOtherAccount string `json:"totalToOtherAccount"`
	TotalIngested       string `json:"totalIngested"`
	ExpectedBalance     string `json:"expectedBalance" doc:"Budget minus expenses"`
	ActualBalance       string `json:"actualBalance" doc:"Initial balance plus replenishments minus expenses and transfers out"`
}

type SummaryOutput struct {
	Body Summary
}

type summarizer interface {
	Summarize(ctx context.Context, query service.SummaryQuery) (*ledger.Summary, error)
}

// Handler handles POST /v1/summary.
type Handler struct {
	SummaryService summarizer
}

func NewHandler(svc summarizer) *Handler {
	return &Handler{SummaryService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "summarize",
		Method:      http.MethodPost,
		Path:        "/v1/summary",
		Summary:     "Ledger summary",
		Description: "Returns totals and balances converted to one currency.",
		Tags:        []string{"Summary"},
	}, h.handle)
}

func optionalDecimal(field, value string) (*decimal.Decimal, error) {
	d, ok, err := ledger.ParseOptionalAmount(value)
	if err != nil {
		return nil, apierror.BadRequest("invalid "+field, err)
	}
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func parseSummaryInput(input *SummaryInput) (service.SummaryQuery, error) {
	query := service.SummaryQuery{
		Category: input.Body.Category,
		Currency: input.Body.Currency,
	}
	var err error
	if query.From, err = apierror.ParseTime("from", input.Body.From); err != nil {
		return query, err
	}
	if query.To, err = apierror.ParseTime("to", input.Body.To); err != nil {
		return query, err
	}
	if query.Budget, err = optionalDecimal("budget", input.Body.Budget); err != nil {
		return query, err
	}
	if query.InitialBalance, err = optionalDecimal("initialBalance", input.Body.InitialBalance); err != nil {
		return query, err
	}
	return query, nil
}

func (h *Handler) handle(ctx context.Context, input *SummaryInput) (*SummaryOutput, error) {
	query, err := parseSummaryInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.Timing(ctx, "summarizeMs")
	s, err := h.SummaryService.Summarize(ctx, query)
	stopTimer()
	if err != nil {
		return nil, apierror.From(err, "failed to summarize ledger")
	}
	logging.AddData(ctx, "transactionCount", s.TransactionCount)

	return &SummaryOutput{Body: Summary{
		Currency:            s.Currency,
		TransactionCount:    s.TransactionCount,
		TotalExpenses:       s.TotalExpenses.String(),
		TotalReplenishment:  s.TotalReplenishment.String(),
		TotalToOtherAccount: s.TotalToOtherAccount.String(),
		TotalIngested:       s.TotalIngested.String(),
		ExpectedBalance:     s.ExpectedBalance.String(),
		ActualBalance:       s.ActualBalance.String(),
	}}, nil
}
