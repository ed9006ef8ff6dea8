package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/service"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	Date               string `json:"date,omitempty" format:"date-time" doc:"RFC3339 transaction date, defaults to now"`
	Category           string `json:"category" required:"true" minLength:"1" doc:"Category label"`
	FirstAmount        string `json:"firstAmount" required:"true" doc:"Decimal amount"`
	FirstCurrencyCode  string `json:"firstCurrencyCode,omitempty" doc:"Currency of firstAmount, defaults to the first base currency"`
	SecondAmount       string `json:"secondAmount,omitempty" doc:"Decimal amount in the second currency; inferred from history when blank or 0"`
	SecondCurrencyCode string `json:"secondCurrencyCode,omitempty" doc:"Currency of secondAmount, required with a nonzero secondAmount"`
	Comment            string `json:"comment,omitempty" doc:"Free-form comment"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionResponse is the response body for creating a transaction.
type CreateTransactionResponse struct {
	Transaction Transaction `json:"transaction"`
	Inferred    bool        `json:"inferred" doc:"Whether the second amount was derived from a recorded rate"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Body CreateTransactionResponse
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	CreateTransaction(ctx context.Context, in service.TransactionInput) (*ledger.Transaction, bool, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Creates a transaction. A missing second amount is inferred from the nearest recorded rate.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput parses and validates the API input.
func parseCreateTransactionInput(input *CreateTransactionInput) (service.TransactionInput, error) {
	body := input.Body
	firstAmount, err := ledger.ParseAmount(body.FirstAmount)
	if err != nil {
		return service.TransactionInput{}, apierror.BadRequest("invalid firstAmount", err)
	}
	secondAmount, _, err := ledger.ParseOptionalAmount(body.SecondAmount)
	if err != nil {
		return service.TransactionInput{}, apierror.BadRequest("invalid secondAmount", err)
	}

	var date time.Time
	if body.Date != "" {
		date, err = time.Parse(time.RFC3339, body.Date)
		if err != nil {
			return service.TransactionInput{}, apierror.BadRequest("invalid date", err)
		}
	}

	return service.TransactionInput{
		Date:               date,
		Category:           body.Category,
		FirstAmount:        firstAmount,
		FirstCurrencyCode:  body.FirstCurrencyCode,
		SecondAmount:       secondAmount,
		SecondCurrencyCode: body.SecondCurrencyCode,
		Comment:            body.Comment,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	in, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.Timing(ctx, "createTransactionMs")
	tx, inferred, err := h.TransactionService.CreateTransaction(ctx, in)
	stopTimer()
	if err != nil {
		return nil, apierror.From(err, "failed to create transaction")
	}
	logging.AddData(ctx, "transactionID", tx.ID.String())

	return &CreateTransactionOutput{Body: CreateTransactionResponse{
		Transaction: fromLedger(tx),
		Inferred:    inferred,
	}}, nil
}
