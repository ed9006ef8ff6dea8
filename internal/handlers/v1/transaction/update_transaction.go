package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/service"
)

// UpdateTransactionBody lists the fields to change. Absent fields are kept.
// A secondAmount of "0" asks for the second pair to be inferred again.
type UpdateTransactionBody struct {
	Date               *string `json:"date,omitempty" format:"date-time" doc:"RFC3339 transaction date"`
	Category           *string `json:"category,omitempty" doc:"Category label"`
	FirstAmount        *string `json:"firstAmount,omitempty" doc:"Decimal amount"`
	FirstCurrencyCode  *string `json:"firstCurrencyCode,omitempty" doc:"Currency of firstAmount"`
	SecondAmount       *string `json:"secondAmount,omitempty" doc:"Decimal amount in the second currency"`
	SecondCurrencyCode *string `json:"secondCurrencyCode,omitempty" doc:"Currency of secondAmount"`
	Comment            *string `json:"comment,omitempty" doc:"Free-form comment"`
}

type UpdateTransactionInput struct {
	TransactionIDPath
	Body UpdateTransactionBody
}

type UpdateTransactionOutput struct {
	Body CreateTransactionResponse
}

type transactionUpdater interface {
	UpdateTransaction(ctx context.Context, id uuid.UUID, in service.TransactionUpdate) (*ledger.Transaction, bool, error)
}

// UpdateTransactionHandler handles PUT /v1/transaction/{id}.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
}

func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPut,
		Path:        "/v1/transaction/{id}",
		Summary:     "Update transaction",
		Description: "Changes the given fields of a transaction.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func optionalString(v *string) omit.Val[string] {
	if v == nil {
		return omit.Val[string]{}
	}
	return omit.From(*v)
}

func parseUpdateTransactionInput(input *UpdateTransactionInput) (uuid.UUID, service.TransactionUpdate, error) {
	var update service.TransactionUpdate
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return uuid.Nil, update, apierror.BadRequest("invalid id", err)
	}

	body := input.Body
	if body.Date != nil {
		date, err := time.Parse(time.RFC3339, *body.Date)
		if err != nil {
			return uuid.Nil, update, apierror.BadRequest("invalid date", err)
		}
		update.Date = omit.From(date)
	}
	if body.FirstAmount != nil {
		amount, err := ledger.ParseAmount(*body.FirstAmount)
		if err != nil {
			return uuid.Nil, update, apierror.BadRequest("invalid firstAmount", err)
		}
		update.FirstAmount = omit.From(amount)
	}
	if body.SecondAmount != nil {
		amount, _, err := ledger.ParseOptionalAmount(*body.SecondAmount)
		if err != nil {
			return uuid.Nil, update, apierror.BadRequest("invalid secondAmount", err)
		}
		update.SecondAmount = omit.From(amount)
	}
	update.Category = optionalString(body.Category)
	update.FirstCurrencyCode = optionalString(body.FirstCurrencyCode)
	update.SecondCurrencyCode = optionalString(body.SecondCurrencyCode)
	update.Comment = optionalString(body.Comment)
	return id, update, nil
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	id, update, err := parseUpdateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.Timing(ctx, "updateTransactionMs")
	tx, inferred, err := h.TransactionService.UpdateTransaction(ctx, id, update)
	stopTimer()
	if err != nil {
		return nil, apierror.From(err, "failed to update transaction")
	}

	return &UpdateTransactionOutput{Body: CreateTransactionResponse{
		Transaction: fromLedger(tx),
		Inferred:    inferred,
	}}, nil
}
