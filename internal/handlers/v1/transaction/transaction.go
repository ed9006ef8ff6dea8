package transaction

import (
	"time"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID                 string `json:"id" doc:"Transaction UUID"`
	Date               string `json:"date" doc:"RFC3339 transaction date"`
	Category           string `json:"category" doc:"Category label"`
	FirstAmount        string `json:"firstAmount" doc:"Decimal amount in the first currency"`
	FirstCurrencyCode  string `json:"firstCurrencyCode" doc:"ISO 4217 code of the first amount"`
	SecondAmount       string `json:"secondAmount" doc:"Decimal amount in the second currency, 0 when no rate was known"`
	SecondCurrencyCode string `json:"secondCurrencyCode,omitempty" doc:"ISO 4217 code of the second amount"`
	Comment            string `json:"comment,omitempty" doc:"Free-form comment"`
	CreatedAt          string `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromLedger(tx *ledger.Transaction) Transaction {
	return Transaction{
		ID:                 tx.ID.String(),
		Date:               tx.Date.Format(time.RFC3339),
		Category:           tx.CategoryLabel(),
		FirstAmount:        tx.FirstAmount.String(),
		FirstCurrencyCode:  tx.FirstCurrencyCode,
		SecondAmount:       tx.SecondAmount.String(),
		SecondCurrencyCode: tx.SecondCurrencyCode,
		Comment:            tx.Comment,
		CreatedAt:          tx.CreatedAt.Format(time.RFC3339),
	}
}

// TransactionIDPath is the shared path input for single-transaction routes.
type TransactionIDPath struct {
	ID string `path:"id" format:"uuid" doc:"Transaction UUID"`
}
