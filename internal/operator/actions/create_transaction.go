package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/currency"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// CreateTransaction records a manual entry. A zero SecondAmount asks for the
// second pair to be inferred in the second base currency.
type CreateTransaction struct {
	Catalog            *currency.Catalog
	Date               time.Time
	Category           string
	FirstAmount        decimal.Decimal
	FirstCurrencyCode  string
	SecondAmount       decimal.Decimal
	SecondCurrencyCode string
	Comment            string

	// Set by Perform.
	Created  *ledger.Transaction
	Inferred bool

	IAction
}

func (c *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	manager, err := loadManager(ctx, writer)
	if err != nil {
		return err
	}

	firstCode, err := resolveCurrency(c.Catalog, c.FirstCurrencyCode, manager.Base().First)
	if err != nil {
		return err
	}
	category, err := resolveCategory(ctx, writer, c.Category)
	if err != nil {
		return err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}

	date := c.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	tx := &ledger.Transaction{
		ID:                id,
		Date:              date,
		Category:          category,
		FirstAmount:       c.FirstAmount,
		FirstCurrencyCode: firstCode,
		SecondAmount:      c.SecondAmount,
		Comment:           strings.TrimSpace(c.Comment),
	}
	c.Inferred, err = fillSecondPair(manager, c.Catalog, tx, c.SecondCurrencyCode, uuid.Nil)
	if err != nil {
		return err
	}

	if err = writer.Transaction.Insert(ctx, tx); err != nil {
		return err
	}
	c.Created = tx
	return nil
}

// fillSecondPair applies the entry policy to tx. A nonzero second amount is
// trusted and stored with its currency; otherwise the amount is inferred in
// the second base currency at tx.Date, and a miss stores zero.
func fillSecondPair(
	manager *ledger.CurrencyManager,
	catalog *currency.Catalog,
	tx *ledger.Transaction,
	secondCode string,
	exclude uuid.UUID,
) (bool, error) {
	if !tx.SecondAmount.IsZero() {
		code := strings.ToUpper(strings.TrimSpace(secondCode))
		if code == "" {
			return false, ledger.ErrMissingCurrency
		}
		if !catalog.Known(code) {
			return false, fmt.Errorf("%w: %q", ledger.ErrUnknownCurrency, code)
		}
		tx.SecondCurrencyCode = code
		return false, nil
	}

	inference := manager.InferSecondAmount(tx.FirstAmount, tx.FirstCurrencyCode, tx.Date, exclude)
	tx.SecondAmount = inference.Amount
	tx.SecondCurrencyCode = inference.Currency
	if !inference.Inferred {
		logrus.WithFields(logrus.Fields{
			"transactionID": tx.ID.String(),
			"from":          tx.FirstCurrencyCode,
			"to":            inference.Currency,
			"asOf":          tx.Date,
		}).Warn("Actions.fillSecondPair.noRate")
	}
	return inference.Inferred, nil
}
