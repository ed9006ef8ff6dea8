package actions

import (
	"context"
	"strings"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/currency"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// UpdateTransaction edits the fields that are set. The entry policy is then
// re-run against the resulting record. An omitted SecondAmount keeps the
// stored one unless the date or first leg changed, in which case it is
// re-inferred. A zero second amount is inferred at the transaction's own date
// with the transaction itself excluded as a rate source.
type UpdateTransaction struct {
	Catalog            *currency.Catalog
	ID                 uuid.UUID
	Date               omit.Val[time.Time]
	Category           omit.Val[string]
	FirstAmount        omit.Val[decimal.Decimal]
	FirstCurrencyCode  omit.Val[string]
	SecondAmount       omit.Val[decimal.Decimal]
	SecondCurrencyCode omit.Val[string]
	Comment            omit.Val[string]

	// Set by Perform.
	Updated  *ledger.Transaction
	Inferred bool

	IAction
}

func (u *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	existing, err := writer.Transaction.FindByID(ctx, u.ID)
	if err != nil {
		return err
	}
	manager, err := loadManager(ctx, writer)
	if err != nil {
		return err
	}

	tx := existing.Clone()
	if date, ok := u.Date.Get(); ok {
		tx.Date = date
	}
	if label, ok := u.Category.Get(); ok {
		if tx.Category, err = resolveCategory(ctx, writer, label); err != nil {
			return err
		}
	}
	if amount, ok := u.FirstAmount.Get(); ok {
		tx.FirstAmount = amount
	}
	if code, ok := u.FirstCurrencyCode.Get(); ok {
		if tx.FirstCurrencyCode, err = resolveCurrency(u.Catalog, code, manager.Base().First); err != nil {
			return err
		}
	}
	if amount, ok := u.SecondAmount.Get(); ok {
		tx.SecondAmount = amount
	} else if u.Date.IsValue() || u.FirstAmount.IsValue() || u.FirstCurrencyCode.IsValue() {
		tx.SecondAmount = decimal.Zero
	}
	if comment, ok := u.Comment.Get(); ok {
		tx.Comment = strings.TrimSpace(comment)
	}

	secondCode := u.SecondCurrencyCode.GetOr(tx.SecondCurrencyCode)
	u.Inferred, err = fillSecondPair(manager, u.Catalog, tx, secondCode, tx.ID)
	if err != nil {
		return err
	}

	if err = writer.Transaction.Update(ctx, tx); err != nil {
		return err
	}
	u.Updated = tx
	return nil
}
