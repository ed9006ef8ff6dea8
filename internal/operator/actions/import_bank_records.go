package actions

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/bankfeed"
	"github.com/carson-networks/budget-ledger/internal/currency"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// ImportResult counts what happened to each record of a batch.
type ImportResult struct {
	Imported   int
	Duplicates int
	Skipped    int
}

// ImportBankRecords merges statement records into the ledger. Record ids are
// mapped to name-based UUIDs, so importing the same statement twice stores
// each record once.
type ImportBankRecords struct {
	Catalog *currency.Catalog
	Records []bankfeed.ExternalRecord

	// Set by Perform.
	Result ImportResult

	IAction
}

func (i *ImportBankRecords) Perform(ctx context.Context, writer *storage.Writer) error {
	manager, err := loadManager(ctx, writer)
	if err != nil {
		return err
	}
	base := manager.Base()

	var result ImportResult
	seen := make(map[uuid.UUID]struct{}, len(i.Records))
	for _, rec := range i.Records {
		if strings.TrimSpace(rec.ID) == "" || rec.Time <= 0 {
			logrus.WithField("externalID", rec.ID).Warn("Actions.ImportBankRecords.malformed")
			result.Skipped++
			continue
		}

		id := ledger.ImportID(rec.ID)
		if _, dup := seen[id]; dup {
			result.Duplicates++
			continue
		}
		seen[id] = struct{}{}

		exists, err := writer.Transaction.Exists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			result.Duplicates++
			continue
		}

		tx := &ledger.Transaction{
			ID:                id,
			Date:              time.Unix(rec.Time, 0).UTC(),
			Category:          ledger.ImportCategory(rec.Amount),
			FirstAmount:       ledger.FromMinorUnits(absMinor(rec.Amount)),
			FirstCurrencyCode: base.First,
			Comment:           strings.TrimSpace(rec.Description),
		}

		inference := manager.InferSecondAmount(tx.FirstAmount, base.First, tx.Date, uuid.Nil)
		if inference.Inferred && !inference.Amount.IsZero() {
			tx.SecondAmount = inference.Amount
			tx.SecondCurrencyCode = inference.Currency
		} else {
			tx.SecondAmount = ledger.FromMinorUnits(absMinor(rec.OperationAmount))
			tx.SecondCurrencyCode = operationCurrency(i.Catalog, rec.CurrencyCode, base.Second)
			logrus.WithFields(logrus.Fields{
				"externalID": rec.ID,
				"currency":   tx.SecondCurrencyCode,
			}).Info("Actions.ImportBankRecords.operationAmountFallback")
		}

		if err = writer.Transaction.Insert(ctx, tx); err != nil {
			return err
		}
		result.Imported++
	}

	i.Result = result
	return nil
}

func operationCurrency(catalog *currency.Catalog, numeric int, fallback string) string {
	if code, ok := catalog.CodeForNumeric(numeric); ok {
		return code
	}
	return fallback
}

func absMinor(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
