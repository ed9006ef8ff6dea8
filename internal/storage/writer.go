package storage

import (
	"context"

	"github.com/carson-networks/budget-ledger/internal/storage/category"
	"github.com/carson-networks/budget-ledger/internal/storage/settings"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

// unitOfWork is the driver side of a Writer.
type unitOfWork interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer is one unit of work. Mutations made through its tables become
// visible to readers only after Commit.
type Writer struct {
	tx          unitOfWork
	Transaction transaction.ITransactionTable
	Category    category.ICategoryTable
	Settings    settings.ISettingsTable
}

func NewWriter(
	tx unitOfWork,
	transactions transaction.ITransactionTable,
	categories category.ICategoryTable,
	settingsTable settings.ISettingsTable,
) *Writer {
	return &Writer{
		tx:          tx,
		Transaction: transactions,
		Category:    categories,
		Settings:    settingsTable,
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
