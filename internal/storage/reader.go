package storage

import (
	"github.com/carson-networks/budget-ledger/internal/storage/category"
	"github.com/carson-networks/budget-ledger/internal/storage/settings"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

// Reader groups the tables used outside a unit of work. Reads see committed
// data only.
type Reader struct {
	Transactions transaction.ITransactionTable
	Categories   category.ICategoryTable
	Settings     settings.ISettingsTable
}

func NewReader(
	transactions transaction.ITransactionTable,
	categories category.ICategoryTable,
	settingsTable settings.ISettingsTable,
) *Reader {
	return &Reader{
		Transactions: transactions,
		Categories:   categories,
		Settings:     settingsTable,
	}
}
