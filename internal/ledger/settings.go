package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/currency"
)

// Settings is the persisted ledger configuration.
type Settings struct {
	BaseCurrency1  string          `db:"base_currency_1"`
	BaseCurrency2  string          `db:"base_currency_2"`
	Budget         decimal.Decimal `db:"budget"`
	InitialBalance decimal.Decimal `db:"initial_balance"`
}

func (s Settings) Base() currency.BaseCurrencies {
	return currency.BaseCurrencies{First: s.BaseCurrency1, Second: s.BaseCurrency2}
}
