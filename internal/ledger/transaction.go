// Package ledger holds the dual-currency transaction model, the exchange-rate
// inference engine and the aggregate queries derived from a transaction set.
// Everything here is pure: no I/O, no shared state.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Reserved category labels. None of them can be added, renamed or deleted.
const (
	CategoryAll           = "All"
	CategoryReplenishment = "Replenishment"
	CategoryTransferOut   = "Transfer-out"
	CategoryIngested      = "API"
	CategoryOther         = "Other"
)

var reservedCategories = []string{
	CategoryAll,
	CategoryReplenishment,
	CategoryTransferOut,
	CategoryIngested,
	CategoryOther,
}

// ReservedCategories returns the reserved labels in display order.
func ReservedCategories() []string {
	out := make([]string, len(reservedCategories))
	copy(out, reservedCategories)
	return out
}

// IsReservedCategory reports whether label is reserved. The comparison is
// case-insensitive so "other" cannot shadow "Other".
func IsReservedCategory(label string) bool {
	for _, r := range reservedCategories {
		if strings.EqualFold(r, strings.TrimSpace(label)) {
			return true
		}
	}
	return false
}

// CanonicalReserved returns the reserved spelling of label, if it is one.
func CanonicalReserved(label string) (string, bool) {
	for _, r := range reservedCategories {
		if strings.EqualFold(r, strings.TrimSpace(label)) {
			return r, true
		}
	}
	return "", false
}

// Transaction is a dated movement of money carrying two (amount, currency)
// pairs. The second pair is always populated at write time; SecondAmount is
// zero when no rate could be inferred.
type Transaction struct {
	ID                 uuid.UUID       `db:"id"`
	Date               time.Time       `db:"date"`
	Category           string          `db:"category"`
	FirstAmount        decimal.Decimal `db:"first_amount"`
	FirstCurrencyCode  string          `db:"first_currency_code"`
	SecondAmount       decimal.Decimal `db:"second_amount"`
	SecondCurrencyCode string          `db:"second_currency_code"`
	Comment            string          `db:"comment"`
	CreatedAt          time.Time       `db:"created_at"`
}

// CategoryLabel returns the category, reading a missing value as Other.
func (t *Transaction) CategoryLabel() string {
	if strings.TrimSpace(t.Category) == "" {
		return CategoryOther
	}
	return t.Category
}

// Clone returns a copy safe to mutate independently.
func (t *Transaction) Clone() *Transaction {
	c := *t
	return &c
}

// IsExpense reports whether the transaction counts towards expenses.
func (t *Transaction) IsExpense() bool {
	switch t.CategoryLabel() {
	case CategoryReplenishment, CategoryTransferOut, CategoryIngested:
		return false
	}
	return true
}

// ParseAmount parses a user supplied amount. Blank input, NaN and infinities
// are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseOptionalAmount parses an amount that may be left blank. Blank input
// yields (zero, false, nil).
func ParseOptionalAmount(s string) (decimal.Decimal, bool, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, false, nil
	}
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}
