package ledger

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/currency"
)

// CurrencyManager infers exchange rates from recorded transactions. It is
// derived per request from the base currencies and the full transaction set
// and keeps no state of its own.
type CurrencyManager struct {
	base         currency.BaseCurrencies
	transactions []*Transaction
}

func NewCurrencyManager(base currency.BaseCurrencies, transactions []*Transaction) *CurrencyManager {
	return &CurrencyManager{base: base, transactions: transactions}
}

func (m *CurrencyManager) Base() currency.BaseCurrencies {
	return m.base
}

// candidates returns, in input order, transactions recorded in the (from, to)
// pair that carry a usable second amount.
func (m *CurrencyManager) candidates(from, to string, exclude uuid.UUID) []*Transaction {
	var out []*Transaction
	for _, t := range m.transactions {
		if t.FirstCurrencyCode != from || t.SecondCurrencyCode != to {
			continue
		}
		if t.SecondAmount.IsZero() {
			continue
		}
		if exclude != uuid.Nil && t.ID == exclude {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ConversionRate returns FirstAmount/SecondAmount of the most recent
// transaction recorded in the (from, to) pair.
func (m *CurrencyManager) ConversionRate(from, to string) (decimal.Decimal, bool) {
	latest, ok := m.latest(from, to)
	if !ok {
		return decimal.Zero, false
	}
	return ExchangeRate(latest), true
}

func (m *CurrencyManager) latest(from, to string) (*Transaction, bool) {
	var latest *Transaction
	for _, t := range m.candidates(from, to, uuid.Nil) {
		if latest == nil || t.Date.After(latest.Date) {
			latest = t
		}
	}
	return latest, latest != nil
}

// NearestTransaction returns the (from, to) transaction closest in time to
// asOf. On equal distance the first one encountered wins.
func (m *CurrencyManager) NearestTransaction(from, to string, asOf time.Time) (*Transaction, bool) {
	return m.nearest(from, to, asOf, uuid.Nil)
}

func (m *CurrencyManager) nearest(from, to string, asOf time.Time, exclude uuid.UUID) (*Transaction, bool) {
	var (
		best     *Transaction
		bestDist time.Duration
	)
	for _, t := range m.candidates(from, to, exclude) {
		dist := absDuration(t.Date.Sub(asOf))
		if best == nil || dist < bestDist {
			best = t
			bestDist = dist
		}
	}
	return best, best != nil
}

// Convert expresses t in the target currency. A miss yields zero.
func (m *CurrencyManager) Convert(t *Transaction, to string) decimal.Decimal {
	if t.SecondCurrencyCode == to {
		return t.SecondAmount
	}
	if t.FirstCurrencyCode == to {
		return t.FirstAmount
	}
	source, ok := m.latest(m.base.First, to)
	if !ok || source.FirstAmount.IsZero() {
		return decimal.Zero
	}
	return divideByRate(t.FirstAmount, source)
}

// Inference is the outcome of synthesizing a second amount.
type Inference struct {
	Amount   decimal.Decimal
	Currency string
	// Source is the transaction whose rate was applied, nil on a miss or
	// when no rate was needed.
	Source   *Transaction
	Inferred bool
}

// InferSecondAmount derives the base.Second amount for an amount recorded in
// firstCode, using the rate of the transaction nearest to asOf. exclude keeps
// a transaction being edited from serving as its own rate source.
func (m *CurrencyManager) InferSecondAmount(amount decimal.Decimal, firstCode string, asOf time.Time, exclude uuid.UUID) Inference {
	out := Inference{Amount: decimal.Zero, Currency: m.base.Second}
	if firstCode == m.base.Second {
		out.Amount = amount
		out.Inferred = true
		return out
	}

	source, ok := m.nearest(firstCode, m.base.Second, asOf, exclude)
	if !ok {
		return out
	}
	if source.FirstAmount.IsZero() {
		return out
	}
	out.Amount = divideByRate(amount, source)
	out.Source = source
	out.Inferred = true
	return out
}

// ExchangeRate returns FirstAmount/SecondAmount, or zero when SecondAmount is zero.
func ExchangeRate(t *Transaction) decimal.Decimal {
	if t.SecondAmount.IsZero() {
		return decimal.Zero
	}
	return t.FirstAmount.Div(t.SecondAmount)
}

// AmountScale is the number of fractional digits stored for an amount. It
// matches the NUMERIC(20, 4) amount columns.
const AmountScale = 4

// divideByRate computes amount / (source.First / source.Second) as
// amount * source.Second / source.First, rounded to AmountScale so every
// storage driver holds the same value.
func divideByRate(amount decimal.Decimal, source *Transaction) decimal.Decimal {
	return amount.Mul(source.SecondAmount).Div(source.FirstAmount).Round(AmountScale)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
