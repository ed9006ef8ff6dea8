package ledger

import (
	"github.com/shopspring/decimal"
)

// Aggregator computes totals over any subset of transactions. Conversions
// always go through the manager, whose rates come from the full set.
type Aggregator struct {
	manager *CurrencyManager
}

func NewAggregator(manager *CurrencyManager) *Aggregator {
	return &Aggregator{manager: manager}
}

// AmountIn returns the transaction's amount in the target currency.
func (a *Aggregator) AmountIn(t *Transaction, target string) decimal.Decimal {
	if target == a.manager.base.First {
		return t.FirstAmount
	}
	return a.manager.Convert(t, target)
}

func (a *Aggregator) sum(transactions []*Transaction, target string, keep func(*Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if keep(t) {
			total = total.Add(a.AmountIn(t, target))
		}
	}
	return total
}

// TotalExpenses excludes replenishments, transfers out and ingested debits.
func (a *Aggregator) TotalExpenses(transactions []*Transaction, target string) decimal.Decimal {
	return a.sum(transactions, target, (*Transaction).IsExpense)
}

func (a *Aggregator) TotalReplenishment(transactions []*Transaction, target string) decimal.Decimal {
	return a.sum(transactions, target, inCategory(CategoryReplenishment))
}

func (a *Aggregator) TotalToOtherAccount(transactions []*Transaction, target string) decimal.Decimal {
	return a.sum(transactions, target, inCategory(CategoryTransferOut))
}

// TotalIngested sums bank-imported debits.
func (a *Aggregator) TotalIngested(transactions []*Transaction, target string) decimal.Decimal {
	return a.sum(transactions, target, inCategory(CategoryIngested))
}

func (a *Aggregator) ExpectedBalance(budget decimal.Decimal, transactions []*Transaction, target string) decimal.Decimal {
	return budget.Sub(a.TotalExpenses(transactions, target))
}

func (a *Aggregator) ActualBalance(initial decimal.Decimal, transactions []*Transaction, target string) decimal.Decimal {
	return initial.
		Add(a.TotalReplenishment(transactions, target)).
		Sub(a.TotalExpenses(transactions, target)).
		Sub(a.TotalToOtherAccount(transactions, target))
}

// Summary bundles every aggregate for one currency.
type Summary struct {
	Currency            string
	TransactionCount    int
	TotalExpenses       decimal.Decimal
	TotalReplenishment  decimal.Decimal
	TotalToOtherAccount decimal.Decimal
	TotalIngested       decimal.Decimal
	ExpectedBalance     decimal.Decimal
	ActualBalance       decimal.Decimal
}

func (a *Aggregator) Summarize(transactions []*Transaction, target string, budget, initial decimal.Decimal) Summary {
	s := Summary{
		Currency:            target,
		TransactionCount:    len(transactions),
		TotalExpenses:       a.TotalExpenses(transactions, target),
		TotalReplenishment:  a.TotalReplenishment(transactions, target),
		TotalToOtherAccount: a.TotalToOtherAccount(transactions, target),
		TotalIngested:       a.TotalIngested(transactions, target),
	}
	s.ExpectedBalance = budget.Sub(s.TotalExpenses)
	s.ActualBalance = initial.Add(s.TotalReplenishment).Sub(s.TotalExpenses).Sub(s.TotalToOtherAccount)
	return s
}

// FilterByCategory returns the transactions carrying label. The All label
// matches everything.
func FilterByCategory(transactions []*Transaction, label string) []*Transaction {
	if label == "" || label == CategoryAll {
		return transactions
	}
	keep := inCategory(label)
	var out []*Transaction
	for _, t := range transactions {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func inCategory(label string) func(*Transaction) bool {
	return func(t *Transaction) bool {
		return t.CategoryLabel() == label
	}
}
