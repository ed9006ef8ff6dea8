package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type RankStrategy string

const (
	RankByCount      RankStrategy = "count"
	RankAlphabetical RankStrategy = "alphabetical"
	RankByAmount     RankStrategy = "amount"
)

func ParseRankStrategy(s string) (RankStrategy, error) {
	switch RankStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case RankByCount, "":
		return RankByCount, nil
	case RankAlphabetical:
		return RankAlphabetical, nil
	case RankByAmount:
		return RankByAmount, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRankStrategy, s)
}

type CategoryRank struct {
	Label  string
	Count  int
	Amount decimal.Decimal
}

// RankCategories orders labels for display. Count and amount are computed
// per label with the same primitives as the ledger totals; ties keep the
// order labels were given in.
func (a *Aggregator) RankCategories(transactions []*Transaction, labels []string, strategy RankStrategy, target string) []CategoryRank {
	ranks := make([]CategoryRank, len(labels))
	for i, label := range labels {
		subset := FilterByCategory(transactions, label)
		ranks[i] = CategoryRank{
			Label:  label,
			Count:  len(subset),
			Amount: a.TotalExpenses(subset, target),
		}
	}

	switch strategy {
	case RankAlphabetical:
		sort.SliceStable(ranks, func(i, j int) bool {
			return strings.ToLower(ranks[i].Label) < strings.ToLower(ranks[j].Label)
		})
	case RankByAmount:
		sort.SliceStable(ranks, func(i, j int) bool {
			return ranks[i].Amount.GreaterThan(ranks[j].Amount)
		})
	default:
		sort.SliceStable(ranks, func(i, j int) bool {
			return ranks[i].Count > ranks[j].Count
		})
	}
	return ranks
}
