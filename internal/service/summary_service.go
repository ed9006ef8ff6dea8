package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/currency"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

// SummaryQuery selects the transactions to aggregate. Rates are always
// inferred from the full ledger regardless of the selection. Budget and
// InitialBalance override the stored settings when set.
type SummaryQuery struct {
	Category       string
	Currency       string
	From           *time.Time
	To             *time.Time
	Budget         *decimal.Decimal
	InitialBalance *decimal.Decimal
}

// RateQuote is an exchange rate read from recorded history.
type RateQuote struct {
	From   string
	To     string
	Rate   decimal.Decimal
	Found  bool
	Source *ledger.Transaction
}

// SummaryService answers the read-only aggregate queries. Every call
// rebuilds its CurrencyManager from the current settings and transactions.
type SummaryService struct {
	storage *storage.Storage
	catalog *currency.Catalog
}

func NewSummaryService(store *storage.Storage, catalog *currency.Catalog) *SummaryService {
	return &SummaryService{storage: store, catalog: catalog}
}

type snapshot struct {
	settings     *ledger.Settings
	transactions []*ledger.Transaction
	aggregator   *ledger.Aggregator
}

func (s *SummaryService) load(ctx context.Context) (*snapshot, error) {
	settings, err := s.storage.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, ledger.ErrSettingsNotFound
	}
	all, err := s.storage.Transactions.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	manager := ledger.NewCurrencyManager(settings.Base(), all)
	return &snapshot{settings: settings, transactions: all, aggregator: ledger.NewAggregator(manager)}, nil
}

func (s *SummaryService) targetCurrency(code string, settings *ledger.Settings) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return settings.BaseCurrency1, nil
	}
	if !s.catalog.Known(code) {
		return "", fmt.Errorf("%w: %q", ledger.ErrUnknownCurrency, code)
	}
	return code, nil
}

func (s *SummaryService) Summarize(ctx context.Context, query SummaryQuery) (*ledger.Summary, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	target, err := s.targetCurrency(query.Currency, snap.settings)
	if err != nil {
		return nil, err
	}

	window := &transaction.TransactionFilter{From: query.From, To: query.To}
	var subset []*ledger.Transaction
	for _, t := range ledger.FilterByCategory(snap.transactions, strings.TrimSpace(query.Category)) {
		if window.Matches(t) {
			subset = append(subset, t)
		}
	}

	budget := snap.settings.Budget
	if query.Budget != nil {
		budget = *query.Budget
	}
	initial := snap.settings.InitialBalance
	if query.InitialBalance != nil {
		initial = *query.InitialBalance
	}

	summary := snap.aggregator.Summarize(subset, target, budget, initial)
	return &summary, nil
}

// RankCategories orders the registry labels, followed by Other, for display.
func (s *SummaryService) RankCategories(ctx context.Context, strategy, currencyCode string) ([]ledger.CategoryRank, error) {
	rankStrategy, err := ledger.ParseRankStrategy(strategy)
	if err != nil {
		return nil, err
	}
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	target, err := s.targetCurrency(currencyCode, snap.settings)
	if err != nil {
		return nil, err
	}

	categories, err := s.storage.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(categories)+1)
	for _, c := range categories {
		labels = append(labels, c.Label)
	}
	labels = append(labels, ledger.CategoryOther)

	return snap.aggregator.RankCategories(snap.transactions, labels, rankStrategy, target), nil
}

// ExchangeRate reads the from/to rate from recorded transactions: the most
// recent one, or the one nearest to asOf when given. Empty codes default to
// the base currencies.
func (s *SummaryService) ExchangeRate(ctx context.Context, from, to string, asOf *time.Time) (*RateQuote, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if from, err = s.targetCurrency(from, snap.settings); err != nil {
		return nil, err
	}
	if strings.TrimSpace(to) == "" {
		to = snap.settings.BaseCurrency2
	}
	if to, err = s.targetCurrency(to, snap.settings); err != nil {
		return nil, err
	}

	manager := ledger.NewCurrencyManager(snap.settings.Base(), snap.transactions)
	quote := &RateQuote{From: from, To: to, Rate: decimal.Zero}
	if asOf == nil {
		quote.Rate, quote.Found = manager.ConversionRate(from, to)
		return quote, nil
	}

	source, ok := manager.NearestTransaction(from, to, *asOf)
	if ok {
		quote.Rate = ledger.ExchangeRate(source)
		quote.Found = true
		quote.Source = source
	}
	return quote, nil
}
