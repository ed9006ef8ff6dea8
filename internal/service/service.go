package service

import (
	"context"

	"github.com/carson-networks/budget-ledger/internal/currency"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/storage"
	"github.com/carson-networks/budget-ledger/internal/storage/category"
)

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Category    *CategoryService
	Summary     *SummaryService
	Settings    *SettingsService
	Import      *ImportService

	operator *operator.OperatorDelegator
	catalog  *currency.Catalog
}

// NewService wires the services on top of store. op must be started before
// any mutation is issued. feed may be nil when no bank token is configured.
func NewService(store *storage.Storage, op *operator.OperatorDelegator, catalog *currency.Catalog, feed StatementFetcher) *Service {
	return &Service{
		Transaction: NewTransactionService(store, op, catalog),
		Category:    NewCategoryService(store, op),
		Summary:     NewSummaryService(store, catalog),
		Settings:    NewSettingsService(store, op, catalog),
		Import:      NewImportService(feed, op, catalog),
		operator:    op,
		catalog:     catalog,
	}
}

// Bootstrap stores the initial settings and seeds the default categories
// into an empty registry. Existing data is left untouched.
func (s *Service) Bootstrap(ctx context.Context, defaults ledger.Settings) error {
	if err := s.operator.Process(ctx, &actions.EnsureSettings{Catalog: s.catalog, Defaults: defaults}); err != nil {
		return err
	}
	seed, err := category.Defaults()
	if err != nil {
		return err
	}
	return s.operator.Process(ctx, &actions.SeedCategories{Defaults: seed})
}
