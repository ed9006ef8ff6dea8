package service

import (
	"context"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/currency"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// SettingsUpdate carries the settings to change; unset fields are kept.
type SettingsUpdate struct {
	BaseCurrency1  omit.Val[string]
	BaseCurrency2  omit.Val[string]
	Budget         omit.Val[decimal.Decimal]
	InitialBalance omit.Val[decimal.Decimal]
}

// CurrencyInfo describes one catalog entry for display.
type CurrencyInfo struct {
	Code   string
	Symbol string
	Base   bool
}

type SettingsService struct {
	storage  *storage.Storage
	operator *operator.OperatorDelegator
	catalog  *currency.Catalog
}

func NewSettingsService(store *storage.Storage, op *operator.OperatorDelegator, catalog *currency.Catalog) *SettingsService {
	return &SettingsService{storage: store, operator: op, catalog: catalog}
}

func (s *SettingsService) GetSettings(ctx context.Context) (*ledger.Settings, error) {
	settings, err := s.storage.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, ledger.ErrSettingsNotFound
	}
	return settings, nil
}

func (s *SettingsService) UpdateSettings(ctx context.Context, in SettingsUpdate) (*ledger.Settings, error) {
	action := &actions.UpdateSettings{
		Catalog:        s.catalog,
		BaseCurrency1:  in.BaseCurrency1,
		BaseCurrency2:  in.BaseCurrency2,
		Budget:         in.Budget,
		InitialBalance: in.InitialBalance,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Settings, nil
}

// ListCurrencies returns the catalog in code order, flagging the base
// currencies.
func (s *SettingsService) ListCurrencies(ctx context.Context) ([]CurrencyInfo, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	codes := s.catalog.Codes()
	out := make([]CurrencyInfo, len(codes))
	for i, code := range codes {
		out[i] = CurrencyInfo{
			Code:   code,
			Symbol: s.catalog.SymbolFor(code),
			Base:   code == settings.BaseCurrency1 || code == settings.BaseCurrency2,
		}
	}
	return out, nil
}
