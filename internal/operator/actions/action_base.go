package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/carson-networks/budget-ledger/internal/currency"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// IAction is one logical mutation. Perform stages its changes on writer; the
// operator commits them.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

func loadSettings(ctx context.Context, writer *storage.Writer) (*ledger.Settings, error) {
	settings, err := writer.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, ledger.ErrSettingsNotFound
	}
	return settings, nil
}

// loadManager builds a CurrencyManager over every stored transaction, as seen
// from inside the unit of work.
func loadManager(ctx context.Context, writer *storage.Writer) (*ledger.CurrencyManager, error) {
	settings, err := loadSettings(ctx, writer)
	if err != nil {
		return nil, err
	}
	all, err := writer.Transaction.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	return ledger.NewCurrencyManager(settings.Base(), all), nil
}

// resolveCategory maps a user supplied label onto a stored category or a
// reserved label that transactions may carry.
func resolveCategory(ctx context.Context, writer *storage.Writer, label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", ledger.ErrBlankCategory
	}
	if reserved, ok := ledger.CanonicalReserved(label); ok {
		if reserved == ledger.CategoryAll {
			return "", fmt.Errorf("%w: %s is a filter", ledger.ErrUnknownCategory, reserved)
		}
		return reserved, nil
	}
	found, err := writer.Category.FindByLabel(ctx, label)
	if ledger.IsNotFound(err) {
		return "", fmt.Errorf("%w: %s", ledger.ErrUnknownCategory, label)
	}
	if err != nil {
		return "", err
	}
	return found.Label, nil
}

func resolveCurrency(catalog *currency.Catalog, code, fallback string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = fallback
	}
	if !catalog.Known(code) {
		return "", fmt.Errorf("%w: %q", ledger.ErrUnknownCurrency, code)
	}
	return code, nil
}
