package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/currency"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// EnsureSettings stores Defaults unless settings already exist.
type EnsureSettings struct {
	Catalog  *currency.Catalog
	Defaults ledger.Settings

	// Set by Perform.
	Settings *ledger.Settings

	IAction
}

func (e *EnsureSettings) Perform(ctx context.Context, writer *storage.Writer) error {
	existing, err := writer.Settings.Get(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		e.Settings = existing
		return nil
	}

	if err = validateBase(e.Catalog, e.Defaults.Base()); err != nil {
		return err
	}
	settings := e.Defaults
	if err = writer.Settings.Upsert(ctx, &settings); err != nil {
		return err
	}
	e.Settings = &settings
	return nil
}

// UpdateSettings changes the fields that are set.
type UpdateSettings struct {
	Catalog        *currency.Catalog
	BaseCurrency1  omit.Val[string]
	BaseCurrency2  omit.Val[string]
	Budget         omit.Val[decimal.Decimal]
	InitialBalance omit.Val[decimal.Decimal]

	// Set by Perform.
	Settings *ledger.Settings

	IAction
}

func (u *UpdateSettings) Perform(ctx context.Context, writer *storage.Writer) error {
	settings, err := loadSettings(ctx, writer)
	if err != nil {
		return err
	}

	if code, ok := u.BaseCurrency1.Get(); ok {
		settings.BaseCurrency1 = strings.ToUpper(strings.TrimSpace(code))
	}
	if code, ok := u.BaseCurrency2.Get(); ok {
		settings.BaseCurrency2 = strings.ToUpper(strings.TrimSpace(code))
	}
	if budget, ok := u.Budget.Get(); ok {
		settings.Budget = budget
	}
	if initial, ok := u.InitialBalance.Get(); ok {
		settings.InitialBalance = initial
	}

	if err = validateBase(u.Catalog, settings.Base()); err != nil {
		return err
	}
	if err = writer.Settings.Upsert(ctx, settings); err != nil {
		return err
	}
	u.Settings = settings
	return nil
}

func validateBase(catalog *currency.Catalog, base currency.BaseCurrencies) error {
	if err := base.Validate(catalog); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrInvalidBaseCurrencies, err)
	}
	return nil
}
