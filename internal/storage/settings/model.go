package settings

import (
	"context"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// ISettingsTable stores the single ledger settings row.
type ISettingsTable interface {
	// Get returns (nil, nil) when settings have never been saved.
	Get(ctx context.Context) (*ledger.Settings, error)
	Upsert(ctx context.Context, s *ledger.Settings) error
}
