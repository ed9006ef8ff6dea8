package category

import (
	"context"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// ICategoryTable defines the interface for category storage operations.
// Categories are listed in Position order.
type ICategoryTable interface {
	// FindByLabel returns ledger.ErrCategoryNotFound on a miss.
	FindByLabel(ctx context.Context, label string) (*ledger.Category, error)
	List(ctx context.Context) ([]*ledger.Category, error)
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, c *ledger.Category) error
	// Rename rekeys a category, keeping its position. color replaces the
	// stored color unless empty.
	Rename(ctx context.Context, oldLabel, newLabel, color string) error
	Delete(ctx context.Context, label string) error
}
