package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// SortOrder orders query results by transaction date. Ties are broken by id
// so pages stay stable.
type SortOrder int8

const (
	SortDateDesc SortOrder = iota
	SortDateAsc
)

// TransactionFilter specifies filters for listing and counting transactions.
// A nil filter matches everything.
type TransactionFilter struct {
	Category *string
	From     *time.Time // inclusive
	To       *time.Time // exclusive
	// MaxCreationTime pins a paginated listing to the rows that existed
	// when its first page was read.
	MaxCreationTime *time.Time
	Sort            SortOrder
	Limit           int
	Offset          int
}

// ITransactionTable is the persistence boundary for transactions.
// This abstraction allows swapping the implementation (Postgres via Bob, or
// the in-memory store) without changing callers.
type ITransactionTable interface {
	// FindByID returns ledger.ErrTransactionNotFound on a miss.
	FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Insert(ctx context.Context, tx *ledger.Transaction) error
	Update(ctx context.Context, tx *ledger.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *TransactionFilter) ([]*ledger.Transaction, error)
	Count(ctx context.Context, filter *TransactionFilter) (int, error)
	// ReassignCategory rewrites the category of every transaction labelled
	// from to to and returns how many rows changed.
	ReassignCategory(ctx context.Context, from, to string) (int64, error)
}

// Matches applies the filter's predicate (not its paging) to tx.
func (f *TransactionFilter) Matches(tx *ledger.Transaction) bool {
	if f == nil {
		return true
	}
	if f.Category != nil && tx.Category != *f.Category {
		return false
	}
	if f.From != nil && tx.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && !tx.Date.Before(*f.To) {
		return false
	}
	if f.MaxCreationTime != nil && tx.CreatedAt.After(*f.MaxCreationTime) {
		return false
	}
	return true
}
