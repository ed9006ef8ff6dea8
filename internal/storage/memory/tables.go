package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage/category"
	"github.com/carson-networks/budget-ledger/internal/storage/settings"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

var (
	_ transaction.ITransactionTable = (*TransactionTable)(nil)
	_ category.ICategoryTable       = (*CategoryTable)(nil)
	_ settings.ISettingsTable       = (*SettingsTable)(nil)
)

type TransactionTable struct {
	access access
}

func (t *TransactionTable) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var out *ledger.Transaction
	err := t.access.read(func(s *state) error {
		tx, ok := s.transactions[id]
		if !ok {
			return fmt.Errorf("%w: %s", ledger.ErrTransactionNotFound, id)
		}
		out = tx.Clone()
		return nil
	})
	return out, err
}

func (t *TransactionTable) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := t.access.read(func(s *state) error {
		_, ok = s.transactions[id]
		return nil
	})
	return ok, err
}

func (t *TransactionTable) Insert(ctx context.Context, tx *ledger.Transaction) error {
	return t.access.write(func(s *state) error {
		if _, exists := s.transactions[tx.ID]; exists {
			return fmt.Errorf("memory: duplicate transaction id %s", tx.ID)
		}
		row := tx.Clone()
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now().UTC()
		}
		s.transactions[row.ID] = row
		return nil
	})
}

func (t *TransactionTable) Update(ctx context.Context, tx *ledger.Transaction) error {
	return t.access.write(func(s *state) error {
		existing, ok := s.transactions[tx.ID]
		if !ok {
			return fmt.Errorf("%w: %s", ledger.ErrTransactionNotFound, tx.ID)
		}
		row := tx.Clone()
		row.CreatedAt = existing.CreatedAt
		s.transactions[row.ID] = row
		return nil
	})
}

func (t *TransactionTable) Delete(ctx context.Context, id uuid.UUID) error {
	return t.access.write(func(s *state) error {
		if _, ok := s.transactions[id]; !ok {
			return fmt.Errorf("%w: %s", ledger.ErrTransactionNotFound, id)
		}
		delete(s.transactions, id)
		return nil
	})
}

func (t *TransactionTable) List(ctx context.Context, filter *transaction.TransactionFilter) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	err := t.access.read(func(s *state) error {
		for _, tx := range s.transactions {
			if filter.Matches(tx) {
				out = append(out, tx.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	desc := filter == nil || filter.Sort == transaction.SortDateDesc
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return lessTransaction(out[j], out[i])
		}
		return lessTransaction(out[i], out[j])
	})

	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(out) {
				return nil, nil
			}
			out = out[filter.Offset:]
		}
		if filter.Limit > 0 && len(out) > filter.Limit {
			out = out[:filter.Limit]
		}
	}
	return out, nil
}

// lessTransaction orders by date, then creation time, then id.
func lessTransaction(a, b *ledger.Transaction) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

func (t *TransactionTable) Count(ctx context.Context, filter *transaction.TransactionFilter) (int, error) {
	n := 0
	err := t.access.read(func(s *state) error {
		for _, tx := range s.transactions {
			if filter.Matches(tx) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (t *TransactionTable) ReassignCategory(ctx context.Context, from, to string) (int64, error) {
	var n int64
	err := t.access.write(func(s *state) error {
		for _, tx := range s.transactions {
			if tx.Category == from {
				tx.Category = to
				n++
			}
		}
		return nil
	})
	return n, err
}

type CategoryTable struct {
	access access
}

func (c *CategoryTable) FindByLabel(ctx context.Context, label string) (*ledger.Category, error) {
	var out *ledger.Category
	err := c.access.read(func(s *state) error {
		i := indexOfCategory(s.categories, label)
		if i < 0 {
			return fmt.Errorf("%w: %s", ledger.ErrCategoryNotFound, label)
		}
		cp := *s.categories[i]
		out = &cp
		return nil
	})
	return out, err
}

func (c *CategoryTable) List(ctx context.Context) ([]*ledger.Category, error) {
	var out []*ledger.Category
	err := c.access.read(func(s *state) error {
		out = make([]*ledger.Category, len(s.categories))
		for i, cat := range s.categories {
			cp := *cat
			out[i] = &cp
		}
		return nil
	})
	return out, err
}

func (c *CategoryTable) Count(ctx context.Context) (int, error) {
	n := 0
	err := c.access.read(func(s *state) error {
		n = len(s.categories)
		return nil
	})
	return n, err
}

func (c *CategoryTable) Insert(ctx context.Context, cat *ledger.Category) error {
	return c.access.write(func(s *state) error {
		if indexOfCategory(s.categories, cat.Label) >= 0 {
			return fmt.Errorf("%w: %s", ledger.ErrDuplicateCategory, cat.Label)
		}
		cp := *cat
		cp.Position = nextPosition(s.categories)
		s.categories = append(s.categories, &cp)
		return nil
	})
}

func (c *CategoryTable) Rename(ctx context.Context, oldLabel, newLabel, color string) error {
	return c.access.write(func(s *state) error {
		i := indexOfCategory(s.categories, oldLabel)
		if i < 0 {
			return fmt.Errorf("%w: %s", ledger.ErrCategoryNotFound, oldLabel)
		}
		if j := indexOfCategory(s.categories, newLabel); j >= 0 && j != i {
			return fmt.Errorf("%w: %s", ledger.ErrDuplicateCategory, newLabel)
		}
		s.categories[i].Label = newLabel
		if color != "" {
			s.categories[i].Color = color
		}
		return nil
	})
}

func (c *CategoryTable) Delete(ctx context.Context, label string) error {
	return c.access.write(func(s *state) error {
		i := indexOfCategory(s.categories, label)
		if i < 0 {
			return fmt.Errorf("%w: %s", ledger.ErrCategoryNotFound, label)
		}
		s.categories = append(s.categories[:i], s.categories[i+1:]...)
		return nil
	})
}

func indexOfCategory(categories []*ledger.Category, label string) int {
	for i, c := range categories {
		if c.Label == label {
			return i
		}
	}
	return -1
}

func nextPosition(categories []*ledger.Category) int {
	next := 0
	for _, c := range categories {
		if c.Position >= next {
			next = c.Position + 1
		}
	}
	return next
}

type SettingsTable struct {
	access access
}

func (t *SettingsTable) Get(ctx context.Context) (*ledger.Settings, error) {
	var out *ledger.Settings
	err := t.access.read(func(s *state) error {
		if s.settings != nil {
			cp := *s.settings
			out = &cp
		}
		return nil
	})
	return out, err
}

func (t *SettingsTable) Upsert(ctx context.Context, in *ledger.Settings) error {
	return t.access.write(func(s *state) error {
		cp := *in
		s.settings = &cp
		return nil
	})
}
