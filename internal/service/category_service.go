package service

import (
	"context"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// CategoryService manages the category registry. Rename and delete cascade
// into stored transactions within the same unit of work.
type CategoryService struct {
	storage  *storage.Storage
	operator *operator.OperatorDelegator
}

func NewCategoryService(store *storage.Storage, op *operator.OperatorDelegator) *CategoryService {
	return &CategoryService{storage: store, operator: op}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*ledger.Category, error) {
	return s.storage.Categories.List(ctx)
}

func (s *CategoryService) AddCategory(ctx context.Context, label, color string) (*ledger.Category, error) {
	action := &actions.AddCategory{Label: label, Color: color}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Created, nil
}

// RenameCategory returns the renamed category and how many transactions
// were relabelled.
func (s *CategoryService) RenameCategory(ctx context.Context, oldLabel, newLabel, color string) (*ledger.Category, int64, error) {
	action := &actions.RenameCategory{OldLabel: oldLabel, NewLabel: newLabel, Color: color}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, 0, err
	}
	return action.Renamed, action.Reassigned, nil
}

// DeleteCategory returns how many transactions moved to Other.
func (s *CategoryService) DeleteCategory(ctx context.Context, label string) (int64, error) {
	action := &actions.DeleteCategory{Label: label}
	if err := s.operator.Process(ctx, action); err != nil {
		return 0, err
	}
	return action.Reassigned, nil
}
