package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/currency"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/storage"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// TransactionService handles transaction business logic. Reads go straight
// to storage; mutations are queued on the operator.
type TransactionService struct {
	storage  *storage.Storage
	operator *operator.OperatorDelegator
	catalog  *currency.Catalog
}

func NewTransactionService(store *storage.Storage, op *operator.OperatorDelegator, catalog *currency.Catalog) *TransactionService {
	return &TransactionService{storage: store, operator: op, catalog: catalog}
}

// CreateTransaction stores a new transaction. The second pair is inferred
// when in.SecondAmount is zero; the returned bool reports whether a rate
// was found.
func (s *TransactionService) CreateTransaction(ctx context.Context, in TransactionInput) (*ledger.Transaction, bool, error) {
	action := &actions.CreateTransaction{
		Catalog:            s.catalog,
		Date:               in.Date,
		Category:           in.Category,
		FirstAmount:        in.FirstAmount,
		FirstCurrencyCode:  in.FirstCurrencyCode,
		SecondAmount:       in.SecondAmount,
		SecondCurrencyCode: in.SecondCurrencyCode,
		Comment:            in.Comment,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, false, err
	}
	return action.Created, action.Inferred, nil
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, id uuid.UUID, in TransactionUpdate) (*ledger.Transaction, bool, error) {
	action := &actions.UpdateTransaction{
		Catalog:            s.catalog,
		ID:                 id,
		Date:               in.Date,
		Category:           in.Category,
		FirstAmount:        in.FirstAmount,
		FirstCurrencyCode:  in.FirstCurrencyCode,
		SecondAmount:       in.SecondAmount,
		SecondCurrencyCode: in.SecondCurrencyCode,
		Comment:            in.Comment,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, false, err
	}
	return action.Updated, action.Inferred, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return s.operator.Process(ctx, &actions.DeleteTransaction{ID: id})
}

func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	return s.storage.Transactions.FindByID(ctx, id)
}

// ListTransactions returns a page of transactions using cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, query TransactionQuery, cursor *TransactionCursor) ([]*ledger.Transaction, *TransactionCursor, error) {
	limit := defaultLimit
	offset := 0
	// The first page pins the listing to rows created up to now.
	maxCreationTime := time.Now().UTC()
	if cursor != nil {
		limit = cursor.Limit
		offset = cursor.Position
		maxCreationTime = cursor.MaxCreationTime
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	filter := &transaction.TransactionFilter{
		From:            query.From,
		To:              query.To,
		MaxCreationTime: &maxCreationTime,
		Limit:           limit + 1,
		Offset:          offset,
	}
	if query.Ascending {
		filter.Sort = transaction.SortDateAsc
	}
	if label := strings.TrimSpace(query.Category); label != "" && label != ledger.CategoryAll {
		filter.Category = &label
	}

	rows, err := s.storage.Transactions.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: maxCreationTime,
		}
	}

	return rows, nextCursor, nil
}
