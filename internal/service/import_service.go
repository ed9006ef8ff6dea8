package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/bankfeed"
	"github.com/carson-networks/budget-ledger/internal/currency"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

var (
	ErrImportInProgress = errors.New("a bank import is already in progress")
	ErrBankFeedDisabled = errors.New("bank feed is not configured")
	ErrInvalidWindow    = errors.New("import window must end after it starts")
)

// StatementFetcher is the bank feed used by ImportService.
type StatementFetcher interface {
	FetchTransactions(ctx context.Context, from, to time.Time) (*bankfeed.Statement, error)
}

// ImportService pulls statements from the bank feed and merges them into
// the ledger. At most one fetch runs at a time.
type ImportService struct {
	feed     StatementFetcher
	operator *operator.OperatorDelegator
	catalog  *currency.Catalog
	running  atomic.Bool
}

// NewImportService returns a service with the feed disabled when feed is nil.
func NewImportService(feed StatementFetcher, op *operator.OperatorDelegator, catalog *currency.Catalog) *ImportService {
	return &ImportService{feed: feed, operator: op, catalog: catalog}
}

func (s *ImportService) Import(ctx context.Context, from, to time.Time) (*actions.ImportResult, error) {
	if s.feed == nil {
		return nil, ErrBankFeedDisabled
	}
	if !to.After(from) {
		return nil, ErrInvalidWindow
	}
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrImportInProgress
	}
	defer s.running.Store(false)

	statement, err := s.feed.FetchTransactions(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch statement: %w", err)
	}

	action := &actions.ImportBankRecords{Catalog: s.catalog, Records: statement.Records}
	if err = s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	action.Result.Skipped += statement.Malformed

	logrus.WithFields(logrus.Fields{
		"fetched":    len(statement.Records),
		"imported":   action.Result.Imported,
		"duplicates": action.Result.Duplicates,
		"skipped":    action.Result.Skipped,
	}).Info("ImportService.Import.Complete")
	return &action.Result, nil
}
