package sqlconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

var _ transaction.ITransactionTable = (*TransactionsTable)(nil)

var transactionColumns = []any{
	psql.Quote("id"),
	psql.Quote("date"),
	psql.Quote("category"),
	psql.Quote("first_amount"),
	psql.Quote("first_currency_code"),
	psql.Quote("second_amount"),
	psql.Quote("second_currency_code"),
	psql.Quote("comment"),
	psql.Quote("created_at"),
}

// TransactionsTable provides access to the transactions table.
type TransactionsTable struct {
	exec bob.Executor
}

// FindByID retrieves a transaction by primary key.
func (t *TransactionsTable) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	q := psql.Select(
		sm.Columns(transactionColumns...),
		sm.From(psql.Quote(transactionsTable)),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[ledger.Transaction]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrTransactionNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (t *TransactionsTable) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	q := psql.Select(
		sm.Columns("count(*)"),
		sm.From(psql.Quote(transactionsTable)),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	n, err := bob.One(ctx, t.exec, q, scan.SingleColumnMapper[int64])
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Insert stores a new transaction. CreatedAt falls back to the column default.
func (t *TransactionsTable) Insert(ctx context.Context, tx *ledger.Transaction) error {
	columns := []string{"id", "date", "category", "first_amount", "first_currency_code", "second_amount", "second_currency_code", "comment"}
	values := []bob.Expression{
		psql.Arg(tx.ID),
		psql.Arg(tx.Date),
		psql.Arg(tx.Category),
		psql.Arg(tx.FirstAmount),
		psql.Arg(tx.FirstCurrencyCode),
		psql.Arg(tx.SecondAmount),
		psql.Arg(tx.SecondCurrencyCode),
		psql.Arg(tx.Comment),
	}
	if !tx.CreatedAt.IsZero() {
		columns = append(columns, "created_at")
		values = append(values, psql.Arg(tx.CreatedAt))
	}

	q := psql.Insert(
		im.Into(psql.Quote(transactionsTable), columns...),
		im.Values(values...),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return err
}

// Update rewrites every mutable column of an existing transaction.
func (t *TransactionsTable) Update(ctx context.Context, tx *ledger.Transaction) error {
	q := psql.Update(
		um.Table(psql.Quote(transactionsTable)),
		um.SetCol("date").ToArg(tx.Date),
		um.SetCol("category").ToArg(tx.Category),
		um.SetCol("first_amount").ToArg(tx.FirstAmount),
		um.SetCol("first_currency_code").ToArg(tx.FirstCurrencyCode),
		um.SetCol("second_amount").ToArg(tx.SecondAmount),
		um.SetCol("second_currency_code").ToArg(tx.SecondCurrencyCode),
		um.SetCol("comment").ToArg(tx.Comment),
		um.Where(psql.Quote("id").EQ(psql.Arg(tx.ID))),
	)
	return expectRows(bob.Exec(ctx, t.exec, q))(fmt.Errorf("%w: %s", ledger.ErrTransactionNotFound, tx.ID))
}

func (t *TransactionsTable) Delete(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From(psql.Quote(transactionsTable)),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return expectRows(bob.Exec(ctx, t.exec, q))(fmt.Errorf("%w: %s", ledger.ErrTransactionNotFound, id))
}

// List returns transactions matching the filter. Nil filter returns all,
// newest first.
func (t *TransactionsTable) List(ctx context.Context, filter *transaction.TransactionFilter) ([]*ledger.Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From(psql.Quote(transactionsTable)),
	}
	queryMods = append(queryMods, whereMods(filter)...)

	if filter != nil && filter.Sort == transaction.SortDateAsc {
		queryMods = append(queryMods,
			sm.OrderBy(psql.Quote("date")).Asc(),
			sm.OrderBy(psql.Quote("created_at")).Asc(),
			sm.OrderBy(psql.Quote("id")).Asc(),
		)
	} else {
		queryMods = append(queryMods,
			sm.OrderBy(psql.Quote("date")).Desc(),
			sm.OrderBy(psql.Quote("created_at")).Desc(),
			sm.OrderBy(psql.Quote("id")).Desc(),
		)
	}

	if filter != nil {
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
	}

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[ledger.Transaction]())
	if err != nil {
		return nil, err
	}
	result := make([]*ledger.Transaction, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func (t *TransactionsTable) Count(ctx context.Context, filter *transaction.TransactionFilter) (int, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns("count(*)"),
		sm.From(psql.Quote(transactionsTable)),
	}
	queryMods = append(queryMods, whereMods(filter)...)

	n, err := bob.One(ctx, t.exec, psql.Select(queryMods...), scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (t *TransactionsTable) ReassignCategory(ctx context.Context, from, to string) (int64, error) {
	q := psql.Update(
		um.Table(psql.Quote(transactionsTable)),
		um.SetCol("category").ToArg(to),
		um.Where(psql.Quote("category").EQ(psql.Arg(from))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func whereMods(filter *transaction.TransactionFilter) []bob.Mod[*dialect.SelectQuery] {
	if filter == nil {
		return nil
	}
	var mods []bob.Mod[*dialect.SelectQuery]
	if filter.Category != nil {
		mods = append(mods, sm.Where(psql.Quote("category").EQ(psql.Arg(*filter.Category))))
	}
	if filter.From != nil {
		mods = append(mods, sm.Where(psql.Quote("date").GTE(psql.Arg(*filter.From))))
	}
	if filter.To != nil {
		mods = append(mods, sm.Where(psql.Quote("date").LT(psql.Arg(*filter.To))))
	}
	if filter.MaxCreationTime != nil {
		mods = append(mods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
	}
	return mods
}

// expectRows turns a zero-row write into notFound.
func expectRows(res sql.Result, err error) func(notFound error) error {
	return func(notFound error) error {
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound
		}
		return nil
	}
}
