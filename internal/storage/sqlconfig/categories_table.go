package sqlconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage/category"
)

var _ category.ICategoryTable = (*CategoriesTable)(nil)

type CategoriesTable struct {
	exec bob.Executor
}

func (c *CategoriesTable) FindByLabel(ctx context.Context, label string) (*ledger.Category, error) {
	q := psql.Select(
		sm.Columns(psql.Quote("label"), psql.Quote("color"), psql.Quote("position")),
		sm.From(psql.Quote(categoriesTable)),
		sm.Where(psql.Quote("label").EQ(psql.Arg(label))),
	)
	row, err := bob.One(ctx, c.exec, q, scan.StructMapper[ledger.Category]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrCategoryNotFound, label)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *CategoriesTable) List(ctx context.Context) ([]*ledger.Category, error) {
	q := psql.Select(
		sm.Columns(psql.Quote("label"), psql.Quote("color"), psql.Quote("position")),
		sm.From(psql.Quote(categoriesTable)),
		sm.OrderBy(psql.Quote("position")).Asc(),
	)
	rows, err := bob.All(ctx, c.exec, q, scan.StructMapper[ledger.Category]())
	if err != nil {
		return nil, err
	}
	out := make([]*ledger.Category, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func (c *CategoriesTable) Count(ctx context.Context) (int, error) {
	q := psql.Select(
		sm.Columns("count(*)"),
		sm.From(psql.Quote(categoriesTable)),
	)
	n, err := bob.One(ctx, c.exec, q, scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Insert appends the category after the current last position.
func (c *CategoriesTable) Insert(ctx context.Context, cat *ledger.Category) error {
	q := psql.Insert(
		im.Into(psql.Quote(categoriesTable), "label", "color", "position"),
		im.Values(
			psql.Arg(cat.Label),
			psql.Arg(cat.Color),
			psql.Raw("(SELECT COALESCE(MAX(position) + 1, 0) FROM categories)"),
		),
	)
	_, err := bob.Exec(ctx, c.exec, q)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ledger.ErrDuplicateCategory, cat.Label)
	}
	return err
}

func (c *CategoriesTable) Rename(ctx context.Context, oldLabel, newLabel, color string) error {
	mods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(psql.Quote(categoriesTable)),
		um.SetCol("label").ToArg(newLabel),
		um.Where(psql.Quote("label").EQ(psql.Arg(oldLabel))),
	}
	if color != "" {
		mods = append(mods, um.SetCol("color").ToArg(color))
	}
	res, err := bob.Exec(ctx, c.exec, psql.Update(mods...))
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ledger.ErrDuplicateCategory, newLabel)
	}
	return expectRows(res, err)(fmt.Errorf("%w: %s", ledger.ErrCategoryNotFound, oldLabel))
}

func (c *CategoriesTable) Delete(ctx context.Context, label string) error {
	q := psql.Delete(
		dm.From(psql.Quote(categoriesTable)),
		dm.Where(psql.Quote("label").EQ(psql.Arg(label))),
	)
	return expectRows(bob.Exec(ctx, c.exec, q))(fmt.Errorf("%w: %s", ledger.ErrCategoryNotFound, label))
}
