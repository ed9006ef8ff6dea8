package sqlconfig

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage/settings"
)

var _ settings.ISettingsTable = (*SettingsTable)(nil)

// settingsRowID keys the single settings row.
const settingsRowID = 1

type SettingsTable struct {
	exec bob.Executor
}

func (s *SettingsTable) Get(ctx context.Context) (*ledger.Settings, error) {
	q := psql.Select(
		sm.Columns(
			psql.Quote("base_currency_1"),
			psql.Quote("base_currency_2"),
			psql.Quote("budget"),
			psql.Quote("initial_balance"),
		),
		sm.From(psql.Quote(settingsTable)),
		sm.Where(psql.Quote("id").EQ(psql.Arg(settingsRowID))),
	)
	row, err := bob.One(ctx, s.exec, q, scan.StructMapper[ledger.Settings]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *SettingsTable) Upsert(ctx context.Context, in *ledger.Settings) error {
	update := psql.Update(
		um.Table(psql.Quote(settingsTable)),
		um.SetCol("base_currency_1").ToArg(in.BaseCurrency1),
		um.SetCol("base_currency_2").ToArg(in.BaseCurrency2),
		um.SetCol("budget").ToArg(in.Budget),
		um.SetCol("initial_balance").ToArg(in.InitialBalance),
		um.Where(psql.Quote("id").EQ(psql.Arg(settingsRowID))),
	)
	res, err := bob.Exec(ctx, s.exec, update)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}

	insert := psql.Insert(
		im.Into(psql.Quote(settingsTable), "id", "base_currency_1", "base_currency_2", "budget", "initial_balance"),
		im.Values(
			psql.Arg(settingsRowID),
			psql.Arg(in.BaseCurrency1),
			psql.Arg(in.BaseCurrency2),
			psql.Arg(in.Budget),
			psql.Arg(in.InitialBalance),
		),
	)
	_, err = bob.Exec(ctx, s.exec, insert)
	return err
}
