package sqlconfig

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/stephenafamo/bob"
)

const (
	transactionsTable = "transactions"
	categoriesTable   = "categories"
	settingsTable     = "ledger_settings"
)

// DB is the Postgres backend. Tables obtained from DB autocommit; tables
// obtained from a Tx share its transaction.
type DB struct {
	sqlDB *sql.DB
	exec  bob.DB
}

// Open connects with lib/pq. The connection is verified lazily by the
// first query.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return NewDB(db), nil
}

func NewDB(db *sql.DB) *DB {
	return &DB{sqlDB: db, exec: bob.NewDB(db)}
}

func (d *DB) Ping(ctx context.Context) error {
	return d.sqlDB.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.sqlDB.Close()
}

func (d *DB) Transactions() *TransactionsTable {
	return &TransactionsTable{exec: d.exec}
}

func (d *DB) Categories() *CategoriesTable {
	return &CategoriesTable{exec: d.exec}
}

func (d *DB) Settings() *SettingsTable {
	return &SettingsTable{exec: d.exec}
}

func (d *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := d.exec.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

type Tx struct {
	tx bob.Tx
}

func (t *Tx) Transactions() *TransactionsTable {
	return &TransactionsTable{exec: t.tx}
}

func (t *Tx) Categories() *CategoriesTable {
	return &CategoriesTable{exec: t.tx}
}

func (t *Tx) Settings() *SettingsTable {
	return &SettingsTable{exec: t.tx}
}

func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// isUniqueViolation checks for PostgreSQL error code 23505.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
