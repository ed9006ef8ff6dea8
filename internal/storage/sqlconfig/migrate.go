package sqlconfig

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/carson-networks/budget-ledger/migrations"
)

// MigrationResult reports the schema version before and after Migrate.
type MigrationResult struct {
	PreVersion  uint
	PostVersion uint
}

// Migrate applies every pending up migration.
func (d *DB) Migrate() (*MigrationResult, error) {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, err
	}

	driver, err := postgres.WithInstance(d.sqlDB, &postgres.Config{})
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, err
	}

	var result MigrationResult
	result.PreVersion, _, err = m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, err
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, err
	}

	result.PostVersion, _, err = m.Version()
	if err != nil {
		return nil, err
	}
	return &result, nil
}
