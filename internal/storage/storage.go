package storage

import (
	"context"
	"fmt"

	"github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/storage/memory"
	"github.com/carson-networks/budget-ledger/internal/storage/sqlconfig"
)

type Storage struct {
	*Reader

	begin func(ctx context.Context) (*Writer, error)
	close func() error
}

// NewStorage opens the driver selected by env.StorageDriver.
func NewStorage(env *config.Config) (*Storage, error) {
	switch env.StorageDriver {
	case config.StorageDriverMemory:
		return NewMemoryStorage(memory.NewStore()), nil
	case config.StorageDriverPostgres:
		db, err := sqlconfig.Open(env.PostgresDSN())
		if err != nil {
			return nil, err
		}
		return NewPostgresStorage(db), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", env.StorageDriver)
	}
}

func NewPostgresStorage(db *sqlconfig.DB) *Storage {
	return &Storage{
		Reader: NewReader(db.Transactions(), db.Categories(), db.Settings()),
		begin: func(ctx context.Context) (*Writer, error) {
			tx, err := db.Begin(ctx)
			if err != nil {
				return nil, err
			}
			return NewWriter(tx, tx.Transactions(), tx.Categories(), tx.Settings()), nil
		},
		close: db.Close,
	}
}

func NewMemoryStorage(store *memory.Store) *Storage {
	return &Storage{
		Reader: NewReader(store.Transactions(), store.Categories(), store.Settings()),
		begin: func(ctx context.Context) (*Writer, error) {
			tx, err := store.Begin(ctx)
			if err != nil {
				return nil, err
			}
			return NewWriter(tx, tx.Transactions(), tx.Categories(), tx.Settings()), nil
		},
		close: func() error { return nil },
	}
}

// Write starts a unit of work.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	return s.begin(ctx)
}

func (s *Storage) Close() error {
	return s.close()
}
