// Package memory is an in-memory implementation of the storage tables.
// Writes are staged on a private copy of the data and published on Commit,
// so a rolled back (or failed) unit of work leaves no trace. Data is lost
// on restart; for persistence use the Postgres driver.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

var ErrTxDone = errors.New("memory: transaction already committed or rolled back")

type state struct {
	transactions map[uuid.UUID]*ledger.Transaction
	categories   []*ledger.Category
	settings     *ledger.Settings
}

func newState() *state {
	return &state{transactions: make(map[uuid.UUID]*ledger.Transaction)}
}

func (s *state) clone() *state {
	c := &state{
		transactions: make(map[uuid.UUID]*ledger.Transaction, len(s.transactions)),
		categories:   make([]*ledger.Category, len(s.categories)),
	}
	for id, tx := range s.transactions {
		c.transactions[id] = tx.Clone()
	}
	for i, cat := range s.categories {
		cp := *cat
		c.categories[i] = &cp
	}
	if s.settings != nil {
		cp := *s.settings
		c.settings = &cp
	}
	return c
}

// access runs fn against a state with the appropriate locking.
type access interface {
	read(fn func(*state) error) error
	write(fn func(*state) error) error
}

// Store is safe for concurrent use. Units of work are serialized: Begin
// blocks until the previous one is committed or rolled back.
type Store struct {
	mu      sync.RWMutex
	writeMu sync.Mutex
	data    *state

	failMu     sync.Mutex
	failCommit error
}

func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) read(fn func(*state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *Store) write(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// Transactions returns a table reading and writing committed data directly.
func (s *Store) Transactions() *TransactionTable {
	return &TransactionTable{access: s}
}

func (s *Store) Categories() *CategoryTable {
	return &CategoryTable{access: s}
}

func (s *Store) Settings() *SettingsTable {
	return &SettingsTable{access: s}
}

// FailNextCommit makes the next Commit return err without publishing.
func (s *Store) FailNextCommit(err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failCommit = err
}

func (s *Store) takeCommitFailure() error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	err := s.failCommit
	s.failCommit = nil
	return err
}

// Begin starts a unit of work over a snapshot of the committed data.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.writeMu.Lock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	return &Tx{store: s, data: snapshot}, nil
}

// Tx is a unit of work. It is not meant to be shared between goroutines.
type Tx struct {
	store *Store
	data  *state
	done  bool
}

func (t *Tx) read(fn func(*state) error) error {
	if t.done {
		return ErrTxDone
	}
	return fn(t.data)
}

func (t *Tx) write(fn func(*state) error) error {
	if t.done {
		return ErrTxDone
	}
	return fn(t.data)
}

func (t *Tx) Transactions() *TransactionTable {
	return &TransactionTable{access: t}
}

func (t *Tx) Categories() *CategoryTable {
	return &CategoryTable{access: t}
}

func (t *Tx) Settings() *SettingsTable {
	return &SettingsTable{access: t}
}

func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	defer t.store.writeMu.Unlock()

	if err := t.store.takeCommitFailure(); err != nil {
		return err
	}

	t.store.mu.Lock()
	t.store.data = t.data
	t.store.mu.Unlock()
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	t.store.writeMu.Unlock()
	return nil
}
