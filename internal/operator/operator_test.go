package operator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
	"github.com/carson-networks/budget-ledger/internal/storage/memory"
)

// addLabel inserts a category and optionally fails afterwards.
type addLabel struct {
	label string
	fail  error
}

func (a *addLabel) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := writer.Category.Insert(ctx, &ledger.Category{Label: a.label}); err != nil {
		return err
	}
	return a.fail
}

func newDelegator(t *testing.T) (*OperatorDelegator, *storage.Storage) {
	t.Helper()
	s := storage.NewMemoryStorage(memory.NewStore())
	d := NewOperatorDelegator(s, 1)
	d.Start()
	t.Cleanup(d.Stop)
	return d, s
}

func TestProcess_CommitsOnSuccess(t *testing.T) {
	d, s := newDelegator(t)

	require.NoError(t, d.Process(context.Background(), &addLabel{label: "Food"}))

	_, err := s.Categories.FindByLabel(context.Background(), "Food")
	assert.NoError(t, err)
}

func TestProcess_RollsBackOnError(t *testing.T) {
	d, s := newDelegator(t)

	err := d.Process(context.Background(), &addLabel{label: "Food", fail: errors.New("boom")})
	assert.EqualError(t, err, "boom")

	n, err := s.Categories.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcess_SerializesConcurrentCallers(t *testing.T) {
	d, s := newDelegator(t)

	labels := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, label := range labels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, d.Process(context.Background(), &addLabel{label: label}))
		}()
	}
	wg.Wait()

	list, err := s.Categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, len(labels))
	for i, c := range list {
		assert.Equal(t, i, c.Position)
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	d, _ := newDelegator(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Process(ctx, &addLabel{label: "Food"}), context.Canceled)
}

func TestProcess_AfterStop(t *testing.T) {
	d, _ := newDelegator(t)
	d.Stop()

	assert.ErrorIs(t, d.Process(context.Background(), &addLabel{label: "Food"}), ErrStopped)
}
