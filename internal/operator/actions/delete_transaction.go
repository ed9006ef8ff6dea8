package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/storage"
)

type DeleteTransaction struct {
	ID uuid.UUID

	IAction
}

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Transaction.Delete(ctx, d.ID)
}
