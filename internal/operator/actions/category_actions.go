package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

type AddCategory struct {
	Label string
	Color string

	// Set by Perform.
	Created *ledger.Category

	IAction
}

func (a *AddCategory) Perform(ctx context.Context, writer *storage.Writer) error {
	label, err := ledger.NormalizeLabel(a.Label)
	if err != nil {
		return err
	}
	color := strings.TrimSpace(a.Color)
	if color == "" {
		color = ledger.DefaultCategoryColor
	}

	if err = writer.Category.Insert(ctx, &ledger.Category{Label: label, Color: color}); err != nil {
		return err
	}
	a.Created, err = writer.Category.FindByLabel(ctx, label)
	return err
}

// RenameCategory rekeys a category and rewrites every transaction carrying
// the old label. Color replaces the stored color unless empty.
type RenameCategory struct {
	OldLabel string
	NewLabel string
	Color    string

	// Set by Perform.
	Renamed    *ledger.Category
	Reassigned int64

	IAction
}

func (r *RenameCategory) Perform(ctx context.Context, writer *storage.Writer) error {
	oldLabel, err := mutableLabel(r.OldLabel)
	if err != nil {
		return err
	}
	newLabel, err := ledger.NormalizeLabel(r.NewLabel)
	if err != nil {
		return err
	}
	if _, err = writer.Category.FindByLabel(ctx, oldLabel); err != nil {
		return err
	}

	if r.Reassigned, err = writer.Transaction.ReassignCategory(ctx, oldLabel, newLabel); err != nil {
		return err
	}
	if err = writer.Category.Rename(ctx, oldLabel, newLabel, strings.TrimSpace(r.Color)); err != nil {
		return err
	}
	r.Renamed, err = writer.Category.FindByLabel(ctx, newLabel)
	return err
}

// DeleteCategory removes a category and files its transactions under Other.
type DeleteCategory struct {
	Label string

	// Set by Perform.
	Reassigned int64

	IAction
}

func (d *DeleteCategory) Perform(ctx context.Context, writer *storage.Writer) error {
	label, err := mutableLabel(d.Label)
	if err != nil {
		return err
	}
	if _, err = writer.Category.FindByLabel(ctx, label); err != nil {
		return err
	}

	if d.Reassigned, err = writer.Transaction.ReassignCategory(ctx, label, ledger.CategoryOther); err != nil {
		return err
	}
	return writer.Category.Delete(ctx, label)
}

// SeedCategories inserts Defaults when the registry is empty.
type SeedCategories struct {
	Defaults []*ledger.Category

	// Set by Perform.
	Seeded int

	IAction
}

func (s *SeedCategories) Perform(ctx context.Context, writer *storage.Writer) error {
	n, err := writer.Category.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, c := range s.Defaults {
		if err = writer.Category.Insert(ctx, c); err != nil {
			return err
		}
		s.Seeded++
	}
	return nil
}

func mutableLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", ledger.ErrBlankCategory
	}
	if ledger.IsReservedCategory(label) {
		return "", fmt.Errorf("%w: %s", ledger.ErrReservedCategory, label)
	}
	return label, nil
}
