package ledger

import (
	"fmt"
	"strings"
)

const DefaultCategoryColor = "#8E8E93"

// Category is a user defined label. Color is display-only.
type Category struct {
	Label    string `db:"label"`
	Color    string `db:"color"`
	Position int    `db:"position"`
}

// NormalizeLabel trims label and rejects blank or reserved names.
func NormalizeLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", ErrBlankCategory
	}
	if IsReservedCategory(label) {
		return "", fmt.Errorf("%w: %s", ErrReservedCategory, label)
	}
	return label, nil
}
