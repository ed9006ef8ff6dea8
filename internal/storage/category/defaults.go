package category

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type defaultsFile struct {
	Categories []struct {
		Label string `yaml:"label"`
		Color string `yaml:"color"`
	} `yaml:"categories"`
}

// Defaults returns the seed categories in display order.
func Defaults() ([]*ledger.Category, error) {
	return parseDefaults(defaultsYAML)
}

func parseDefaults(raw []byte) ([]*ledger.Category, error) {
	var file defaultsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("category defaults: %w", err)
	}

	out := make([]*ledger.Category, 0, len(file.Categories))
	seen := make(map[string]struct{}, len(file.Categories))
	for i, c := range file.Categories {
		label, err := ledger.NormalizeLabel(c.Label)
		if err != nil {
			return nil, fmt.Errorf("category defaults: entry %d: %w", i, err)
		}
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("category defaults: %w: %s", ledger.ErrDuplicateCategory, label)
		}
		seen[label] = struct{}{}

		color := c.Color
		if color == "" {
			color = ledger.DefaultCategoryColor
		}
		out = append(out, &ledger.Category{Label: label, Color: color, Position: i})
	}
	return out, nil
}
