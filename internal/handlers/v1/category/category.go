package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// Category is the API model for a registry entry.
type Category struct {
	Label    string `json:"label" doc:"Category label"`
	Color    string `json:"color" doc:"Display color"`
	Position int    `json:"position" doc:"Display position"`
}

func fromLedger(c *ledger.Category) Category {
	return Category{Label: c.Label, Color: c.Color, Position: c.Position}
}

// categoryService is the registry used by the category handlers.
type categoryService interface {
	ListCategories(ctx context.Context) ([]*ledger.Category, error)
	AddCategory(ctx context.Context, label, color string) (*ledger.Category, error)
	RenameCategory(ctx context.Context, oldLabel, newLabel, color string) (*ledger.Category, int64, error)
	DeleteCategory(ctx context.Context, label string) (int64, error)
}

// Handler serves /v1/category.
type Handler struct {
	CategoryService categoryService
}

func NewHandler(svc categoryService) *Handler {
	return &Handler{CategoryService: svc}
}

type ListCategoriesOutput struct {
	Body struct {
		Categories []Category `json:"categories"`
		Reserved   []string   `json:"reserved" doc:"Built-in labels that cannot be added, renamed or deleted"`
	}
}

type AddCategoryInput struct {
	Body struct {
		Label string `json:"label" required:"true" minLength:"1" doc:"Category label"`
		Color string `json:"color,omitempty" doc:"Display color, defaults to grey"`
	}
}

type CategoryOutput struct {
	Body Category
}

type LabelPath struct {
	Label string `path:"label" doc:"Category label"`
}

type RenameCategoryInput struct {
	LabelPath
	Body struct {
		Label string `json:"label" required:"true" minLength:"1" doc:"New label"`
		Color string `json:"color,omitempty" doc:"New display color, unchanged when empty"`
	}
}

type RenameCategoryOutput struct {
	Body struct {
		Category   Category `json:"category"`
		Reassigned int64    `json:"reassigned" doc:"Transactions moved to the new label"`
	}
}

type DeleteCategoryOutput struct {
	Body struct {
		Reassigned int64 `json:"reassigned" doc:"Transactions moved to Other"`
	}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/v1/category",
		Summary:     "List categories",
		Tags:        []string{"Categories"},
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID:   "add-category",
		Method:        http.MethodPost,
		Path:          "/v1/category",
		Summary:       "Add category",
		Tags:          []string{"Categories"},
		DefaultStatus: http.StatusCreated,
	}, h.add)
	huma.Register(api, huma.Operation{
		OperationID: "rename-category",
		Method:      http.MethodPut,
		Path:        "/v1/category/{label}",
		Summary:     "Rename category",
		Description: "Renames a category and relabels its transactions.",
		Tags:        []string{"Categories"},
	}, h.rename)
	huma.Register(api, huma.Operation{
		OperationID: "delete-category",
		Method:      http.MethodDelete,
		Path:        "/v1/category/{label}",
		Summary:     "Delete category",
		Description: "Deletes a category and moves its transactions to Other.",
		Tags:        []string{"Categories"},
	}, h.delete)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	categories, err := h.CategoryService.ListCategories(ctx)
	if err != nil {
		return nil, apierror.From(err, "failed to list categories")
	}
	out := &ListCategoriesOutput{}
	out.Body.Categories = make([]Category, len(categories))
	for i, c := range categories {
		out.Body.Categories[i] = fromLedger(c)
	}
	out.Body.Reserved = ledger.ReservedCategories()
	return out, nil
}

func (h *Handler) add(ctx context.Context, input *AddCategoryInput) (*CategoryOutput, error) {
	created, err := h.CategoryService.AddCategory(ctx, input.Body.Label, input.Body.Color)
	if err != nil {
		return nil, apierror.From(err, "failed to add category")
	}
	return &CategoryOutput{Body: fromLedger(created)}, nil
}

func (h *Handler) rename(ctx context.Context, input *RenameCategoryInput) (*RenameCategoryOutput, error) {
	renamed, moved, err := h.CategoryService.RenameCategory(ctx, input.Label, input.Body.Label, input.Body.Color)
	if err != nil {
		return nil, apierror.From(err, "failed to rename category")
	}
	out := &RenameCategoryOutput{}
	out.Body.Category = fromLedger(renamed)
	out.Body.Reassigned = moved
	return out, nil
}

func (h *Handler) delete(ctx context.Context, input *LabelPath) (*DeleteCategoryOutput, error) {
	moved, err := h.CategoryService.DeleteCategory(ctx, input.Label)
	if err != nil {
		return nil, apierror.From(err, "failed to delete category")
	}
	out := &DeleteCategoryOutput{}
	out.Body.Reassigned = moved
	return out, nil
}
