package category

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

type mockCategoryService struct {
	mock.Mock
}

func (m *mockCategoryService) ListCategories(ctx context.Context) ([]*ledger.Category, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*ledger.Category)
	return list, args.Error(1)
}

func (m *mockCategoryService) AddCategory(ctx context.Context, label, color string) (*ledger.Category, error) {
	args := m.Called(ctx, label, color)
	c, _ := args.Get(0).(*ledger.Category)
	return c, args.Error(1)
}

func (m *mockCategoryService) RenameCategory(ctx context.Context, oldLabel, newLabel, color string) (*ledger.Category, int64, error) {
	args := m.Called(ctx, oldLabel, newLabel, color)
	c, _ := args.Get(0).(*ledger.Category)
	return c, args.Get(1).(int64), args.Error(2)
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, label string) (int64, error) {
	args := m.Called(ctx, label)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCategoryService) RankCategories(ctx context.Context, strategy, currencyCode string) ([]ledger.CategoryRank, error) {
	args := m.Called(ctx, strategy, currencyCode)
	ranks, _ := args.Get(0).([]ledger.CategoryRank)
	return ranks, args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockCategoryService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc).Register(api)
	NewRankingHandler(svc).Register(api)
	return api
}

// -- list tests --

func TestHTTP_ListCategories(t *testing.T) {
	svc := new(mockCategoryService)
	svc.On("ListCategories", mock.Anything).Return([]*ledger.Category{
		{Label: "Food", Color: "#111111", Position: 0},
	}, nil)

	resp := newTestAPI(t, svc).Get("/v1/category")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListCategoriesOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	require.Len(t, body.Body.Categories, 1)
	assert.Equal(t, "Food", body.Body.Categories[0].Label)
	assert.Contains(t, body.Body.Reserved, ledger.CategoryOther)
}

// -- add tests --

func TestHTTP_AddCategory(t *testing.T) {
	svc := new(mockCategoryService)
	svc.On("AddCategory", mock.Anything, "Gifts", "").Return(&ledger.Category{Label: "Gifts", Color: ledger.DefaultCategoryColor, Position: 3}, nil)

	resp := newTestAPI(t, svc).Post("/v1/category", map[string]any{"label": "Gifts"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, body.Position)
}

func TestHTTP_AddCategory_Errors(t *testing.T) {
	cases := map[error]int{
		ledger.ErrDuplicateCategory: http.StatusConflict,
		ledger.ErrReservedCategory:  http.StatusBadRequest,
		errors.New("boom"):          http.StatusInternalServerError,
	}
	for svcErr, want := range cases {
		svc := new(mockCategoryService)
		svc.On("AddCategory", mock.Anything, "Food", "").Return(nil, svcErr)

		resp := newTestAPI(t, svc).Post("/v1/category", map[string]any{"label": "Food"})
		assert.Equal(t, want, resp.Code, svcErr.Error())
	}
}

// -- rename and delete tests --

func TestHTTP_RenameCategory(t *testing.T) {
	svc := new(mockCategoryService)
	svc.On("RenameCategory", mock.Anything, "Food", "Groceries", "#ABCDEF").
		Return(&ledger.Category{Label: "Groceries", Color: "#ABCDEF"}, int64(4), nil)

	resp := newTestAPI(t, svc).Put("/v1/category/Food", map[string]any{"label": "Groceries", "color": "#ABCDEF"})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body RenameCategoryOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	assert.Equal(t, "Groceries", body.Body.Category.Label)
	assert.Equal(t, int64(4), body.Body.Reassigned)
}

func TestHTTP_RenameCategory_NotFound(t *testing.T) {
	svc := new(mockCategoryService)
	svc.On("RenameCategory", mock.Anything, "Nope", "X", "").Return(nil, int64(0), ledger.ErrCategoryNotFound)

	resp := newTestAPI(t, svc).Put("/v1/category/Nope", map[string]any{"label": "X"})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_DeleteCategory(t *testing.T) {
	svc := new(mockCategoryService)
	svc.On("DeleteCategory", mock.Anything, "Food").Return(int64(2), nil)

	resp := newTestAPI(t, svc).Delete("/v1/category/Food")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body DeleteCategoryOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	assert.Equal(t, int64(2), body.Body.Reassigned)
}

// -- ranking tests --

func TestHTTP_RankCategories(t *testing.T) {
	svc := new(mockCategoryService)
	svc.On("RankCategories", mock.Anything, "amount", "PLN").Return([]ledger.CategoryRank{
		{Label: "Food", Count: 2, Amount: decimal.RequireFromString("75")},
		{Label: ledger.CategoryOther},
	}, nil)

	resp := newTestAPI(t, svc).Post("/v1/category/ranking", map[string]any{"strategy": "amount", "currency": "PLN"})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body RankCategoriesOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	require.Len(t, body.Body.Categories, 2)
	assert.Equal(t, "75", body.Body.Categories[0].Amount)
}

func TestHTTP_RankCategories_UnknownStrategy(t *testing.T) {
	svc := new(mockCategoryService)

	resp := newTestAPI(t, svc).Post("/v1/category/ranking", map[string]any{"strategy": "random"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "RankCategories")
}
