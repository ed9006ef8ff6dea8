package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/ledger"
)

type RankCategoriesInput struct {
	Body struct {
		Strategy string `json:"strategy,omitempty" enum:"count,alphabetical,amount" doc:"Ordering, defaults to count"`
		Currency string `json:"currency,omitempty" doc:"Currency of the amounts, defaults to the first base currency"`
	}
}

type CategoryRank struct {
	Label  string `json:"label"`
	Count  int    `json:"count" doc:"Number of transactions"`
	Amount string `json:"amount" doc:"Expenses in the requested currency"`
}

type RankCategoriesOutput struct {
	Body struct {
		Categories []CategoryRank `json:"categories"`
	}
}

type categoryRanker interface {
	RankCategories(ctx context.Context, strategy, currencyCode string) ([]ledger.CategoryRank, error)
}

// RankingHandler handles POST /v1/category/ranking.
type RankingHandler struct {
	SummaryService categoryRanker
}

func NewRankingHandler(svc categoryRanker) *RankingHandler {
	return &RankingHandler{SummaryService: svc}
}

func (h *RankingHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "rank-categories",
		Method:      http.MethodPost,
		Path:        "/v1/category/ranking",
		Summary:     "Rank categories",
		Description: "Orders the categories by usage count, label or expense amount.",
		Tags:        []string{"Categories"},
	}, h.handle)
}

func (h *RankingHandler) handle(ctx context.Context, input *RankCategoriesInput) (*RankCategoriesOutput, error) {
	ranks, err := h.SummaryService.RankCategories(ctx, input.Body.Strategy, input.Body.Currency)
	if err != nil {
		return nil, apierror.From(err, "failed to rank categories")
	}
	out := &RankCategoriesOutput{}
	out.Body.Categories = make([]CategoryRank, len(ranks))
	for i, r := range ranks {
		out.Body.Categories[i] = CategoryRank{Label: r.Label, Count: r.Count, Amount: r.Amount.String()}
	}
	return out, nil
}
