package settings

import (
	"context"
	"net/http"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/service"
)

type Settings struct {
	BaseCurrency1  string `json:"baseCurrency1"`
	BaseCurrency2  string `json:"baseCurrency2"`
	Budget         string `json:"budget"`
	InitialBalance string `json:"initialBalance"`
}

func fromLedger(s *ledger.Settings) Settings {
	return Settings{
		BaseCurrency1:  s.BaseCurrency1,
		BaseCurrency2:  s.BaseCurrency2,
		Budget:         s.Budget.String(),
		InitialBalance: s.InitialBalance.String(),
	}
}

type SettingsOutput struct {
	Body Settings
}

type UpdateSettingsBody struct {
	BaseCurrency1  *string `json:"baseCurrency1,omitempty"`
	BaseCurrency2  *string `json:"baseCurrency2,omitempty"`
	Budget         *string `json:"budget,omitempty"`
	InitialBalance *string `json:"initialBalance,omitempty"`
}

type UpdateSettingsInput struct {
	Body UpdateSettingsBody
}

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Base   bool   `json:"base" doc:"Whether this is one of the two base currencies"`
}

type ListCurrenciesOutput struct {
	Body struct {
		Currencies []Currency `json:"currencies"`
	}
}

type settingsService interface {
	GetSettings(ctx context.Context) (*ledger.Settings, error)
	UpdateSettings(ctx context.Context, in service.SettingsUpdate) (*ledger.Settings, error)
	ListCurrencies(ctx context.Context) ([]service.CurrencyInfo, error)
}

// Handler serves /v1/settings and /v1/currency.
type Handler struct {
	SettingsService settingsService
}

func NewHandler(svc settingsService) *Handler {
	return &Handler{SettingsService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-settings",
		Method:      http.MethodGet,
		Path:        "/v1/settings",
		Summary:     "Get settings",
		Tags:        []string{"Settings"},
	}, h.get)
	huma.Register(api, huma.Operation{
		OperationID: "update-settings",
		Method:      http.MethodPut,
		Path:        "/v1/settings",
		Summary:     "Update settings",
		Description: "Changes the base currencies, budget or initial balance.",
		Tags:        []string{"Settings"},
	}, h.update)
	huma.Register(api, huma.Operation{
		OperationID: "list-currencies",
		Method:      http.MethodGet,
		Path:        "/v1/currency",
		Summary:     "List currencies",
		Tags:        []string{"Settings"},
	}, h.currencies)
}

func (h *Handler) get(ctx context.Context, _ *struct{}) (*SettingsOutput, error) {
	s, err := h.SettingsService.GetSettings(ctx)
	if err != nil {
		return nil, apierror.From(err, "failed to read settings")
	}
	return &SettingsOutput{Body: fromLedger(s)}, nil
}

func amountField(field string, v *string) (omit.Val[decimal.Decimal], error) {
	if v == nil {
		return omit.Val[decimal.Decimal]{}, nil
	}
	d, err := ledger.ParseAmount(*v)
	if err != nil {
		return omit.Val[decimal.Decimal]{}, apierror.BadRequest("invalid "+field, err)
	}
	return omit.From(d), nil
}

func parseUpdateSettingsInput(input *UpdateSettingsInput) (service.SettingsUpdate, error) {
	var update service.SettingsUpdate
	var err error
	if input.Body.BaseCurrency1 != nil {
		update.BaseCurrency1 = omit.From(*input.Body.BaseCurrency1)
	}
	if input.Body.BaseCurrency2 != nil {
		update.BaseCurrency2 = omit.From(*input.Body.BaseCurrency2)
	}
	if update.Budget, err = amountField("budget", input.Body.Budget); err != nil {
		return update, err
	}
	if update.InitialBalance, err = amountField("initialBalance", input.Body.InitialBalance); err != nil {
		return update, err
	}
	return update, nil
}

func (h *Handler) update(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	update, err := parseUpdateSettingsInput(input)
	if err != nil {
		return nil, err
	}
	s, err := h.SettingsService.UpdateSettings(ctx, update)
	if err != nil {
		return nil, apierror.From(err, "failed to update settings")
	}
	return &SettingsOutput{Body: fromLedger(s)}, nil
}

func (h *Handler) currencies(ctx context.Context, _ *struct{}) (*ListCurrenciesOutput, error) {
	list, err := h.SettingsService.ListCurrencies(ctx)
	if err != nil {
		return nil, apierror.From(err, "failed to list currencies")
	}
	out := &ListCurrenciesOutput{}
	out.Body.Currencies = make([]Currency, len(list))
	for i, c := range list {
		out.Body.Currencies[i] = Currency{Code: c.Code, Symbol: c.Symbol, Base: c.Base}
	}
	return out, nil
}
