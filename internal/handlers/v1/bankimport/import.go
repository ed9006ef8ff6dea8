package bankimport

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

// defaultWindow is the statement period fetched when no bounds are given.
const defaultWindow = 24 * time.Hour

type ImportBody struct {
	From string `json:"from,omitempty" format:"date-time" doc:"Start of the statement period, defaults to 24h before to"`
	To   string `json:"to,omitempty" format:"date-time" doc:"End of the statement period, defaults to now"`
}

type ImportInput struct {
	Body ImportBody
}

type ImportOutput struct {
	Body struct {
		Imported   int `json:"imported"`
		Duplicates int `json:"duplicates" doc:"Records already in the ledger"`
		Skipped    int `json:"skipped" doc:"Malformed records"`
	}
}

type importer interface {
	Import(ctx context.Context, from, to time.Time) (*actions.ImportResult, error)
}

// Handler handles POST /v1/import.
type Handler struct {
	ImportService importer
	now           func() time.Time
}

func NewHandler(svc importer) *Handler {
	return &Handler{ImportService: svc, now: time.Now}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "import-statement",
		Method:      http.MethodPost,
		Path:        "/v1/import",
		Summary:     "Import bank statement",
		Description: "Fetches the bank statement for a period and merges it into the ledger. Records already imported are skipped.",
		Tags:        []string{"Import"},
	}, h.handle)
}

func (h *Handler) window(body ImportBody) (time.Time, time.Time, error) {
	to := h.now().UTC()
	parsed, err := apierror.ParseTime("to", body.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if parsed != nil {
		to = *parsed
	}

	from := to.Add(-defaultWindow)
	if parsed, err = apierror.ParseTime("from", body.From); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if parsed != nil {
		from = *parsed
	}
	return from, to, nil
}

func (h *Handler) handle(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	from, to, err := h.window(input.Body)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.Timing(ctx, "importMs")
	result, err := h.ImportService.Import(ctx, from, to)
	stopTimer()
	if err != nil {
		return nil, apierror.From(err, "failed to import statement")
	}
	logging.AddData(ctx, "imported", result.Imported)

	out := &ImportOutput{}
	out.Body.Imported = result.Imported
	out.Body.Duplicates = result.Duplicates
	out.Body.Skipped = result.Skipped
	return out, nil
}
