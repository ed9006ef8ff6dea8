package status

import (
	"context"
	"errors"
	"net/http"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
)

type settingsReader interface {
	GetSettings(ctx context.Context) (*ledger.Settings, error)
}

// Handler reports whether the ledger can serve requests: storage is
// reachable and the settings row exists.
type Handler struct {
	Settings settingsReader
}

func NewHandler(settings settingsReader) Handler {
	return Handler{Settings: settings}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	endTimer := logData.AddTiming("settingsMs")
	_, err := h.Settings.GetSettings(req.Context())
	endTimer()
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return err
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
