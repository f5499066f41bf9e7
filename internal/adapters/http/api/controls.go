package api

import (
	"net/http"

	service "github.com/okian/launchdash/internal/app"
)

// ControlsDependencies exposes the dashboard control metadata.
type ControlsDependencies interface {
	Ready() error
	Controls() service.Controls
}

// ControlsHandler handles control metadata requests.
type ControlsHandler struct {
	deps ControlsDependencies
}

// NewControlsHandler creates a new controls handler.
func NewControlsHandler(deps ControlsDependencies) *ControlsHandler {
	return &ControlsHandler{deps: deps}
}

// HandleGetControls handles GET /api/controls requests.
func (h *ControlsHandler) HandleGetControls(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.Ready(); err != nil {
		writeFailure(r.Context(), w, Wrap("api.get_controls", err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Controls())
}
