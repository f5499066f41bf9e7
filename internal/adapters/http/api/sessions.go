package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	service "github.com/okian/launchdash/internal/app"
	"github.com/okian/launchdash/internal/domain/types"
)

// SessionDependencies manages per-client filter state.
type SessionDependencies interface {
	CreateSession(ctx context.Context) (service.SessionView, error)
	GetSession(ctx context.Context, id string) (service.SessionView, error)
	UpdateSession(ctx context.Context, id string, p service.Patch) (service.SessionView, error)
	DeleteSession(ctx context.Context, id string) error
}

// SessionsHandler handles session requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// patchRequest mirrors the OpenAPI schema for PATCH /api/sessions/{id}.
type patchRequest struct {
	Site         *string    `json:"site"`
	PayloadRange *[]float64 `json:"payload_range"`
}

func (p patchRequest) toPatch() (service.Patch, error) {
	var out service.Patch
	if p.Site != nil {
		site := strings.TrimSpace(*p.Site)
		if site == "" {
			return out, errors.New("site must not be empty")
		}
		out.Site = &site
	}
	if p.PayloadRange != nil {
		r := *p.PayloadRange
		if len(r) != 2 {
			return out, fmt.Errorf("payload_range must hold 2 values, got %d", len(r))
		}
		out.Payload = &types.PayloadRange{Lower: r[0], Upper: r[1]}
	}
	return out, nil
}

// HandleCreate handles POST /api/sessions requests.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	view, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	w.Header().Set("Location", "/api/sessions/"+view.ID)
	writeJSON(w, http.StatusCreated, view)
}

// HandleSession handles GET, PATCH and DELETE /api/sessions/{id} requests.
func (h *SessionsHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if id == "" || strings.Contains(id, "/") {
		writeFailure(r.Context(), w, NewKind("api.session", ErrBadRequest))
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPatch:
		h.patch(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.get_session"
	view, err := h.deps.GetSession(r.Context(), id)
	if err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SessionsHandler) patch(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.update_session"
	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeFailure(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := req.toPatch()
	if err != nil {
		writeFailure(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	view, err := h.deps.UpdateSession(r.Context(), id, p)
	if err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SessionsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.delete_session"
	if err := h.deps.DeleteSession(r.Context(), id); err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
