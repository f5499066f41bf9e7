package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/launchdash/internal/adapters/render"
	"github.com/okian/launchdash/internal/domain/chart"
	"github.com/okian/launchdash/internal/domain/types"
)

// ChartDependencies computes charts for a filter state.
type ChartDependencies interface {
	Ready() error
	DefaultState() types.FilterState
	Pie(ctx context.Context, state types.FilterState) chart.PieSpec
	Scatter(ctx context.Context, state types.FilterState) chart.ScatterSpec
	RenderPie(ctx context.Context, state types.FilterState) ([]byte, error)
	RenderScatter(ctx context.Context, state types.FilterState) ([]byte, error)
}

// ChartsHandler serves stateless chart requests. The filter state comes
// from the query string: site, min and max.
type ChartsHandler struct {
	deps ChartDependencies
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps ChartDependencies) *ChartsHandler {
	return &ChartsHandler{deps: deps}
}

// HandlePie handles GET /api/charts/pie requests.
func (h *ChartsHandler) HandlePie(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_pie"
	state, ok := h.state(w, r, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Pie(r.Context(), state))
}

// HandleScatter handles GET /api/charts/scatter requests.
func (h *ChartsHandler) HandleScatter(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scatter"
	state, ok := h.state(w, r, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Scatter(r.Context(), state))
}

// HandlePiePNG handles GET /api/charts/pie.png requests.
func (h *ChartsHandler) HandlePiePNG(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_pie_png"
	state, ok := h.state(w, r, op)
	if !ok {
		return
	}
	img, err := h.deps.RenderPie(r.Context(), state)
	writePNG(r.Context(), w, op, img, err)
}

// HandleScatterPNG handles GET /api/charts/scatter.png requests.
func (h *ChartsHandler) HandleScatterPNG(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scatter_png"
	state, ok := h.state(w, r, op)
	if !ok {
		return
	}
	img, err := h.deps.RenderScatter(r.Context(), state)
	writePNG(r.Context(), w, op, img, err)
}

// state parses the query into a filter state, writing a 400 on failure and
// a 503 while the service is not started.
func (h *ChartsHandler) state(w http.ResponseWriter, r *http.Request, op string) (types.FilterState, bool) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return types.FilterState{}, false
	}
	if err := h.deps.Ready(); err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return types.FilterState{}, false
	}
	state, err := parseState(r.URL.Query(), h.deps.DefaultState())
	if err != nil {
		writeFailure(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return types.FilterState{}, false
	}
	return state, true
}

// parseState overrides def with the site, min and max query parameters.
func parseState(q url.Values, def types.FilterState) (types.FilterState, error) {
	state := def
	if site := strings.TrimSpace(q.Get("site")); site != "" {
		state.Site = site
	}
	var err error
	if state.Payload.Lower, err = parseBound(q, "min", def.Payload.Lower); err != nil {
		return types.FilterState{}, err
	}
	if state.Payload.Upper, err = parseBound(q, "max", def.Payload.Upper); err != nil {
		return types.FilterState{}, err
	}
	return state, nil
}

func parseBound(q url.Values, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, nil
}

func writePNG(ctx context.Context, w http.ResponseWriter, op string, img []byte, err error) {
	if errors.Is(err, render.ErrEmptyChart) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeFailure(ctx, w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}
