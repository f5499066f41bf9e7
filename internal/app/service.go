// Package service provides the dashboard service that implements the
// dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/launchdash/internal/adapters/render"
	"github.com/okian/launchdash/internal/adapters/repository"
	"github.com/okian/launchdash/internal/adapters/session"
	"github.com/okian/launchdash/internal/domain/aggregate"
	"github.com/okian/launchdash/internal/domain/chart"
	"github.com/okian/launchdash/internal/domain/filter"
	"github.com/okian/launchdash/internal/domain/model"
	"github.com/okian/launchdash/internal/domain/types"
	"github.com/okian/launchdash/pkg/logger"
	"github.com/okian/launchdash/pkg/metrics"
)

// Chart names used in metrics labels.
const (
	chartPie     = "pie"
	chartScatter = "scatter"
)

// Slider describes the payload range control.
type Slider struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Marks returns one labelled tick per step, from Min to Max inclusive.
func (sl Slider) Marks() []Mark {
	var marks []Mark
	for v := sl.Min; v <= sl.Max; v += sl.Step {
		marks = append(marks, Mark{Value: v, Label: fmt.Sprintf("%g", v)})
	}
	return marks
}

// Mark is a labelled slider tick.
type Mark struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// SiteOption is one entry of the site selector.
type SiteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Controls is everything a client needs to draw the dashboard controls.
type Controls struct {
	Sites        []SiteOption       `json:"sites"`
	DefaultSite  string             `json:"default_site"`
	Slider       Slider             `json:"slider"`
	Marks        []Mark             `json:"marks"`
	DefaultRange types.PayloadRange `json:"default_range"`
}

// View is a filter state together with the charts derived from it.
type View struct {
	State   types.FilterState `json:"state"`
	Pie     chart.PieSpec     `json:"pie"`
	Scatter chart.ScatterSpec `json:"scatter"`
}

// SessionView is the View of a named session.
type SessionView struct {
	ID string `json:"id"`
	View
}

// Patch is a partial FilterState update. Nil fields are left unchanged.
type Patch struct {
	Site    *string
	Payload *types.PayloadRange
}

// Service computes dashboard charts from a read-only launch dataset.
type Service struct {
	mu sync.RWMutex

	// Core components
	source    repository.Source
	preloaded *model.Dataset
	dataset   *model.Dataset
	sessions  session.Store
	renderer  *render.Renderer

	// Configuration
	slider                Slider
	maxSessions           int
	pieHonorsPayloadRange bool
	chartWidth            int
	chartHeight           int

	// State
	started      bool
	defaultRange types.PayloadRange

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		slider:      Slider{Min: 0, Max: 10_000, Step: 2_500},
		maxSessions: 10_000,
		chartWidth:  800,
		chartHeight: 500,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset and prepares the session store. A dataset that
// cannot be loaded is a fatal error.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...")

	ds := s.preloaded
	if ds == nil {
		if s.source == nil {
			return ErrNoDataset
		}
		loaded, err := s.source.Load(ctx)
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		ds = loaded
	}
	s.dataset = ds

	// The default selection spans every payload in the data.
	if lo, hi, ok := ds.PayloadBounds(); ok {
		s.defaultRange = types.PayloadRange{Lower: lo, Upper: hi}
	} else {
		s.defaultRange = types.PayloadRange{Lower: s.slider.Min, Upper: s.slider.Max}
	}

	s.sessions = session.NewInMemoryStore(session.WithMaxSize(s.maxSessions))
	s.renderer = render.New(
		render.WithSize(s.chartWidth, s.chartHeight),
		render.WithLogger(s.logger.Named("render")),
	)

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("records", ds.Len()),
		logger.Float64("defaultLower", s.defaultRange.Lower),
		logger.Float64("defaultUpper", s.defaultRange.Upper),
		logger.Int("maxSessions", s.maxSessions),
		logger.Bool("pieHonorsPayloadRange", s.pieHonorsPayloadRange),
	)

	return nil
}

// Stop releases the dataset and drops all sessions.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping dashboard service...")
	s.dataset = nil
	s.sessions = nil
	s.renderer = nil
	metrics.UpdateActiveSessions(0)

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// Ready returns ErrNotStarted until Start has loaded the dataset.
func (s *Service) Ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Dataset returns the loaded dataset, or nil before Start.
func (s *Service) Dataset() *model.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Controls returns the site options and payload slider configuration.
func (s *Service) Controls() Controls {
	sites := make([]SiteOption, 0, len(types.KnownSites)+1)
	sites = append(sites, SiteOption{Label: "All Sites", Value: types.AllSites})
	for _, site := range types.KnownSites {
		sites = append(sites, SiteOption{Label: site, Value: site})
	}
	return Controls{
		Sites:        sites,
		DefaultSite:  types.AllSites,
		Slider:       s.slider,
		Marks:        s.slider.Marks(),
		DefaultRange: s.DefaultState().Payload,
	}
}

// DefaultState is the selection a new session starts with.
func (s *Service) DefaultState() types.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.FilterState{Site: types.AllSites, Payload: s.defaultRange}
}

// Outcomes returns the summary behind the pie chart for state.
func (s *Service) Outcomes(state types.FilterState) aggregate.Summary {
	ds := s.Dataset()
	start := time.Now()

	var records []model.LaunchRecord
	if s.pieHonorsPayloadRange {
		records = filter.ForScatter(ds, state.Site, state.Payload)
	} else {
		records = filter.ForPie(ds, state.Site)
	}
	metrics.RecordFilterLatency(sinceMs(start))

	mode := aggregate.SuccessFailure
	if state.Site == types.AllSites {
		mode = aggregate.PerSite
	}
	return aggregate.Aggregate(records, mode)
}

// Pie computes the outcome pie chart for state.
func (s *Service) Pie(ctx context.Context, state types.FilterState) chart.PieSpec {
	spec := chart.BindPie(s.Outcomes(state), state.Site)
	metrics.RecordChartComputation(chartPie, "spec")
	s.debug(ctx, chartPie, state)
	return spec
}

// Scatter computes the payload vs. outcome scatter chart for state.
func (s *Service) Scatter(ctx context.Context, state types.FilterState) chart.ScatterSpec {
	start := time.Now()
	subset := filter.ForScatter(s.Dataset(), state.Site, state.Payload)
	metrics.RecordFilterLatency(sinceMs(start))

	spec := chart.BindScatter(subset, state.Site)
	metrics.RecordChartComputation(chartScatter, "spec")
	s.debug(ctx, chartScatter, state)
	return spec
}

// View computes both charts for state.
func (s *Service) View(ctx context.Context, state types.FilterState) View {
	return View{
		State:   state,
		Pie:     s.Pie(ctx, state),
		Scatter: s.Scatter(ctx, state),
	}
}

// RenderPie draws the pie chart for state as PNG.
func (s *Service) RenderPie(ctx context.Context, state types.FilterState) ([]byte, error) {
	r, err := s.render()
	if err != nil {
		return nil, err
	}
	img, err := r.Pie(ctx, s.Pie(ctx, state))
	if err != nil {
		return nil, err
	}
	metrics.RecordChartComputation(chartPie, "png")
	return img, nil
}

// RenderScatter draws the scatter chart for state as PNG.
func (s *Service) RenderScatter(ctx context.Context, state types.FilterState) ([]byte, error) {
	r, err := s.render()
	if err != nil {
		return nil, err
	}
	img, err := r.Scatter(ctx, s.Scatter(ctx, state))
	if err != nil {
		return nil, err
	}
	metrics.RecordChartComputation(chartScatter, "png")
	return img, nil
}

// CreateSession starts a session at the default state.
func (s *Service) CreateSession(ctx context.Context) (SessionView, error) {
	store, err := s.store()
	if err != nil {
		return SessionView{}, err
	}
	state := s.DefaultState()
	id := store.Create(ctx, state)
	s.logger.Debug(ctx, "session created", logger.String("session", id))
	return SessionView{ID: id, View: s.View(ctx, state)}, nil
}

// GetSession returns the current view of session id.
func (s *Service) GetSession(ctx context.Context, id string) (SessionView, error) {
	store, err := s.store()
	if err != nil {
		return SessionView{}, err
	}
	state, err := store.Get(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	return SessionView{ID: id, View: s.View(ctx, state)}, nil
}

// UpdateSession applies p to session id and returns the recomputed view.
// Unknown sites and inverted ranges are accepted; they produce empty charts.
func (s *Service) UpdateSession(ctx context.Context, id string, p Patch) (SessionView, error) {
	store, err := s.store()
	if err != nil {
		return SessionView{}, err
	}
	state, err := store.Update(ctx, id, func(st types.FilterState) types.FilterState {
		if p.Site != nil {
			st.Site = *p.Site
		}
		if p.Payload != nil {
			st.Payload = *p.Payload
		}
		return st
	})
	if err != nil {
		return SessionView{}, err
	}
	return SessionView{ID: id, View: s.View(ctx, state)}, nil
}

// DeleteSession removes session id.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	store, err := s.store()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug(ctx, "session deleted", logger.String("session", id))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":               s.started,
		"maxSessions":           s.maxSessions,
		"pieHonorsPayloadRange": s.pieHonorsPayloadRange,
	}

	if s.started {
		missingPayload, missingClass := s.dataset.MissingCounts()
		stats["records"] = s.dataset.Len()
		stats["missingPayload"] = missingPayload
		stats["missingClass"] = missingClass
		stats["defaultRange"] = s.defaultRange
		stats["activeSessions"] = s.sessions.Size()

		metrics.UpdateDatasetRecords(s.dataset.Len())
		metrics.UpdateActiveSessions(int(s.sessions.Size()))
	}

	return stats
}

func (s *Service) store() (session.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.sessions, nil
}

func (s *Service) render() (*render.Renderer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.renderer, nil
}

func (s *Service) debug(ctx context.Context, name string, state types.FilterState) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(ctx, "chart computed",
		logger.String("chart", name),
		logger.String("site", state.Site),
		logger.Float64("lower", state.Payload.Lower),
		logger.Float64("upper", state.Payload.Upper),
	)
}

func sinceMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
