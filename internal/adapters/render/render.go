package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	dashchart "github.com/okian/launchdash/internal/domain/chart"
	"github.com/okian/launchdash/pkg/logger"
	"github.com/okian/launchdash/pkg/metrics"
)

const (
	defaultWidth  = 800
	defaultHeight = 500

	uncategorized = "(none)"
)

// Renderer turns chart specs into PNG images.
type Renderer struct {
	width  int
	height int
	logger logger.Logger
}

// New creates a renderer with configuration options.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		width:  defaultWidth,
		height: defaultHeight,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Pie renders spec as a pie chart. Zero-valued slices are not drawn; if no
// slice is left it returns ErrEmptyChart.
func (r *Renderer) Pie(ctx context.Context, spec dashchart.PieSpec) ([]byte, error) {
	values := make([]chart.Value, 0, len(spec.Slices))
	for _, s := range spec.Slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: s.Label, Value: s.Value})
	}
	if len(values) == 0 {
		return nil, ErrEmptyChart
	}

	pie := chart.PieChart{
		Title:  spec.Title,
		Width:  r.width,
		Height: r.height,
		Values: values,
	}
	return r.draw(ctx, "pie", pie.Render)
}

// Scatter renders spec as one point series per booster category, payload
// mass on the x axis and outcome class on the y axis.
func (r *Renderer) Scatter(ctx context.Context, spec dashchart.ScatterSpec) ([]byte, error) {
	if len(spec.Points) == 0 {
		return nil, ErrEmptyChart
	}

	series := make([]chart.Series, 0)
	for i, category := range spec.Categories() {
		var xs, ys []float64
		for _, p := range spec.Points {
			if p.Category == category {
				xs = append(xs, p.X)
				ys = append(ys, p.Y)
			}
		}
		name := category
		if name == "" {
			name = uncategorized
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(i),
		})
	}

	xMin, xMax := xBounds(spec.Points)
	ch := chart.Chart{
		Title:  spec.Title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  spec.XField,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  spec.YField,
			Range: &chart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []chart.Tick{
				{Value: 0, Label: "0"},
				{Value: 1, Label: "1"},
			},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return r.draw(ctx, "scatter", ch.Render)
}

func (r *Renderer) draw(ctx context.Context, name string, render func(chart.RendererProvider, io.Writer) error) ([]byte, error) {
	start := time.Now()
	var buf bytes.Buffer
	if err := render(chart.PNG, &buf); err != nil {
		metrics.RecordRenderError(name)
		if r.logger != nil {
			r.logger.Warn(ctx, "chart render failed", logger.String("chart", name), logger.Error(err))
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}
	metrics.RecordRenderLatency(name, float64(time.Since(start).Microseconds())/1000)
	return buf.Bytes(), nil
}

// pointStyle draws markers only, without connecting lines.
func pointStyle(i int) chart.Style {
	col := chart.GetDefaultColor(i)
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

// xBounds pads the payload range so a single distinct value still has a
// non-zero axis span.
func xBounds(points []dashchart.Point) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.X)
		hi = math.Max(hi, p.X)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 100
	}
	return lo - pad, hi + pad
}
