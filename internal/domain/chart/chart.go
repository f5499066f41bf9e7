// Package chart maps filtered and aggregated launch data to chart specifications.
//
// Specifications are plain data. Rendering them is left to the caller: the
// dashboard page draws them in the browser and the render adapter turns them
// into PNG images.
package chart

import (
	"github.com/okian/launchdash/internal/domain/aggregate"
	"github.com/okian/launchdash/internal/domain/model"
	"github.com/okian/launchdash/internal/domain/types"
)

// Dataset column names, used as chart field labels.
const (
	FieldSite            = "Launch Site"
	FieldPayloadMass     = "Payload Mass (kg)"
	FieldClass           = "class"
	FieldBoosterCategory = "Booster Version Category"
)

// Slice labels for the single-site pie chart.
const (
	LabelSuccess = "Success"
	LabelFailed  = "Failed"
)

const (
	pieTitlePrefix     = "Launch Success Rate - "
	scatterTitlePrefix = "Payload vs. Outcome - "
	allSitesLabel      = "All Sites"
)

// Slice is one pie segment.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PieSpec describes the launch outcome pie chart.
type PieSpec struct {
	Title     string  `json:"title"`
	Site      string  `json:"site"`
	NameField string  `json:"name_field"`
	Slices    []Slice `json:"slices"`
}

// Total returns the sum of all slice values.
func (p PieSpec) Total() float64 {
	var t float64
	for _, s := range p.Slices {
		t += s.Value
	}
	return t
}

// Point is one scatter marker.
type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Category string  `json:"category"`
	Site     string  `json:"site"`
}

// ScatterSpec describes the payload mass vs. outcome scatter chart.
type ScatterSpec struct {
	Title      string  `json:"title"`
	Site       string  `json:"site"`
	XField     string  `json:"x_field"`
	YField     string  `json:"y_field"`
	ColorField string  `json:"color_field"`
	Points     []Point `json:"points"`
	// Omitted counts records lacking a payload or a class, which cannot be plotted.
	Omitted int `json:"omitted"`
}

// Categories returns the distinct point categories in order of first appearance.
func (s ScatterSpec) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.Points {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// BindPie builds the pie chart for site. For AllSites it expects a PerSite
// summary and draws one slice of successful launches per site; otherwise it
// expects a SuccessFailure summary and draws Success and Failed slices.
func BindPie(summary aggregate.Summary, site string) PieSpec {
	if site == types.AllSites {
		slices := make([]Slice, 0, len(summary.Sites))
		for _, o := range summary.Sites {
			slices = append(slices, Slice{Label: o.Site, Value: float64(o.Successes)})
		}
		return PieSpec{
			Title:     pieTitlePrefix + allSitesLabel,
			Site:      site,
			NameField: FieldSite,
			Slices:    slices,
		}
	}
	return PieSpec{
		Title:     pieTitlePrefix + site,
		Site:      site,
		NameField: FieldClass,
		Slices: []Slice{
			{Label: LabelSuccess, Value: float64(summary.Counts.Success)},
			{Label: LabelFailed, Value: float64(summary.Counts.Failed)},
		},
	}
}

// BindScatter builds the scatter chart for subset, which must already be
// filtered for site and payload range.
func BindScatter(subset []model.LaunchRecord, site string) ScatterSpec {
	spec := ScatterSpec{
		Title:      scatterTitlePrefix + siteLabel(site),
		Site:       site,
		XField:     FieldPayloadMass,
		YField:     FieldClass,
		ColorField: FieldBoosterCategory,
		Points:     make([]Point, 0, len(subset)),
	}
	for _, r := range subset {
		if !r.PayloadMass.Valid || !r.Class.Valid {
			spec.Omitted++
			continue
		}
		spec.Points = append(spec.Points, Point{
			X:        r.PayloadMass.Value,
			Y:        r.Class.Value,
			Category: r.BoosterCategory,
			Site:     r.Site,
		})
	}
	return spec
}

func siteLabel(site string) string {
	if site == types.AllSites {
		return allSitesLabel
	}
	return site
}
