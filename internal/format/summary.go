package format

import (
	"fmt"

	"github.com/okian/launchdash/internal/domain/aggregate"
	"github.com/okian/launchdash/internal/domain/chart"
)

// SiteTable lists successes, classified launches and success rate per site.
func SiteTable(title string, sites aggregate.SiteSummary, m Mode) string {
	t := NewTable(m)
	t.Title(title)
	t.Header("Site", "Successes", "Launches", "Rate")
	var successes, total int
	for _, s := range sites {
		t.Row(s.Site, s.Successes, s.Total, percent(s.Rate()))
		successes += s.Successes
		total += s.Total
	}
	all := aggregate.SiteOutcome{Successes: successes, Total: total}
	t.Footer("Total", successes, total, percent(all.Rate()))
	t.AlignRight(2, 3, 4)
	return t.String()
}

// OutcomeTable shows the success/failure split of one site.
func OutcomeTable(title string, c aggregate.OutcomeCounts, m Mode) string {
	t := NewTable(m)
	t.Title(title)
	t.Header("Outcome", "Launches")
	t.Row(chart.LabelSuccess, c.Success)
	t.Row(chart.LabelFailed, c.Failed)
	if c.Missing > 0 {
		t.Row("Unknown", c.Missing)
	}
	t.AlignRight(2)
	return t.String()
}

// ScatterTable counts plotted points per booster category and outcome.
func ScatterTable(spec chart.ScatterSpec, m Mode) string {
	type tally struct{ success, failed int }
	counts := make(map[string]*tally)
	for _, p := range spec.Points {
		c, ok := counts[p.Category]
		if !ok {
			c = &tally{}
			counts[p.Category] = c
		}
		if p.Y == 1 {
			c.success++
		} else {
			c.failed++
		}
	}

	t := NewTable(m)
	t.Title(spec.Title)
	t.Header(chart.FieldBoosterCategory, chart.LabelSuccess, chart.LabelFailed)
	for _, cat := range spec.Categories() {
		t.Row(cat, counts[cat].success, counts[cat].failed)
	}
	t.Footer(fmt.Sprintf("%d points, %d omitted", len(spec.Points), spec.Omitted), "", "")
	t.AlignRight(2, 3)
	return t.String()
}

func percent(r float64) string {
	return fmt.Sprintf("%.1f%%", r*100)
}
