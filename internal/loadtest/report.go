package loadtest

import (
	"fmt"
	"time"

	"github.com/okian/launchdash/internal/format"
)

// Report renders stats as a table.
func Report(stats *Stats, m format.Mode) string {
	t := format.NewTable(m)
	t.Title("Load test")
	t.Header("Metric", "Value")
	t.Row("Sessions", stats.SessionsCreated)
	t.Row("Updates", stats.Updates)
	t.Row("Reads", stats.Reads)
	t.Row("Renders", stats.Renders)
	t.Row("Empty renders", stats.EmptyRenders)
	t.Row("Mismatches", stats.Mismatches)
	t.Row("Duration", stats.Duration.Round(time.Millisecond).String())
	if stats.Duration > 0 {
		requests := stats.SessionsCreated*2 + stats.Updates + stats.Reads + stats.Renders
		t.Row("Requests/s", fmt.Sprintf("%.1f", float64(requests)/stats.Duration.Seconds()))
	}
	t.AlignRight(2)
	return t.String()
}
