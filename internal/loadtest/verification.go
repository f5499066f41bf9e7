package loadtest

import (
	"context"
	"fmt"
	"sync/atomic"

	service "github.com/okian/launchdash/internal/app"
	"github.com/okian/launchdash/internal/domain/types"
	"github.com/okian/launchdash/pkg/logger"
)

// verifyView checks that a session response carries the expected id and
// state, and that both charts were computed for that state.
func verifyView(v service.SessionView, id, site string, payload types.PayloadRange) error {
	switch {
	case v.ID != id:
		return fmt.Errorf("session id %q, want %q", v.ID, id)
	case v.State.Site != site:
		return fmt.Errorf("session %s: site %q, want %q", id, v.State.Site, site)
	case v.State.Payload != payload:
		return fmt.Errorf("session %s: range %v, want %v", id, v.State.Payload, payload)
	case v.Pie.Site != site || v.Scatter.Site != site:
		return fmt.Errorf("session %s: charts computed for %q/%q, want %q", id, v.Pie.Site, v.Scatter.Site, site)
	}
	for _, p := range v.Scatter.Points {
		if !payload.Contains(p.X) {
			return fmt.Errorf("session %s: point at %g outside %v", id, p.X, payload)
		}
		if site != types.AllSites && p.Site != site {
			return fmt.Errorf("session %s: point from %q in %q chart", id, p.Site, site)
		}
	}
	return nil
}

// mismatch counts and logs a failed verification.
func mismatch(ctx context.Context, stats *Stats, err error) {
	if err == nil {
		return
	}
	atomic.AddInt64(&stats.Mismatches, 1)
	logger.Get().Warn(ctx, "session state mismatch", logger.Error(err))
}
