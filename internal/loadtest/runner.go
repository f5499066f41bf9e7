package loadtest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	service "github.com/okian/launchdash/internal/app"
	"github.com/okian/launchdash/internal/domain/types"
	"github.com/okian/launchdash/pkg/logger"
)

// Run executes the complete load test. It fails on the first transport or
// status error; state mismatches are counted and reported as ErrIsolation
// once every session has finished.
func Run(ctx context.Context, config Config) (*Stats, error) {
	cfg := config.withDefaults()
	log := logger.Get().Named("loadtest")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting dashboard load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("sessions", cfg.Sessions),
		logger.Int("updatesPerSession", cfg.UpdatesPerSession),
		logger.Int("workers", cfg.Workers),
		logger.Bool("render", cfg.Render),
	)

	c := newClient(cfg)
	if err := c.health(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	controls, err := c.controls(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch controls: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Sessions; i++ {
		rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
		g.Go(func() error {
			return driveSession(gctx, c, cfg, controls, rng, stats)
		})
	}
	err = g.Wait()
	stats.Duration = time.Since(stats.StartTime)

	log.Info(ctx, "load test finished",
		logger.Int("sessions", int(atomic.LoadInt64(&stats.SessionsCreated))),
		logger.Int("updates", int(atomic.LoadInt64(&stats.Updates))),
		logger.Int("mismatches", int(atomic.LoadInt64(&stats.Mismatches))),
		logger.Duration("took", stats.Duration),
	)

	if err != nil {
		return stats, err
	}
	if n := atomic.LoadInt64(&stats.Mismatches); n > 0 {
		return stats, fmt.Errorf("%w: %d responses", ErrIsolation, n)
	}
	return stats, nil
}

// driveSession creates one session, walks it through random filter states
// and deletes it.
func driveSession(ctx context.Context, c *client, cfg Config, controls service.Controls, rng *rand.Rand, stats *Stats) error {
	view, err := c.createSession(ctx)
	if err != nil {
		return err
	}
	atomic.AddInt64(&stats.SessionsCreated, 1)
	mismatch(ctx, stats, verifyView(view, view.ID, controls.DefaultSite, controls.DefaultRange))

	for j := 0; j < cfg.UpdatesPerSession; j++ {
		want := randomState(rng, controls)

		updated, err := c.updateSession(ctx, view.ID, want)
		if err != nil {
			return err
		}
		atomic.AddInt64(&stats.Updates, 1)
		mismatch(ctx, stats, verifyView(updated, view.ID, want.Site, want.Payload))

		// A read after other sessions have written must still see our state.
		got, err := c.getSession(ctx, view.ID)
		if err != nil {
			return err
		}
		atomic.AddInt64(&stats.Reads, 1)
		mismatch(ctx, stats, verifyView(got, view.ID, want.Site, want.Payload))

		if cfg.Render {
			for _, chart := range []string{"pie", "scatter"} {
				drawn, err := c.render(ctx, chart, want)
				if err != nil {
					return err
				}
				atomic.AddInt64(&stats.Renders, 1)
				if !drawn {
					atomic.AddInt64(&stats.EmptyRenders, 1)
				}
			}
		}
	}

	return c.deleteSession(ctx, view.ID)
}

// randomState picks a site option and a payload range on the slider marks.
// Inverted ranges are allowed on purpose; they must yield empty scatters.
func randomState(rng *rand.Rand, controls service.Controls) types.FilterState {
	site := controls.Sites[rng.IntN(len(controls.Sites))].Value
	marks := controls.Marks
	lo := marks[rng.IntN(len(marks))].Value
	hi := marks[rng.IntN(len(marks))].Value
	return types.FilterState{Site: site, Payload: types.PayloadRange{Lower: lo, Upper: hi}}
}
