package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/okian/launchdash/internal/adapters/render"
	"github.com/okian/launchdash/internal/adapters/repository"
	"github.com/okian/launchdash/internal/adapters/session"
	service "github.com/okian/launchdash/internal/app"
	"github.com/okian/launchdash/internal/domain/chart"
	"github.com/okian/launchdash/internal/domain/model"
	"github.com/okian/launchdash/internal/domain/types"
	"github.com/okian/launchdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const fixture = "../adapters/repository/testdata/launches.csv"

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func startedService(opts ...service.Option) *service.Service {
	opts = append([]service.Option{
		service.WithSource(repository.NewCSVSource(fixture)),
	}, opts...)
	svc := service.New(opts...)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	So(svc.Start(ctx), ShouldBeNil)
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a service reading the fixture dataset", t, func() {
		svc := service.New(service.WithSource(repository.NewCSVSource(fixture)))
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should load every record", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["records"], ShouldEqual, 17)
				So(stats["missingPayload"], ShouldEqual, 2)
				So(stats["missingClass"], ShouldEqual, 1)
			})

			Convey("And the default state should span the dataset payloads", func() {
				So(svc.DefaultState(), ShouldResemble, types.FilterState{
					Site:    types.AllSites,
					Payload: types.PayloadRange{Lower: 0, Upper: 9600},
				})
			})
		})

		Convey("When starting twice", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			err := svc.Start(context.Background())

			Convey("Then the second start should be a no-op", func() {
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given a service whose dataset file does not exist", t, func() {
		svc := service.New(service.WithSource(repository.NewCSVSource("/no/such/file.csv")))

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should fail fast with an open error", func() {
				So(errors.Is(err, repository.ErrOpen), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a service without any dataset", t, func() {
		svc := service.New()

		Convey("Then Start should report the missing source", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoDataset), ShouldBeTrue)
		})
	})

	Convey("Given an injected dataset without payloads", t, func() {
		ds := model.NewDataset([]model.LaunchRecord{
			{Site: "KSC LC-39A", PayloadMass: model.Missing(), Class: model.Float(1)},
		})
		svc := service.New(service.WithDataset(ds), service.WithSlider(0, 8000, 2000))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the default range should fall back to the slider bounds", func() {
			So(svc.DefaultState().Payload, ShouldResemble, types.PayloadRange{Lower: 0, Upper: 8000})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService()

		Convey("Then it should be ready", func() {
			So(svc.Ready(), ShouldBeNil)
		})

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped and refuse sessions", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				_, err := svc.CreateSession(context.Background())
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(errors.Is(svc.Ready(), service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_Controls(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService()
		defer svc.Stop()

		Convey("When reading the controls", func() {
			c := svc.Controls()

			Convey("Then the site selector should offer all sites first", func() {
				So(len(c.Sites), ShouldEqual, 5)
				So(c.Sites[0].Value, ShouldEqual, types.AllSites)
				So(c.Sites[1].Value, ShouldEqual, "CCAFS LC-40")
				So(c.Sites[4].Value, ShouldEqual, "CCAFS SLC-40")
				So(c.DefaultSite, ShouldEqual, types.AllSites)
			})

			Convey("And the slider should use the standard bounds and marks", func() {
				So(c.Slider, ShouldResemble, service.Slider{Min: 0, Max: 10_000, Step: 2_500})
				So(len(c.Marks), ShouldEqual, 5)
				So(c.Marks[4].Label, ShouldEqual, "10000")
				So(c.DefaultRange, ShouldResemble, types.PayloadRange{Lower: 0, Upper: 9600})
			})
		})
	})
}

func TestService_Charts(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startedService()
		defer svc.Stop()
		def := svc.DefaultState()

		Convey("When all sites are selected", func() {
			pie := svc.Pie(ctx, def)
			scatter := svc.Scatter(ctx, def)

			Convey("Then the pie should show successes per site", func() {
				want := []chart.Slice{
					{Label: "CCAFS LC-40", Value: 1},
					{Label: "VAFB SLC-4E", Value: 1},
					{Label: "KSC LC-39A", Value: 4},
					{Label: "CCAFS SLC-40", Value: 2},
				}
				So(cmp.Diff(want, pie.Slices), ShouldBeEmpty)
				So(pie.Title, ShouldEqual, "Launch Success Rate - All Sites")
			})

			Convey("And the scatter should plot every record with a payload and class", func() {
				So(len(scatter.Points), ShouldEqual, 14)
				So(scatter.Omitted, ShouldEqual, 1)
				So(scatter.Title, ShouldEqual, "Payload vs. Outcome - All Sites")
			})
		})

		Convey("When a single site is selected", func() {
			state := types.FilterState{Site: "KSC LC-39A", Payload: def.Payload}
			view := svc.View(ctx, state)

			Convey("Then the pie should split successes and failures", func() {
				So(view.Pie.Slices, ShouldResemble, []chart.Slice{
					{Label: chart.LabelSuccess, Value: 4},
					{Label: chart.LabelFailed, Value: 1},
				})
				So(view.Pie.Title, ShouldEqual, "Launch Success Rate - KSC LC-39A")
			})

			Convey("And the scatter should only include that site within range", func() {
				So(len(view.Scatter.Points), ShouldEqual, 4)
				for _, p := range view.Scatter.Points {
					So(p.Site, ShouldEqual, "KSC LC-39A")
				}
				So(view.State, ShouldResemble, state)
			})
		})

		Convey("When the payload range is narrowed", func() {
			state := types.FilterState{Site: types.AllSites, Payload: types.PayloadRange{Lower: 2500, Upper: 5000}}

			Convey("Then only the scatter should change", func() {
				So(len(svc.Scatter(ctx, state).Points), ShouldEqual, 3)
				So(svc.Pie(ctx, state), ShouldResemble, svc.Pie(ctx, def))
			})
		})

		Convey("When the range is inverted or the site is unknown", func() {
			inverted := types.FilterState{Site: types.AllSites, Payload: types.PayloadRange{Lower: 5000, Upper: 2500}}
			unknown := types.FilterState{Site: "Mars", Payload: def.Payload}

			Convey("Then the charts should be empty without errors", func() {
				So(svc.Scatter(ctx, inverted).Points, ShouldBeEmpty)
				So(svc.Scatter(ctx, unknown).Points, ShouldBeEmpty)
				So(svc.Pie(ctx, unknown).Total(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a service whose pie honors the payload range", t, func() {
		ctx := context.Background()
		svc := startedService(service.WithPieHonorsPayloadRange(true))
		defer svc.Stop()

		Convey("When the payload range is narrowed", func() {
			pie := svc.Pie(ctx, types.FilterState{Site: types.AllSites, Payload: types.PayloadRange{Lower: 2500, Upper: 5000}})

			Convey("Then the pie should describe the same subset as the scatter", func() {
				So(pie.Slices, ShouldResemble, []chart.Slice{
					{Label: "CCAFS LC-40", Value: 0},
					{Label: "KSC LC-39A", Value: 1},
					{Label: "CCAFS SLC-40", Value: 1},
				})
			})
		})
	})
}

func TestService_Render(t *testing.T) {
	Convey("Given a started service with a small chart size", t, func() {
		ctx := context.Background()
		svc := startedService(service.WithChartSize(320, 240))
		defer svc.Stop()

		Convey("When rendering the default charts", func() {
			pie, pieErr := svc.RenderPie(ctx, svc.DefaultState())
			scatter, scatterErr := svc.RenderScatter(ctx, svc.DefaultState())

			Convey("Then both images should be produced", func() {
				So(pieErr, ShouldBeNil)
				So(scatterErr, ShouldBeNil)
				So(len(pie), ShouldBeGreaterThan, 0)
				So(len(scatter), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When rendering an empty selection", func() {
			state := types.FilterState{Site: "Mars", Payload: types.PayloadRange{Lower: 0, Upper: 100}}
			_, pieErr := svc.RenderPie(ctx, state)
			_, scatterErr := svc.RenderScatter(ctx, state)

			Convey("Then the renderer should report an empty chart", func() {
				So(errors.Is(pieErr, render.ErrEmptyChart), ShouldBeTrue)
				So(errors.Is(scatterErr, render.ErrEmptyChart), ShouldBeTrue)
			})
		})
	})
}

func TestService_Sessions(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startedService(service.WithMaxSessions(2))
		defer svc.Stop()

		Convey("When creating a session", func() {
			created, err := svc.CreateSession(ctx)
			So(err, ShouldBeNil)

			Convey("Then it should start at the default state", func() {
				So(created.ID, ShouldNotBeEmpty)
				So(created.State, ShouldResemble, svc.DefaultState())
				So(len(created.Scatter.Points), ShouldEqual, 14)
			})

			Convey("And updating the site should keep the payload range", func() {
				site := "VAFB SLC-4E"
				updated, err := svc.UpdateSession(ctx, created.ID, service.Patch{Site: &site})
				So(err, ShouldBeNil)
				So(updated.State.Site, ShouldEqual, site)
				So(updated.State.Payload, ShouldResemble, created.State.Payload)
				So(updated.Pie.Title, ShouldEqual, "Launch Success Rate - VAFB SLC-4E")

				got, err := svc.GetSession(ctx, created.ID)
				So(err, ShouldBeNil)
				So(got.State, ShouldResemble, updated.State)
			})

			Convey("And updating the range should not touch other sessions", func() {
				other, err := svc.CreateSession(ctx)
				So(err, ShouldBeNil)

				r := types.PayloadRange{Lower: 1000, Upper: 2000}
				_, err = svc.UpdateSession(ctx, created.ID, service.Patch{Payload: &r})
				So(err, ShouldBeNil)

				got, err := svc.GetSession(ctx, other.ID)
				So(err, ShouldBeNil)
				So(got.State, ShouldResemble, svc.DefaultState())
			})

			Convey("And deleting it should make it unknown", func() {
				So(svc.DeleteSession(ctx, created.ID), ShouldBeNil)
				_, err := svc.GetSession(ctx, created.ID)
				So(errors.Is(err, session.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When more sessions are created than allowed", func() {
			first, _ := svc.CreateSession(ctx)
			_, _ = svc.CreateSession(ctx)
			_, _ = svc.CreateSession(ctx)

			Convey("Then the oldest should be evicted", func() {
				_, err := svc.GetSession(ctx, first.ID)
				So(errors.Is(err, session.ErrNotFound), ShouldBeTrue)
				So(svc.GetStats()["activeSessions"], ShouldEqual, int64(2))
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats, ShouldNotBeNil)
				So(stats["started"], ShouldEqual, false)
				So(stats["maxSessions"], ShouldEqual, 10_000)
			})
		})
	})
}
