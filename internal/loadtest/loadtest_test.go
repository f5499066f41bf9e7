package loadtest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/launchdash/internal/adapters/http/api"
	service "github.com/okian/launchdash/internal/app"
	"github.com/okian/launchdash/internal/domain/model"
	"github.com/okian/launchdash/internal/format"
	"github.com/okian/launchdash/internal/loadtest"
	"github.com/okian/launchdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

func newTestServer() (*httptest.Server, *service.Service) {
	rec := func(site string, payload, class float64, booster string) model.LaunchRecord {
		return model.LaunchRecord{Site: site, PayloadMass: model.Float(payload), Class: model.Float(class), BoosterCategory: booster}
	}
	svc := service.New(
		service.WithDataset(model.NewDataset([]model.LaunchRecord{
			rec("CCAFS LC-40", 500, 0, "v1.0"),
			rec("CCAFS LC-40", 2034, 1, "v1.1"),
			rec("VAFB SLC-4E", 9600, 1, "FT"),
			rec("KSC LC-39A", 2490, 1, "FT"),
			rec("KSC LC-39A", 5300, 0, "FT"),
			rec("CCAFS SLC-40", 3700, 1, "B4"),
		})),
		service.WithChartSize(160, 120),
	)
	So(svc.Start(context.Background()), ShouldBeNil)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(mux), svc
}

func TestRun(t *testing.T) {
	Convey("Given a running dashboard server", t, func() {
		srv, svc := newTestServer()
		defer srv.Close()
		defer svc.Stop()

		Convey("When driving concurrent sessions", func() {
			stats, err := loadtest.Run(context.Background(), loadtest.Config{
				BaseURL:           srv.URL,
				Sessions:          12,
				UpdatesPerSession: 5,
				Workers:           4,
				Seed:              7,
				Render:            true,
			})

			Convey("Then every session should only see its own state", func() {
				So(err, ShouldBeNil)
				So(stats.SessionsCreated, ShouldEqual, 12)
				So(stats.Updates, ShouldEqual, 60)
				So(stats.Reads, ShouldEqual, 60)
				So(stats.Renders, ShouldEqual, 120)
				So(stats.Mismatches, ShouldEqual, 0)
			})

			Convey("And all sessions should have been deleted", func() {
				So(svc.GetStats()["activeSessions"], ShouldEqual, int64(0))
			})

			Convey("And the report should list the counters", func() {
				out := loadtest.Report(stats, format.Markdown)
				So(out, ShouldContainSubstring, "Mismatches")
				So(out, ShouldContainSubstring, "Requests/s")
			})
		})
	})

	Convey("Given a server that is not reachable", t, func() {
		srv, svc := newTestServer()
		url := srv.URL
		srv.Close()
		svc.Stop()

		Convey("When running the load test", func() {
			_, err := loadtest.Run(context.Background(), loadtest.Config{BaseURL: url, Sessions: 1})

			Convey("Then it should report the service as unhealthy", func() {
				So(errors.Is(err, loadtest.ErrUnhealthy), ShouldBeTrue)
			})
		})
	})
}
