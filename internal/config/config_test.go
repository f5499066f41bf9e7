package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/launchdash/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8050")
			convey.So(cfg.DatasetPath, convey.ShouldEqual, "spacex_launch_dash.csv")
			convey.So(cfg.PayloadSliderMin, convey.ShouldEqual, 0)
			convey.So(cfg.PayloadSliderMax, convey.ShouldEqual, 10_000)
			convey.So(cfg.PayloadSliderStep, convey.ShouldEqual, 2_500)
			convey.So(cfg.PieHonorsPayloadRange, convey.ShouldBeFalse)
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configurations", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":         func(c *config.Config) { c.Addr = " " },
			"empty dataset path": func(c *config.Config) { c.DatasetPath = "" },
			"inverted slider":    func(c *config.Config) { c.PayloadSliderMin = 10_000; c.PayloadSliderMax = 0 },
			"zero step":          func(c *config.Config) { c.PayloadSliderStep = 0 },
			"no sessions":        func(c *config.Config) { c.MaxSessions = 0 },
			"zero chart width":   func(c *config.Config) { c.ChartWidth = 0 },
		}

		for name, mutate := range cases {
			cfg := config.New(context.Background())
			mutate(cfg)

			convey.Convey("Then validation rejects "+name, func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
