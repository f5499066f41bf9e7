package render_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"github.com/okian/launchdash/internal/adapters/render"
	dashchart "github.com/okian/launchdash/internal/domain/chart"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRenderer(t *testing.T) {
	Convey("Given a renderer with a custom size", t, func() {
		ctx := context.Background()
		r := render.New(render.WithSize(640, 400))

		Convey("When rendering a pie chart with values", func() {
			img, err := r.Pie(ctx, dashchart.PieSpec{
				Title: "Launch Success Rate - All Sites",
				Slices: []dashchart.Slice{
					{Label: "CCAFS LC-40", Value: 7},
					{Label: "KSC LC-39A", Value: 10},
					{Label: "VAFB SLC-4E", Value: 0},
				},
			})

			Convey("Then it should produce a PNG of the configured size", func() {
				So(err, ShouldBeNil)
				cfg, err := png.DecodeConfig(bytes.NewReader(img))
				So(err, ShouldBeNil)
				So(cfg.Width, ShouldEqual, 640)
				So(cfg.Height, ShouldEqual, 400)
			})
		})

		Convey("When rendering a pie chart whose slices are all zero", func() {
			_, err := r.Pie(ctx, dashchart.PieSpec{
				Slices: []dashchart.Slice{{Label: "Success"}, {Label: "Failed"}},
			})

			Convey("Then it should report an empty chart", func() {
				So(errors.Is(err, render.ErrEmptyChart), ShouldBeTrue)
			})
		})

		Convey("When rendering a scatter chart with several categories", func() {
			img, err := r.Scatter(ctx, dashchart.ScatterSpec{
				Title:  "Payload vs. Outcome - All Sites",
				XField: dashchart.FieldPayloadMass,
				YField: dashchart.FieldClass,
				Points: []dashchart.Point{
					{X: 500, Y: 0, Category: "v1.0"},
					{X: 2500, Y: 1, Category: "FT"},
					{X: 4000, Y: 1, Category: "FT"},
					{X: 9600, Y: 0, Category: ""},
				},
			})

			Convey("Then it should produce a PNG", func() {
				So(err, ShouldBeNil)
				_, err := png.Decode(bytes.NewReader(img))
				So(err, ShouldBeNil)
			})
		})

		Convey("When rendering a scatter chart with a single payload value", func() {
			img, err := r.Scatter(ctx, dashchart.ScatterSpec{
				Points: []dashchart.Point{
					{X: 2500, Y: 1, Category: "FT"},
					{X: 2500, Y: 0, Category: "FT"},
				},
			})

			Convey("Then the axis should still have a span", func() {
				So(err, ShouldBeNil)
				So(len(img), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When rendering a scatter chart without points", func() {
			_, err := r.Scatter(ctx, dashchart.ScatterSpec{Omitted: 3})

			Convey("Then it should report an empty chart", func() {
				So(errors.Is(err, render.ErrEmptyChart), ShouldBeTrue)
			})
		})
	})

	Convey("Given a renderer with default options", t, func() {
		r := render.New(render.WithSize(-1, 0))

		Convey("When rendering a pie chart", func() {
			img, err := r.Pie(context.Background(), dashchart.PieSpec{
				Slices: []dashchart.Slice{{Label: "Success", Value: 1}},
			})

			Convey("Then the default size should be used", func() {
				So(err, ShouldBeNil)
				cfg, err := png.DecodeConfig(bytes.NewReader(img))
				So(err, ShouldBeNil)
				So(cfg.Width, ShouldEqual, 800)
				So(cfg.Height, ShouldEqual, 500)
			})
		})
	})
}
