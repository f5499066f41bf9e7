package types_test

import (
	"testing"

	types "github.com/okian/launchdash/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPayloadRange(t *testing.T) {
	Convey("Given an inclusive payload range", t, func() {
		r := types.PayloadRange{Lower: 2500, Upper: 7500}

		Convey("Then both bounds are contained", func() {
			So(r.Contains(2500), ShouldBeTrue)
			So(r.Contains(7500), ShouldBeTrue)
			So(r.Contains(2499.99), ShouldBeFalse)
			So(r.Contains(7500.01), ShouldBeFalse)
			So(r.Empty(), ShouldBeFalse)
		})
	})

	Convey("Given an inverted range", t, func() {
		r := types.PayloadRange{Lower: 10, Upper: 5}

		Convey("Then it is empty and contains nothing", func() {
			So(r.Empty(), ShouldBeTrue)
			So(r.Contains(7), ShouldBeFalse)
		})
	})
}

func TestIsKnownSite(t *testing.T) {
	Convey("Given the site selector values", t, func() {
		So(types.IsKnownSite(types.AllSites), ShouldBeTrue)
		for _, s := range types.KnownSites {
			So(types.IsKnownSite(s), ShouldBeTrue)
		}
		So(types.IsKnownSite("Boca Chica"), ShouldBeFalse)
		So(types.KnownSites, ShouldHaveLength, 4)
	})
}
