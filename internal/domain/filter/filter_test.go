package filter_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/launchdash/internal/domain/filter"
	"github.com/okian/launchdash/internal/domain/model"
	"github.com/okian/launchdash/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(site string, payload, class float64, booster string) model.LaunchRecord {
	return model.LaunchRecord{
		Site:            site,
		PayloadMass:     model.Float(payload),
		Class:           model.Float(class),
		BoosterCategory: booster,
	}
}

func fourLaunches() *model.Dataset {
	return model.NewDataset([]model.LaunchRecord{
		rec("KSC LC-39A", 3000, 1, "FT"),
		rec("CCAFS LC-40", 500, 1, "v1.0"),
		rec("KSC LC-39A", 6000, 0, "B4"),
		rec("CCAFS LC-40", 9600, 1, "B5"),
	})
}

func TestForPie(t *testing.T) {
	Convey("Given a dataset with two sites", t, func() {
		ds := fourLaunches()

		Convey("When filtering a single site", func() {
			got := filter.ForPie(ds, "KSC LC-39A")

			Convey("Then only that site's records are kept in order", func() {
				So(len(got), ShouldEqual, 2)
				So(got[0].PayloadMass.Value, ShouldEqual, 3000)
				So(got[1].PayloadMass.Value, ShouldEqual, 6000)
				for _, r := range got {
					So(r.Site, ShouldEqual, "KSC LC-39A")
				}
			})
		})

		Convey("When selecting all sites", func() {
			got := filter.ForPie(ds, types.AllSites)

			Convey("Then every record is kept", func() {
				So(cmp.Diff(ds.Records(), got), ShouldBeEmpty)
			})
		})

		Convey("When the site is unknown", func() {
			got := filter.ForPie(ds, "Boca Chica")

			Convey("Then the result is empty but not nil", func() {
				So(got, ShouldNotBeNil)
				So(got, ShouldBeEmpty)
			})
		})
	})
}

func TestForScatter(t *testing.T) {
	Convey("Given a dataset with two sites", t, func() {
		ds := fourLaunches()
		full := types.PayloadRange{Lower: 0, Upper: 10000}

		Convey("When filtering a site over the full range", func() {
			got := filter.ForScatter(ds, "KSC LC-39A", full)

			Convey("Then both launches of that site are returned", func() {
				So(len(got), ShouldEqual, 2)
			})
		})

		Convey("When filtering all sites with a narrower range", func() {
			got := filter.ForScatter(ds, types.AllSites, types.PayloadRange{Lower: 1000, Upper: 7000})

			Convey("Then exactly the records inside the range remain, regardless of site", func() {
				want := []model.LaunchRecord{ds.At(0), ds.At(2)}
				So(cmp.Diff(want, got), ShouldBeEmpty)
			})
		})

		Convey("When a site and range are combined", func() {
			got := filter.ForScatter(ds, "CCAFS LC-40", types.PayloadRange{Lower: 0, Upper: 1000})

			Convey("Then both constraints apply", func() {
				So(len(got), ShouldEqual, 1)
				So(got[0].PayloadMass.Value, ShouldEqual, 500)
			})
		})

		Convey("When the lower bound exceeds the upper bound", func() {
			got := filter.ForScatter(ds, types.AllSites, types.PayloadRange{Lower: 9000, Upper: 100})

			Convey("Then nothing matches", func() {
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When filtering twice with the same inputs", func() {
			a := filter.ForScatter(ds, types.AllSites, types.PayloadRange{Lower: 400, Upper: 6000})
			b := filter.ForScatter(ds, types.AllSites, types.PayloadRange{Lower: 400, Upper: 6000})

			Convey("Then the results are identical", func() {
				So(cmp.Diff(a, b), ShouldBeEmpty)
			})
		})
	})
}

func TestPayloadBoundaries(t *testing.T) {
	Convey("Given a degenerate range [5000, 5000]", t, func() {
		point := types.PayloadRange{Lower: 5000, Upper: 5000}

		Convey("When a record sits exactly on the bound", func() {
			ds := model.NewDataset([]model.LaunchRecord{rec("KSC LC-39A", 5000, 1, "FT")})

			Convey("Then it is included", func() {
				So(len(filter.ForScatter(ds, types.AllSites, point)), ShouldEqual, 1)
			})
		})

		Convey("When a record is just above the bound", func() {
			ds := model.NewDataset([]model.LaunchRecord{rec("KSC LC-39A", 5000.0001, 1, "FT")})

			Convey("Then it is excluded", func() {
				So(filter.ForScatter(ds, types.AllSites, point), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a record with a missing payload", t, func() {
		ds := model.NewDataset([]model.LaunchRecord{{
			Site:        "VAFB SLC-4E",
			PayloadMass: model.Missing(),
			Class:       model.Float(1),
		}})

		Convey("Then the scatter path never selects it", func() {
			So(filter.ForScatter(ds, types.AllSites, types.PayloadRange{Lower: 0, Upper: 10000}), ShouldBeEmpty)
		})

		Convey("And the pie path still does", func() {
			So(len(filter.ForPie(ds, "VAFB SLC-4E")), ShouldEqual, 1)
		})
	})
}

func TestCriteriaMatch(t *testing.T) {
	Convey("Given criteria without a payload constraint", t, func() {
		c := filter.Criteria{Site: "KSC LC-39A"}

		Convey("Then records of the site match regardless of payload", func() {
			So(c.Match(model.LaunchRecord{Site: "KSC LC-39A"}), ShouldBeTrue)
			So(c.Match(model.LaunchRecord{Site: "CCAFS LC-40"}), ShouldBeFalse)
		})
	})
}
