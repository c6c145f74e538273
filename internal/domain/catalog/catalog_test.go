package catalog_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/seojun/eventory/internal/domain/catalog"
	"github.com/seojun/eventory/internal/domain/identity"
)

func TestCatalog(t *testing.T) {
	convey.Convey("Given the static event catalog", t, func() {
		convey.Convey("Then it is non-empty with unique canonical IDs", func() {
			all := catalog.All()
			convey.So(len(all), convey.ShouldBeGreaterThan, 0)

			seen := map[string]bool{}
			for _, def := range all {
				convey.So(seen[def.ID], convey.ShouldBeFalse)
				seen[def.ID] = true
			}
		})

		convey.Convey("Then every catalog ID is already canonical", func() {
			for _, def := range catalog.All() {
				convey.So(identity.Resolve(def.ID), convey.ShouldEqual, def.ID)
			}
		})

		convey.Convey("When looking up a known ID", func() {
			def, ok := catalog.Lookup("bear_hunt")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(def.Title, convey.ShouldEqual, "Bear Hunt")
		})

		convey.Convey("When looking up an unknown ID", func() {
			_, ok := catalog.Lookup("nope")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}
