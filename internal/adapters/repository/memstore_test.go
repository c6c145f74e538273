package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/seojun/eventory/internal/adapters/repository"
	"github.com/seojun/eventory/internal/domain/model"
)

func TestMemoryStore(t *testing.T) {
	convey.Convey("Given an in-memory schedule store", t, func() {
		ctx := context.Background()
		clock := time.Date(2026, 2, 16, 12, 0, 0, 0, time.UTC)
		store := repository.NewMemoryStore(repository.WithClock(func() time.Time { return clock }))

		convey.Convey("When upserting a record", func() {
			stored, err := store.Upsert(ctx, model.ScheduleRecord{EventID: "bear_hunt", Day: "월(10:00)"})

			convey.Convey("Then the record is stamped with the store clock", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stored.UpdatedAt, convey.ShouldEqual, clock.UnixMilli())
			})

			convey.Convey("And it can be read back", func() {
				got, err := store.Get(ctx, "bear_hunt")
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.Day, convey.ShouldEqual, "월(10:00)")
			})

			convey.Convey("And a later upsert replaces it in place", func() {
				clock = clock.Add(time.Hour)
				replaced, err := store.Upsert(ctx, model.ScheduleRecord{EventID: "bear_hunt", Day: "화(10:00)"})
				convey.So(err, convey.ShouldBeNil)
				convey.So(replaced.UpdatedAt, convey.ShouldEqual, clock.UnixMilli())
				convey.So(store.Count(ctx), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When upserting without an event ID", func() {
			_, err := store.Upsert(ctx, model.ScheduleRecord{Day: "월(10:00)"})
			convey.So(errors.Is(err, repository.ErrMissingEventID), convey.ShouldBeTrue)
		})

		convey.Convey("When reading a missing record", func() {
			_, err := store.Get(ctx, "nope")
			convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
		})

		convey.Convey("When deleting a record", func() {
			_, _ = store.Upsert(ctx, model.ScheduleRecord{EventID: "bear_hunt"})

			convey.So(store.Delete(ctx, "bear_hunt"), convey.ShouldBeNil)
			convey.So(store.Count(ctx), convey.ShouldEqual, 0)

			_, err := store.Get(ctx, "bear_hunt")
			convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
		})

		convey.Convey("When deleting a missing record", func() {
			err := store.Delete(ctx, "nope")
			convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
		})

		convey.Convey("When listing records", func() {
			_, _ = store.Upsert(ctx, model.ScheduleRecord{EventID: "bear_hunt"})
			_, _ = store.Upsert(ctx, model.ScheduleRecord{EventID: "arena"})

			records, err := store.List(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(records, convey.ShouldHaveLength, 2)
			convey.So(store.Count(ctx), convey.ShouldEqual, 2)
		})
	})
}
