package tzshift_test

import (
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/seojun/eventory/internal/domain/tzshift"
)

func TestConvert(t *testing.T) {
	convey.Convey("Given schedule text in the reference timezone", t, func() {
		convey.Convey("When shifting a weekly slot forward within the day", func() {
			convey.So(tzshift.Convert("화(10:00)", 120, 2026), convey.ShouldEqual, "화(12:00)")
		})

		convey.Convey("When the shift crosses midnight into the next day", func() {
			convey.So(tzshift.Convert("화(23:00)", 120, 2026), convey.ShouldEqual, "수(01:00)")
		})

		convey.Convey("When the shift crosses the week boundary", func() {
			convey.So(tzshift.Convert("토(23:30)", 60, 2026), convey.ShouldEqual, "일(00:30)")
			convey.So(tzshift.Convert("일(00:30)", -60, 2026), convey.ShouldEqual, "토(23:30)")
		})

		convey.Convey("When shifting the daily token", func() {
			convey.So(tzshift.Convert("매일(19:00)", -540, 2026), convey.ShouldEqual, "매일(10:00)")
			convey.So(tzshift.Convert("매일(01:00)", -120, 2026), convey.ShouldEqual, "매일(23:00)")
		})

		convey.Convey("When the always token has no clock to shift", func() {
			convey.So(tzshift.Convert("상시", -540, 2026), convey.ShouldEqual, "상시")
		})

		convey.Convey("When a bare day token has no anchor", func() {
			convey.So(tzshift.Convert("화", 120, 2026), convey.ShouldEqual, "화")
		})

		convey.Convey("When shifting a timed date range", func() {
			got := tzshift.Convert("2026.02.13 09:00 ~ 2026.02.15 23:00", -540, 2026)
			convey.So(got, convey.ShouldEqual, "2026.02.13 00:00 ~ 2026.02.15 14:00")
		})

		convey.Convey("When a yearless date gains the reference year", func() {
			got := tzshift.Convert("02.13 09:00 ~ 02.15 23:00", 0, 2026)
			convey.So(got, convey.ShouldEqual, "2026.02.13 09:00 ~ 2026.02.15 23:00")
		})

		convey.Convey("When a date-only range cannot be shifted", func() {
			got := tzshift.Convert("02.13 ~ 02.15", -540, 2026)
			convey.So(got, convey.ShouldEqual, "2026.02.13 ~ 2026.02.15")
		})

		convey.Convey("When group labels survive conversion", func() {
			got := tzshift.Convert("1군: 월(10:00) / 2군: 수(10:00)", -540, 2026)
			convey.So(got, convey.ShouldEqual, "1군: 월(01:00) / 2군: 수(01:00)")
		})

		convey.Convey("When text has no parseable schedule", func() {
			convey.So(tzshift.Convert("asdf", 120, 2026), convey.ShouldEqual, "asdf")
			convey.So(tzshift.Convert("", 120, 2026), convey.ShouldEqual, "")
		})

		convey.Convey("Then shifting forward and back round-trips", func() {
			for _, text := range []string{"화(22:00)", "일(00:30)", "매일(19:00)", "월(10:00), 금(20:00)"} {
				shifted := tzshift.Convert(text, 540, 2026)
				back := tzshift.Convert(shifted, -540, 2026)
				convey.So(back, convey.ShouldEqual, tzshift.Convert(text, 0, 2026))
			}
		})
	})
}

func TestDeltas(t *testing.T) {
	convey.Convey("Given the reference offset", t, func() {
		convey.Convey("Then the UTC delta is its negation", func() {
			convey.So(tzshift.UTCDelta, convey.ShouldEqual, -540)
		})

		convey.Convey("Then the local delta is zone offset minus reference", func() {
			nowUTC := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)
			convey.So(tzshift.LocalDelta(nowUTC), convey.ShouldEqual, -540)

			seoul := time.FixedZone("UTC+9", 540*60)
			convey.So(tzshift.LocalDelta(nowUTC.In(seoul)), convey.ShouldEqual, 0)
		})
	})
}

func TestFormatAbsolute(t *testing.T) {
	convey.Convey("Given a concrete instant", t, func() {
		at := time.Date(2026, 2, 5, 9, 30, 0, 0, time.UTC)
		convey.So(tzshift.FormatAbsolute(at), convey.ShouldEqual, "2026.02.05 09:30")
	})
}
