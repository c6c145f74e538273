// Package metrics provides Prometheus metrics for the eventory service.
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smartystreets/goconvey/convey"
)

func TestOptions(t *testing.T) {
	convey.Convey("Given metric options", t, func() {
		convey.Convey("Each constructor returns a non-nil option", func() {
			convey.So(WithNamespace("svc"), convey.ShouldNotBeNil)
			convey.So(WithSubsystem("core"), convey.ShouldNotBeNil)
			convey.So(WithHistogramBuckets([]float64{0.1, 1}), convey.ShouldNotBeNil)
			convey.So(WithRegistry(prometheus.NewRegistry()), convey.ShouldNotBeNil)
		})

		convey.Convey("Options override manager defaults", func() {
			m := NewManager(
				WithNamespace("svc"),
				WithSubsystem("core"),
				WithHistogramBuckets([]float64{0.5}),
				WithRegistry(prometheus.NewRegistry()),
			)
			convey.So(m.namespace, convey.ShouldEqual, "svc")
			convey.So(m.subsystem, convey.ShouldEqual, "core")
			convey.So(m.buckets, convey.ShouldResemble, []float64{0.5})
		})

		convey.Convey("Empty values keep the defaults", func() {
			m := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithRegistry(nil),
			)
			convey.So(m.namespace, convey.ShouldEqual, "eventory")
			convey.So(m.subsystem, convey.ShouldEqual, "engine")
		})
	})
}

func TestManager(t *testing.T) {
	convey.Convey("Given a manager on its own registry", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(WithRegistry(reg))

		convey.Convey("Collectors are registered and observable", func() {
			m.evaluationPasses.Inc()
			m.evaluationPasses.Inc()
			got := testutil.ToFloat64(m.evaluationPasses)
			convey.So(got, convey.ShouldEqual, 2)

			m.scheduleRecords.Set(13)
			convey.So(testutil.ToFloat64(m.scheduleRecords), convey.ShouldEqual, 13)

			m.instancesByState.WithLabelValues("active").Set(4)
			got = testutil.ToFloat64(m.instancesByState.WithLabelValues("active"))
			convey.So(got, convey.ShouldEqual, 4)
		})
	})
}

func TestPackageHelpers(t *testing.T) {
	convey.Convey("Given the global manager", t, func() {
		convey.Convey("Helpers record without panicking", func() {
			RecordEvaluationPass(0.02)
			UpdateInstanceStates(2, 1, 3, 7)
			RecordScheduleUpsert()
			RecordScheduleClear()
			UpdateScheduleRecords(5)
			RecordHTTPRequest("/events", "GET", "200")
			RecordHTTPRequestDuration("/events", "GET", "200", 0.003)
			RecordICSFeed(9)

			convey.So(Handler(), convey.ShouldNotBeNil)
		})
	})
}
