package timeline_test

import (
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/seojun/eventory/internal/domain/model"
	"github.com/seojun/eventory/internal/domain/timeline"
)

// 2026-02-16 12:00 is a Monday, expressed in the reference zone.
var now = time.Date(2026, 2, 16, 12, 0, 0, 0, time.FixedZone("UTC+9", 9*3600))

func inst(id string, opts func(*model.EventInstance)) model.EventInstance {
	e := model.EventInstance{ID: id, CanonicalID: id, Title: id, Visible: true}
	if opts != nil {
		opts(&e)
	}
	return e
}

func ids(instances []model.EventInstance) []string {
	out := make([]string, len(instances))
	for i, e := range instances {
		out[i] = e.ID
	}
	return out
}

func TestSortTiers(t *testing.T) {
	convey.Convey("Given instances across activity states", t, func() {
		active := inst("active_event", func(e *model.EventInstance) {
			e.Day = "월(11:30)"
			e.Active = true
		})
		expired := inst("expired_event", func(e *model.EventInstance) {
			e.Day = "월(09:00)"
			e.Expired = true
		})
		upcoming := inst("upcoming_event", func(e *model.EventInstance) {
			e.Day = "월(18:00)"
		})

		convey.Convey("Then active sorts first and expired last", func() {
			got := ids(timeline.Sort([]model.EventInstance{expired, upcoming, active}, now))
			convey.So(got, convey.ShouldResemble, []string{"active_event", "upcoming_event", "expired_event"})
		})

		convey.Convey("Then the input slice is not mutated", func() {
			in := []model.EventInstance{expired, upcoming, active}
			_ = timeline.Sort(in, now)
			convey.So(in[0].ID, convey.ShouldEqual, "expired_event")
		})
	})

	convey.Convey("Given non-active instances at different distances", t, func() {
		soon := inst("soon_event", func(e *model.EventInstance) { e.Day = "월(13:00)" })
		later := inst("later_event", func(e *model.EventInstance) { e.Day = "목(13:00)" })
		unscheduled := inst("unscheduled_event", nil)

		convey.Convey("Then nearer occurrences sort earlier and unscheduled last", func() {
			got := ids(timeline.Sort([]model.EventInstance{unscheduled, later, soon}, now))
			convey.So(got, convey.ShouldResemble, []string{"soon_event", "later_event", "unscheduled_event"})
		})
	})

	convey.Convey("Given a date range against a weekly slot", t, func() {
		rangeInst := inst("range_event", func(e *model.EventInstance) {
			e.Day = "2026.02.16 13:00 ~ 2026.02.18 23:00"
		})
		weekly := inst("weekly_event", func(e *model.EventInstance) { e.Day = "월(14:00)" })

		convey.Convey("Then the range sorts by its start date", func() {
			got := ids(timeline.Sort([]model.EventInstance{weekly, rangeInst}, now))
			convey.So(got, convey.ShouldResemble, []string{"range_event", "weekly_event"})
		})
	})

	convey.Convey("Given a now expressed in a different zone", t, func() {
		// In the reference zone the Monday 07:00 slot already passed, so
		// its next occurrence is a week out and the Tuesday range wins.
		weekly := inst("weekly_event", func(e *model.EventInstance) { e.Day = "월(07:00)" })
		rangeInst := inst("range_event", func(e *model.EventInstance) {
			e.Day = "2026.02.17 09:00 ~ 2026.02.18 23:00"
		})

		convey.Convey("Then ordering ignores the zone now arrives in", func() {
			want := ids(timeline.Sort([]model.EventInstance{weekly, rangeInst}, now))
			got := ids(timeline.Sort([]model.EventInstance{weekly, rangeInst}, now.UTC()))
			convey.So(want, convey.ShouldResemble, []string{"range_event", "weekly_event"})
			convey.So(got, convey.ShouldResemble, want)
		})
	})
}

func TestSortBundles(t *testing.T) {
	convey.Convey("Given team sub-instances of one event", t, func() {
		team2 := inst("bear_hunt_team2", func(e *model.EventInstance) {
			e.CanonicalID = "bear_hunt"
			e.Day = "수(10:00)"
			e.TeamIndex = 2
		})
		team1 := inst("bear_hunt_team1", func(e *model.EventInstance) {
			e.CanonicalID = "bear_hunt"
			e.Day = "화(10:00)"
			e.TeamIndex = 1
		})
		other := inst("arena", func(e *model.EventInstance) { e.Day = "화(09:00)" })

		convey.Convey("Then the multi-member bundle stays contiguous ahead of singles", func() {
			got := ids(timeline.Sort([]model.EventInstance{team2, other, team1}, now))
			convey.So(got, convey.ShouldResemble, []string{"bear_hunt_team1", "bear_hunt_team2", "arena"})
		})

		convey.Convey("And one active member lifts the whole bundle", func() {
			activeTeam2 := team2
			activeTeam2.Active = true
			activeOther := other
			activeOther.Active = true
			got := ids(timeline.Sort([]model.EventInstance{activeOther, activeTeam2, team1}, now))
			convey.So(got[0], convey.ShouldEqual, "bear_hunt_team1")
			convey.So(got[1], convey.ShouldEqual, "bear_hunt_team2")
		})
	})

	convey.Convey("Given fortress and citadel sub-instances", t, func() {
		citadel := inst("fortress_battle_citadel", func(e *model.EventInstance) {
			e.CanonicalID = "fortress_battle"
			e.Title = "Fortress Battle - 대성채"
			e.Day = "일(12:00)"
			e.Structure = model.StructureCitadel
		})
		fortress := inst("fortress_battle_fortress", func(e *model.EventInstance) {
			e.CanonicalID = "fortress_battle"
			e.Title = "Fortress Battle - 북부요새"
			e.Day = "토(20:00)"
			e.Structure = model.StructureFortress
		})

		convey.Convey("Then they share one bundle with the fortress first", func() {
			got := ids(timeline.Sort([]model.EventInstance{citadel, fortress}, now))
			convey.So(got, convey.ShouldResemble, []string{"fortress_battle_fortress", "fortress_battle_citadel"})
		})
	})
}
