// Package ics renders the evaluated event timeline as an iCalendar feed.
package ics

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/seojun/eventory/internal/app"
	"github.com/seojun/eventory/internal/domain/model"
	"github.com/seojun/eventory/internal/domain/rotation"
	"github.com/seojun/eventory/internal/domain/schedtext"
	"github.com/seojun/eventory/pkg/metrics"
)

const (
	prodID       = "-//eventory//event tracker//KO"
	defaultSpan  = 90 * time.Minute
	calendarName = "Game Events"
)

// Evaluator supplies the instances the feed is built from.
type Evaluator interface {
	Evaluate(ctx context.Context, now time.Time, zone app.DisplayZone) ([]model.EventInstance, error)
}

// Handler serves GET /calendar.ics.
type Handler struct {
	eval   Evaluator
	refLoc *time.Location
}

// NewHandler creates a calendar feed handler.
func NewHandler(eval Evaluator, refLoc *time.Location) *Handler {
	return &Handler{eval: eval, refLoc: refLoc}
}

// ServeHTTP renders the current timeline as an iCalendar document. The
// feed always uses reference-zone times; calendar clients convert.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	now := time.Now()
	instances, err := h.eval.Evaluate(r.Context(), now, app.ZoneReference)
	if err != nil {
		http.Error(w, "calendar build failed", http.StatusInternalServerError)
		return
	}

	cal, count := Build(instances, now.In(h.refLoc))
	metrics.RecordICSFeed(count)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	_, _ = w.Write([]byte(cal.Serialize()))
}

// Build assembles the calendar from evaluated instances. Returns the
// calendar and the number of events emitted.
func Build(instances []model.EventInstance, nowRef time.Time) (*ical.Calendar, int) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	cal.SetName(calendarName)

	count := 0
	for _, inst := range instances {
		if !inst.Visible {
			continue
		}
		combined := schedtext.CombineDayTime(inst.Day, inst.Time)
		for i, item := range schedtext.ParseSchedule(combined).Items() {
			uid := fmt.Sprintf("%s-%d@eventory", inst.ID, i)
			if addItem(cal, inst, item, uid, nowRef) {
				count++
			}
		}
	}
	return cal, count
}

func addItem(cal *ical.Calendar, inst model.EventInstance, item schedtext.Item, uid string, nowRef time.Time) bool {
	switch item.Kind {
	case schedtext.KindWeekly:
		return addWeekly(cal, inst, item.Weekly, uid, nowRef)
	case schedtext.KindDaily:
		return addClock(cal, inst, item.Weekly, uid, nowRef)
	case schedtext.KindRange:
		return addRange(cal, inst, item.Range, uid, nowRef)
	case schedtext.KindStructure:
		return addStructure(cal, inst, item.Structure, uid, nowRef)
	default:
		return false
	}
}

// addWeekly emits a recurring weekly event. The bi-weekly rotation family
// gets a two-day interval instead since its weekday drifts.
func addWeekly(cal *ical.Calendar, inst model.EventInstance, slot *schedtext.WeeklySlot, uid string, nowRef time.Time) bool {
	if slot == nil || slot.Time == "" {
		return false
	}
	hour, minute, ok := schedtext.ParseHHMM(slot.Time)
	if !ok {
		return false
	}
	dayIdx, ok := schedtext.DayIndex(slot.Day)
	if !ok {
		return false
	}

	// The rotating family does not sit on its registered weekday; its
	// series must start on an actual cycle day or every entry lands one
	// day off.
	bear := rotation.IsBearFamily(inst.CanonicalID)
	start := nextWeekday(nowRef, dayIdx, hour, minute)
	if bear {
		if next, ok := rotation.NextEventTime(slot.Day, inst.UpdatedAt, nowRef, hour, minute); ok {
			start = next
		}
	}

	ev := cal.AddEvent(uid)
	ev.SetSummary(inst.Title)
	ev.SetStartAt(start)
	ev.SetEndAt(start.Add(defaultSpan))
	ev.SetDtStampTime(nowRef)

	if bear {
		ev.AddRrule(ruleString(rrule.ROption{Freq: rrule.DAILY, Interval: 2, Dtstart: start}))
	} else {
		ev.AddRrule(ruleString(rrule.ROption{Freq: rrule.WEEKLY, Dtstart: start}))
	}
	return true
}

// addClock emits a daily recurrence for time-only and 매일 slots.
func addClock(cal *ical.Calendar, inst model.EventInstance, slot *schedtext.WeeklySlot, uid string, nowRef time.Time) bool {
	if slot == nil || slot.Time == "" {
		return false
	}
	hour, minute, ok := schedtext.ParseHHMM(slot.Time)
	if !ok {
		return false
	}
	start := time.Date(nowRef.Year(), nowRef.Month(), nowRef.Day(), hour, minute, 0, 0, nowRef.Location())
	if start.Before(nowRef) {
		start = start.AddDate(0, 0, 1)
	}

	ev := cal.AddEvent(uid)
	ev.SetSummary(inst.Title)
	ev.SetStartAt(start)
	ev.SetEndAt(start.Add(defaultSpan))
	ev.SetDtStampTime(nowRef)
	ev.AddRrule(ruleString(rrule.ROption{Freq: rrule.DAILY, Dtstart: start}))
	return true
}

// addRange emits one concrete dated window.
func addRange(cal *ical.Calendar, inst model.EventInstance, rng *schedtext.DateRange, uid string, nowRef time.Time) bool {
	if rng == nil {
		return false
	}
	start := rng.Start.Resolve(nowRef.Year(), nowRef.Location())
	end := rng.End.Resolve(nowRef.Year(), nowRef.Location())
	if !end.After(start) {
		return false
	}

	ev := cal.AddEvent(uid)
	ev.SetSummary(inst.Title)
	ev.SetStartAt(start)
	ev.SetEndAt(end)
	ev.SetDtStampTime(nowRef)
	return true
}

// addStructure emits the weekly slot of one fortress or citadel.
func addStructure(cal *ical.Calendar, inst model.EventInstance, slot *schedtext.StructureSlot, uid string, nowRef time.Time) bool {
	if slot == nil {
		return false
	}
	hour, minute, ok := schedtext.ParseHHMM(slot.Time)
	if !ok {
		return false
	}
	dayIdx, ok := schedtext.DayIndex(slot.Day)
	if !ok {
		return false
	}

	start := nextWeekday(nowRef, dayIdx, hour, minute)
	ev := cal.AddEvent(uid)
	summary := inst.Title
	if slot.Name != "" {
		summary += " - " + slot.Name
	}
	ev.SetSummary(summary)
	ev.SetStartAt(start)
	ev.SetEndAt(start.Add(defaultSpan))
	ev.SetDtStampTime(nowRef)
	ev.AddRrule(ruleString(rrule.ROption{Freq: rrule.WEEKLY, Dtstart: start}))
	return true
}

// nextWeekday finds the first occurrence of the Sunday-origin weekday index
// at hour:minute, at or after now.
func nextWeekday(nowRef time.Time, dayIdx, hour, minute int) time.Time {
	days := (dayIdx - int(nowRef.Weekday()) + 7) % 7
	cand := time.Date(nowRef.Year(), nowRef.Month(), nowRef.Day()+days, hour, minute, 0, 0, nowRef.Location())
	if cand.Before(nowRef) {
		cand = cand.AddDate(0, 0, 7)
	}
	return cand
}

// ruleString renders an ROption as the RRULE property value.
func ruleString(opt rrule.ROption) string {
	s := opt.RRuleString()
	return strings.TrimPrefix(s, "RRULE:")
}
