// Package status classifies event instances against a supplied instant and
// computes activity, expiry, visibility and countdowns.
//
// Everything here is pure: the caller injects now on every call and the
// package never reads the wall clock. Malformed schedule text degrades to
// "no information" — not active, not expired — and never to an error.
package status

import (
	"strings"
	"time"

	"github.com/samber/mo"

	"github.com/seojun/eventory/internal/domain/model"
	"github.com/seojun/eventory/internal/domain/rotation"
	"github.com/seojun/eventory/internal/domain/schedtext"
	"github.com/seojun/eventory/internal/domain/tzshift"
)

// Kind is the temporal shape an instance evaluates under.
type Kind int

const (
	KindUnscheduled Kind = iota
	KindDateRange
	KindAnchoredSingleShot
	KindAnchoredWeekly
	KindWeekly
)

// Default evaluator parameters. These mirror the game's observed event
// behavior; override them through the options rather than editing here.
const (
	defaultShortWindow     = 30 * time.Minute
	defaultLongWindow      = 60 * time.Minute
	defaultExpiryBuffer    = time.Hour
	defaultCountdownWindow = 24 * time.Hour
	defaultSoonWindow      = 30 * time.Minute
	defaultStaleAnchor     = 7 * 24 * time.Hour
	defaultNearestSpan     = 3 * 24 * time.Hour
	defaultBufferWithStart = 7 * 24 * time.Hour
	defaultBufferDefault   = 2 * 24 * time.Hour
)

// Input is one per-team or per-structure slice of an event's schedule.
type Input struct {
	CanonicalID string
	Title       string
	Day         string
	Time        string
	Team        model.TeamRecurrence
	UpdatedAt   int64
}

// Result is the evaluated state of one instance at one instant.
type Result struct {
	Kind         Kind
	Active       bool
	Expired      bool
	UpcomingSoon bool
	Remaining    mo.Option[int64] // seconds to next occurrence or range start
	EndDate      mo.Option[time.Time]
	Visible      bool
}

// Evaluator computes instance states. Thresholds are configurable per
// deployment; defaults match the game's event durations.
type Evaluator struct {
	shortWindow     time.Duration
	longWindow      time.Duration
	expiryBuffer    time.Duration
	countdownWindow time.Duration
	soonWindow      time.Duration
	staleAnchor     time.Duration
	nearestSpan     time.Duration
	bufferWithStart time.Duration
	bufferDefault   time.Duration

	rot    *rotation.Calculator
	refLoc *time.Location
}

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithActiveWindows overrides the short and long active window durations.
func WithActiveWindows(short, long time.Duration) Option {
	return func(e *Evaluator) {
		if short > 0 {
			e.shortWindow = short
		}
		if long > 0 {
			e.longWindow = long
		}
	}
}

// WithExpiryBuffer overrides the grace past an occurrence before it counts
// as expired.
func WithExpiryBuffer(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.expiryBuffer = d
		}
	}
}

// WithCountdownWindow overrides the lead time within which a countdown is
// exposed.
func WithCountdownWindow(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.countdownWindow = d
		}
	}
}

// WithSoonWindow overrides the lead time for the upcoming-soon badge.
func WithSoonWindow(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.soonWindow = d
		}
	}
}

// WithStaleAnchor overrides how old an implicit anchor may be before a
// non-recurring weekly instance is forced expired.
func WithStaleAnchor(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.staleAnchor = d
		}
	}
}

// WithVisibilityBuffers overrides how long past its end date an instance
// stays visible, with and without a start date.
func WithVisibilityBuffers(withStart, without time.Duration) Option {
	return func(e *Evaluator) {
		if withStart > 0 {
			e.bufferWithStart = withStart
		}
		if without > 0 {
			e.bufferDefault = without
		}
	}
}

// WithRotation supplies a shared rotation calculator.
func WithRotation(c *rotation.Calculator) Option {
	return func(e *Evaluator) {
		if c != nil {
			e.rot = c
		}
	}
}

// New constructs an Evaluator with default thresholds.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		shortWindow:     defaultShortWindow,
		longWindow:      defaultLongWindow,
		expiryBuffer:    defaultExpiryBuffer,
		countdownWindow: defaultCountdownWindow,
		soonWindow:      defaultSoonWindow,
		staleAnchor:     defaultStaleAnchor,
		nearestSpan:     defaultNearestSpan,
		bufferWithStart: defaultBufferWithStart,
		bufferDefault:   defaultBufferDefault,
		refLoc:          time.FixedZone("UTC+9", tzshift.ReferenceOffsetMinutes*60),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rot == nil {
		e.rot = rotation.New()
	}
	return e
}

// ReferenceLocation returns the fixed zone schedule text is anchored to.
func (e *Evaluator) ReferenceLocation() *time.Location {
	return e.refLoc
}

// Evaluate computes the full state of one instance at now.
func (e *Evaluator) Evaluate(in Input, now time.Time) Result {
	nowRef := now.In(e.refLoc)
	combined := schedtext.CombineDayTime(in.Day, in.Time)
	kind := e.Classify(in, combined)
	res := Result{Kind: kind, Visible: true}

	dur := e.durationFor(in)
	slots := e.effectiveSlots(in, combined, nowRef)

	switch kind {
	case KindUnscheduled:
		// Nothing to evaluate; stays visible and inert.

	case KindDateRange:
		if rng, ok := firstRange(combined); ok {
			start := rng.Start.Resolve(nowRef.Year(), e.refLoc)
			end := rng.End.Resolve(nowRef.Year(), e.refLoc)
			res.Active = !nowRef.Before(start) && !nowRef.After(end)
			res.Expired = nowRef.After(end)
			if !res.Active && !res.Expired {
				e.fillCountdown(&res, start.Sub(nowRef))
			}
		} else {
			// Recurring or rotating weekly shapes classify here; they are
			// active inside their slot window and never expire.
			res.Active = e.slotActive(slots, dur, nowRef)
			if !res.Active {
				if next, ok := nextOccurrence(slots, nowRef); ok {
					e.fillCountdown(&res, next)
				}
			}
		}

	case KindAnchoredSingleShot:
		occ, ok := e.anchorOccurrence(in.Team.StartDate, slots)
		if ok {
			res.Expired = nowRef.After(occ.Add(e.expiryBuffer))
			res.Active = sameCalendarDay(nowRef, occ) && e.slotActive(slots, dur, nowRef)
			if !res.Active && !res.Expired && occ.After(nowRef) {
				e.fillCountdown(&res, occ.Sub(nowRef))
			}
		}

	case KindAnchoredWeekly:
		anchor := time.UnixMilli(in.UpdatedAt).In(e.refLoc)
		if nowRef.Sub(anchor) > e.staleAnchor {
			res.Expired = true
			break
		}
		if occ, ok := firstOccurrenceAfter(slots, anchor); ok {
			res.Expired = nowRef.After(occ.Add(e.expiryBuffer))
			res.Active = sameCalendarDay(nowRef, occ) && e.slotActive(slots, dur, nowRef)
			if !res.Active && !res.Expired && occ.After(nowRef) {
				e.fillCountdown(&res, occ.Sub(nowRef))
			}
		}

	case KindWeekly:
		if alwaysOn(slots) {
			res.Active = true
			break
		}
		res.Active = e.slotActive(slots, dur, nowRef)
		if !res.Active {
			res.Expired = e.WeeklyExpired(slots, false, nowRef)
		}
		if !res.Active && !res.Expired {
			if next, ok := nextOccurrence(slots, nowRef); ok {
				e.fillCountdown(&res, next)
			}
		}
	}

	res.EndDate = e.EventEndDate(in, nowRef)
	res.Visible = e.visible(in, res.EndDate, nowRef)
	return res
}

// Classify determines the temporal shape of an instance.
func (e *Evaluator) Classify(in Input, combined string) Kind {
	if combined == "" && in.Team.StartDate == "" {
		return KindUnscheduled
	}
	if strings.Contains(combined, "~") ||
		dateRangeFamily[in.CanonicalID] ||
		rallyTitles[strings.ToLower(strings.TrimSpace(in.Title))] {
		return KindDateRange
	}
	weekly := len(schedtext.Parse(combined)) > 0
	if weekly && (in.Team.IsRecurring || rotation.IsBearFamily(in.CanonicalID)) {
		return KindDateRange
	}
	if in.Team.StartDate != "" {
		return KindAnchoredSingleShot
	}
	if weekly {
		if in.UpdatedAt > 0 {
			return KindAnchoredWeekly
		}
		return KindWeekly
	}
	return KindUnscheduled
}

// durationFor picks the active window. Long-running battle types get the
// long window; the bear family always gets the short one, keyword match or
// not.
func (e *Evaluator) durationFor(in Input) time.Duration {
	if rotation.IsBearFamily(in.CanonicalID) {
		return e.shortWindow
	}
	norm := strings.ToLower(in.CanonicalID + " " + in.Title)
	for _, kw := range longBattleKeywords {
		if strings.Contains(norm, kw) {
			return e.longWindow
		}
	}
	return e.shortWindow
}

// effectiveSlots parses the combined text and, for the rotating family,
// swaps every day token for the effective rotation day.
func (e *Evaluator) effectiveSlots(in Input, combined string, nowRef time.Time) []schedtext.Slot {
	slots := schedtext.Parse(combined)
	if !rotation.IsBearFamily(in.CanonicalID) {
		return slots
	}
	rec := model.ScheduleRecord{Day: in.Day, Time: in.Time, UpdatedAt: in.UpdatedAt}
	eff := e.rot.EffectiveDay(in.CanonicalID, rec, nowRef)
	if eff == "" {
		return slots
	}
	for i := range slots {
		if schedtext.IsDayToken(slots[i].Day) {
			slots[i].Day = eff
		}
	}
	return slots
}

// anchorOccurrence builds the single occurrence from an explicit start date
// and the first clock in the schedule, defaulting to midnight.
func (e *Evaluator) anchorOccurrence(startDate string, slots []schedtext.Slot) (time.Time, bool) {
	stamp, ok := schedtext.TryParseStamp(startDate)
	if !ok || !stamp.HasYear {
		return time.Time{}, false
	}
	hour, minute := stamp.Hour, stamp.Minute
	if !stamp.HasTime {
		if h, m, ok := firstClock(slots); ok {
			hour, minute = h, m
		}
	}
	return time.Date(stamp.Year, time.Month(stamp.Month), stamp.Day, hour, minute, 0, 0, e.refLoc), true
}

// fillCountdown exposes the remaining time when it falls inside the lead
// windows. d is the time until the next occurrence or range start.
func (e *Evaluator) fillCountdown(res *Result, d time.Duration) {
	if d < 0 {
		return
	}
	if d <= e.countdownWindow {
		res.Remaining = mo.Some(int64(d / time.Second))
	}
	if d <= e.soonWindow {
		res.UpcomingSoon = true
	}
}

// visible applies the post-end visibility buffer: 7 days when the record
// has an explicit start date, 2 days otherwise. Instances with no
// computable end date stay visible.
func (e *Evaluator) visible(in Input, end mo.Option[time.Time], nowRef time.Time) bool {
	endAt, ok := end.Get()
	if !ok {
		return true
	}
	buffer := e.bufferDefault
	if in.Team.StartDate != "" {
		buffer = e.bufferWithStart
	}
	return !nowRef.After(endAt.Add(buffer))
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
