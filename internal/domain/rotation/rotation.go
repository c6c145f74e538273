// Package rotation computes the effective occurrence day for the bi-weekly
// rotating event family.
//
// The bear-family events do not sit on a fixed weekday. The registered day
// only seeds the cycle: starting from the first date on or after the
// schedule's last mutation whose weekday matches it, the event then fires
// every second day. This package walks that cycle and answers "which day
// token should display right now".
package rotation

import (
	"strings"
	"time"

	"github.com/seojun/eventory/internal/domain/model"
	"github.com/seojun/eventory/internal/domain/schedtext"
)

// defaultRolloverGrace is how far past the day's latest slot time an event
// day keeps pointing at itself before rolling to the next cycle.
const defaultRolloverGrace = 30 * time.Minute

// cycleDays is the rotation period.
const cycleDays = 2

// mondayOrigin orders day tokens for rotation math. This origin differs
// from the codec's Sunday origin on purpose; do not unify them.
var mondayOrigin = []string{"월", "화", "수", "목", "금", "토", "일"}

// IsBearFamily reports whether a canonical ID belongs to the rotating family.
func IsBearFamily(canonicalID string) bool {
	return strings.Contains(strings.ToLower(canonicalID), "bear")
}

// Calculator derives effective rotation days. The rollover grace is
// configurable; the default matches the game's observed behavior.
type Calculator struct {
	rolloverGrace time.Duration
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithRolloverGrace overrides the post-slot grace before rolling forward.
func WithRolloverGrace(d time.Duration) Option {
	return func(c *Calculator) {
		if d > 0 {
			c.rolloverGrace = d
		}
	}
}

// New constructs a Calculator.
func New(opts ...Option) *Calculator {
	c := &Calculator{rolloverGrace: defaultRolloverGrace}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EffectiveDay returns the day token the event occupies relative to now.
// Non-rotating events pass their registered day through unchanged. The
// result is a day token only; callers combine it with the schedule's time
// portion.
func (c *Calculator) EffectiveDay(canonicalID string, rec model.ScheduleRecord, now time.Time) string {
	registered := firstDayToken(rec.Day)
	if registered == "" || !IsBearFamily(canonicalID) {
		return registered
	}
	regIdx, ok := mondayIndex(registered)
	if !ok {
		return registered
	}

	if rec.UpdatedAt > 0 {
		return c.fromAnchor(rec, regIdx, now)
	}
	return c.fromParity(rec, regIdx, now)
}

// fromAnchor walks the strict 2-day cycle seeded at the first registered-day
// date on or after the anchor.
func (c *Calculator) fromAnchor(rec model.ScheduleRecord, regIdx int, now time.Time) string {
	anchor := time.UnixMilli(rec.UpdatedAt).In(now.Location())
	daysToFirst := mod7(regIdx - weekdayIndex(anchor.Weekday()))
	first := midnight(anchor).AddDate(0, 0, daysToFirst)

	daysSince := int(midnight(now).Sub(first) / (24 * time.Hour))
	switch {
	case daysSince >= 0 && daysSince%cycleDays == 0:
		if c.pastLatestSlot(rec, now) {
			return tokenFor(now.AddDate(0, 0, cycleDays).Weekday())
		}
		return tokenFor(now.Weekday())
	case daysSince < 0:
		return tokenFor(first.Weekday())
	default:
		// Under a strict 2-day cycle an off day is always followed by an
		// event day.
		return tokenFor(now.AddDate(0, 0, 1).Weekday())
	}
}

// fromParity approximates the cycle without an anchor: today is an event day
// when its offset from the registered day is even.
func (c *Calculator) fromParity(rec model.ScheduleRecord, regIdx int, now time.Time) string {
	diff := mod7(weekdayIndex(now.Weekday()) - regIdx)
	if diff%cycleDays == 0 {
		if c.pastLatestSlot(rec, now) {
			return tokenFor(now.AddDate(0, 0, cycleDays).Weekday())
		}
		return tokenFor(now.Weekday())
	}
	return tokenFor(now.AddDate(0, 0, 1).Weekday())
}

// NextEventTime returns the first rotation occurrence at hour:minute on or
// after now, walking the strict 2-day cycle from the updatedAt anchor. With
// no anchor the parity fallback seeds the cycle at the nearest event day.
// Consecutive dates of one weekday are 7 days apart, an odd offset, so a
// plain next-weekday search cannot substitute for this walk.
func NextEventTime(registered string, updatedAt int64, now time.Time, hour, minute int) (time.Time, bool) {
	regIdx, ok := mondayIndex(registered)
	if !ok {
		return time.Time{}, false
	}

	var first time.Time
	if updatedAt > 0 {
		anchor := time.UnixMilli(updatedAt).In(now.Location())
		first = midnight(anchor).AddDate(0, 0, mod7(regIdx-weekdayIndex(anchor.Weekday())))
	} else {
		offset := mod7(weekdayIndex(now.Weekday())-regIdx) % cycleDays
		first = midnight(now).AddDate(0, 0, offset)
	}

	clock := time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute
	cand := first.Add(clock)
	if cand.Before(now) {
		days := int(midnight(now).Sub(first) / (24 * time.Hour))
		cand = cand.AddDate(0, 0, days/cycleDays*cycleDays)
		for cand.Before(now) {
			cand = cand.AddDate(0, 0, cycleDays)
		}
	}
	return cand, true
}

// pastLatestSlot reports whether now is more than the grace past the latest
// HH:MM found in the record's schedule text.
func (c *Calculator) pastLatestSlot(rec model.ScheduleRecord, now time.Time) bool {
	latest, ok := latestClockMinutes(rec.Day, rec.Time)
	if !ok {
		return false
	}
	latestAt := midnight(now).Add(time.Duration(latest) * time.Minute)
	return now.After(latestAt.Add(c.rolloverGrace))
}

func latestClockMinutes(texts ...string) (int, bool) {
	latest, found := 0, false
	for _, text := range texts {
		for _, slot := range schedtext.Parse(text) {
			h, m, ok := schedtext.ParseHHMM(slot.Time)
			if !ok {
				continue
			}
			if v := h*60 + m; !found || v > latest {
				latest = v
				found = true
			}
		}
	}
	return latest, found
}

func firstDayToken(text string) string {
	for _, slot := range schedtext.Parse(text) {
		if schedtext.IsDayToken(slot.Day) {
			return slot.Day
		}
	}
	return ""
}

func mondayIndex(token string) (int, bool) {
	for i, t := range mondayOrigin {
		if t == token {
			return i, true
		}
	}
	return 0, false
}

func weekdayIndex(w time.Weekday) int {
	// time.Weekday is Sunday-origin; rotate to Monday-origin.
	return (int(w) + 6) % 7
}

func tokenFor(w time.Weekday) string {
	return mondayOrigin[weekdayIndex(w)]
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func mod7(n int) int {
	return ((n % 7) + 7) % 7
}
