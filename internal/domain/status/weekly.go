package status

import (
	"time"

	"github.com/seojun/eventory/internal/domain/schedtext"
)

// weekMinutes positions an instant on the circular 7-day timeline, Sunday
// origin, matching the codec's slot math.
func weekMinutes(t time.Time) int {
	return int(t.Weekday())*schedtext.MinutesPerDay + t.Hour()*60 + t.Minute()
}

// slotActive reports whether now falls inside any slot's active window on
// the circular weekly timeline, handling week-boundary wraparound.
func (e *Evaluator) slotActive(slots []schedtext.Slot, window time.Duration, nowRef time.Time) bool {
	nowWeek := weekMinutes(nowRef)
	nowDay := nowRef.Hour()*60 + nowRef.Minute()
	windowMin := int(window / time.Minute)

	for _, slot := range slots {
		switch {
		case schedtext.IsAlwaysToken(slot.Day):
			return true

		case slot.Day == schedtext.TokenDaily:
			if slot.Time == "" {
				return true
			}
			h, m, ok := schedtext.ParseHHMM(slot.Time)
			if !ok {
				continue
			}
			diff := mod(nowDay-(h*60+m), schedtext.MinutesPerDay)
			if diff <= windowMin {
				return true
			}

		case schedtext.IsDayToken(slot.Day):
			dayIdx, _ := schedtext.DayIndex(slot.Day)
			if slot.Time == "" {
				// A bare day covers the whole day.
				if int(nowRef.Weekday()) == dayIdx {
					return true
				}
				continue
			}
			h, m, ok := schedtext.ParseHHMM(slot.Time)
			if !ok {
				continue
			}
			start := dayIdx*schedtext.MinutesPerDay + h*60 + m
			diff := mod(nowWeek-start, schedtext.MinutesPerWeek)
			if diff <= windowMin {
				return true
			}
		}
	}
	return false
}

// WeeklyExpired reports whether every matched slot's nearest occurrence has
// already elapsed by more than the expiry buffer. For recurring schedules
// the nearest occurrence is looked up within the nearest-span either
// direction; for non-recurring ones only past occurrences count. Daily and
// always-on slots never expire.
func (e *Evaluator) WeeklyExpired(slots []schedtext.Slot, recurring bool, nowRef time.Time) bool {
	nowWeek := weekMinutes(nowRef)
	bufferMin := int(e.expiryBuffer / time.Minute)
	spanMin := int(e.nearestSpan / time.Minute)

	checked := false
	for _, slot := range slots {
		if schedtext.IsAlwaysToken(slot.Day) || slot.Day == schedtext.TokenDaily {
			return false
		}
		dayIdx, ok := schedtext.DayIndex(slot.Day)
		if !ok {
			continue
		}
		start := dayIdx * schedtext.MinutesPerDay
		if h, m, ok := schedtext.ParseHHMM(slot.Time); ok {
			start += h*60 + m
		}
		forward := mod(start-nowWeek, schedtext.MinutesPerWeek)
		back := mod(nowWeek-start, schedtext.MinutesPerWeek)

		if recurring {
			// Nearest occurrence within the span, either direction.
			if forward <= spanMin && forward <= back {
				return false // nearest is in the future
			}
			if back > spanMin {
				return false // no occurrence near enough to judge
			}
		}
		if back <= bufferMin {
			return false
		}
		checked = true
	}
	return checked
}

// nextOccurrence returns the time to the nearest future occurrence among
// the slots.
func nextOccurrence(slots []schedtext.Slot, nowRef time.Time) (time.Duration, bool) {
	nowWeek := weekMinutes(nowRef)
	nowDay := nowRef.Hour()*60 + nowRef.Minute()

	best, found := 0, false
	consider := func(minutes int) {
		if !found || minutes < best {
			best = minutes
			found = true
		}
	}

	for _, slot := range slots {
		switch {
		case schedtext.IsAlwaysToken(slot.Day):
			consider(0)
		case slot.Day == schedtext.TokenDaily:
			if h, m, ok := schedtext.ParseHHMM(slot.Time); ok {
				consider(mod((h*60+m)-nowDay, schedtext.MinutesPerDay))
			} else {
				consider(0)
			}
		case schedtext.IsDayToken(slot.Day):
			dayIdx, _ := schedtext.DayIndex(slot.Day)
			start := dayIdx * schedtext.MinutesPerDay
			if h, m, ok := schedtext.ParseHHMM(slot.Time); ok {
				start += h*60 + m
			}
			consider(mod(start-nowWeek, schedtext.MinutesPerWeek))
		}
	}
	if !found {
		return 0, false
	}
	return time.Duration(best) * time.Minute, true
}

// firstOccurrenceAfter finds the earliest concrete slot occurrence on or
// after the anchor instant.
func firstOccurrenceAfter(slots []schedtext.Slot, anchor time.Time) (time.Time, bool) {
	anchorMid := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())

	var best time.Time
	found := false
	consider := func(t time.Time) {
		if !found || t.Before(best) {
			best = t
			found = true
		}
	}

	for _, slot := range slots {
		clock := 0
		if h, m, ok := schedtext.ParseHHMM(slot.Time); ok {
			clock = h*60 + m
		}
		switch {
		case slot.Day == schedtext.TokenDaily:
			occ := anchorMid.Add(time.Duration(clock) * time.Minute)
			if occ.Before(anchor) {
				occ = occ.AddDate(0, 0, 1)
			}
			consider(occ)
		case schedtext.IsDayToken(slot.Day):
			dayIdx, _ := schedtext.DayIndex(slot.Day)
			days := mod(dayIdx-int(anchor.Weekday()), 7)
			occ := anchorMid.AddDate(0, 0, days).Add(time.Duration(clock) * time.Minute)
			if occ.Before(anchor) {
				occ = occ.AddDate(0, 0, 7)
			}
			consider(occ)
		}
	}
	return best, found
}

func alwaysOn(slots []schedtext.Slot) bool {
	for _, slot := range slots {
		if schedtext.IsAlwaysToken(slot.Day) {
			return true
		}
	}
	return false
}

func firstClock(slots []schedtext.Slot) (hour, minute int, ok bool) {
	for _, slot := range slots {
		if h, m, parsed := schedtext.ParseHHMM(slot.Time); parsed {
			return h, m, true
		}
	}
	return 0, 0, false
}

// firstRange returns the first explicit date range in a schedule text.
func firstRange(text string) (schedtext.DateRange, bool) {
	for _, item := range schedtext.ParseSchedule(text).Items() {
		if item.Kind == schedtext.KindRange && item.Range != nil {
			return *item.Range, true
		}
	}
	return schedtext.DateRange{}, false
}

func mod(n, m int) int {
	return ((n % m) + m) % m
}
