// Package tzshift shifts schedule text between timezones by a minute offset.
//
// All schedules are authored in a single reference timezone (UTC+9). A
// caller wanting local or UTC display passes the signed minute delta from
// the reference zone; the same transform covers both directions.
package tzshift

import (
	"fmt"
	"time"

	"github.com/seojun/eventory/internal/domain/schedtext"
)

// ReferenceOffsetMinutes is the authoring timezone offset from UTC.
const ReferenceOffsetMinutes = 540

// LocalDelta returns the minute delta from the reference zone to now's zone.
func LocalDelta(now time.Time) int {
	_, offset := now.Zone()
	return offset/60 - ReferenceOffsetMinutes
}

// UTCDelta is the minute delta from the reference zone to UTC.
const UTCDelta = -ReferenceOffsetMinutes

// Convert shifts every parsed item of text by deltaMinutes and reformats.
// Weekly day+time slots move on the circular week (Sunday origin, modulo
// seven days); the daily token shifts time-of-day only; absolute dates are
// reparsed, shifted and re-emitted with a four-digit year. Conversion runs
// even at delta 0 so callers can use it to normalize formatting. The
// reference year resolves yearless dates.
func Convert(text string, deltaMinutes int, refYear int) string {
	sched := schedtext.ParseSchedule(text)
	if sched.Empty() {
		return text
	}
	for gi := range sched.Groups {
		for ii := range sched.Groups[gi].Items {
			shiftItem(&sched.Groups[gi].Items[ii], deltaMinutes, refYear)
		}
	}
	return schedtext.SerializeSchedule(sched)
}

func shiftItem(item *schedtext.Item, delta, refYear int) {
	switch item.Kind {
	case schedtext.KindWeekly:
		item.Weekly.Day, item.Weekly.Time = shiftWeekly(item.Weekly.Day, item.Weekly.Time, delta)
	case schedtext.KindDaily:
		item.Weekly.Time = shiftClock(item.Weekly.Time, delta)
	case schedtext.KindAlways:
		// Always-on has no clock to move.
	case schedtext.KindStructure:
		item.Structure.Day, item.Structure.Time = shiftWeekly(item.Structure.Day, item.Structure.Time, delta)
	case schedtext.KindRange:
		item.Range.Start = shiftStamp(item.Range.Start, delta, refYear)
		item.Range.End = shiftStamp(item.Range.End, delta, refYear)
	}
}

// shiftWeekly moves a day+time pair on the minutes-since-week-start circle.
// A bare day with no time has nothing to anchor the shift and is kept as is.
func shiftWeekly(day, clock string, delta int) (string, string) {
	if clock == "" {
		return day, clock
	}
	dayIdx, ok := schedtext.DayIndex(day)
	if !ok {
		return day, clock
	}
	h, m, ok := schedtext.ParseHHMM(clock)
	if !ok {
		return day, clock
	}
	total := dayIdx*schedtext.MinutesPerDay + h*60 + m + delta
	total = ((total % schedtext.MinutesPerWeek) + schedtext.MinutesPerWeek) % schedtext.MinutesPerWeek
	return schedtext.DayToken(total / schedtext.MinutesPerDay),
		schedtext.FormatHHMM((total%schedtext.MinutesPerDay)/60, total%60)
}

// shiftClock rotates a time of day with no day wraparound.
func shiftClock(clock string, delta int) string {
	h, m, ok := schedtext.ParseHHMM(clock)
	if !ok {
		return clock
	}
	total := h*60 + m + delta
	total = ((total % schedtext.MinutesPerDay) + schedtext.MinutesPerDay) % schedtext.MinutesPerDay
	return schedtext.FormatHHMM(total/60, total%60)
}

// shiftStamp resolves the stamp to a concrete date, applies the delta and
// re-emits a concrete stamp. Stamps without a clock stay date-only and are
// not moved; there is no instant to shift.
func shiftStamp(d schedtext.DateStamp, delta, refYear int) schedtext.DateStamp {
	if !d.HasTime {
		if !d.HasYear {
			d.Year = refYear
			d.HasYear = true
		}
		return d
	}
	t := d.Resolve(refYear, time.UTC).Add(time.Duration(delta) * time.Minute)
	return schedtext.DateStamp{
		Year:    t.Year(),
		Month:   int(t.Month()),
		Day:     t.Day(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		HasTime: true,
		HasYear: true,
	}
}

// FormatAbsolute renders a concrete instant in the canonical absolute form.
func FormatAbsolute(t time.Time) string {
	return fmt.Sprintf("%04d.%02d.%02d %s", t.Year(), int(t.Month()), t.Day(), schedtext.FormatHHMM(t.Hour(), t.Minute()))
}
