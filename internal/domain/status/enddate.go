package status

import (
	"strings"
	"time"

	"github.com/samber/mo"

	"github.com/seojun/eventory/internal/domain/schedtext"
)

// EventEndDate resolves the instant an instance's schedule ends, through a
// fallback chain: explicit range in the combined day+time text, then the
// start-date-derived end, then a loose range scan over the raw fields, then
// a single absolute date+time. None returns an empty option, which callers
// treat as always-visible.
func (e *Evaluator) EventEndDate(in Input, nowRef time.Time) mo.Option[time.Time] {
	combined := schedtext.CombineDayTime(in.Day, in.Time)

	if rng, ok := firstRange(combined); ok {
		return mo.Some(rng.End.Resolve(nowRef.Year(), e.refLoc))
	}

	if in.Team.StartDate != "" {
		slots := schedtext.Parse(combined)
		if occ, ok := e.anchorOccurrence(in.Team.StartDate, slots); ok {
			return mo.Some(occ.Add(e.expiryBuffer))
		}
	}

	if end, ok := e.looseRangeEnd(in.Day + " " + in.Time, nowRef); ok {
		return mo.Some(end)
	}

	if stamp, ok := singleAbsoluteStamp(combined); ok {
		return mo.Some(stamp.Resolve(nowRef.Year(), e.refLoc).Add(e.expiryBuffer))
	}

	return mo.None[time.Time]()
}

// looseRangeEnd scans raw text for a "start ~ end" pair the structured
// parser did not pick up, e.g. when the halves straddle the day and time
// fields in an unpaired way.
func (e *Evaluator) looseRangeEnd(raw string, nowRef time.Time) (time.Time, bool) {
	i := strings.Index(raw, "~")
	if i < 0 {
		return time.Time{}, false
	}
	stamp, ok := schedtext.TryParseStamp(strings.TrimSpace(raw[i+1:]))
	if !ok {
		return time.Time{}, false
	}
	return stamp.Resolve(nowRef.Year(), e.refLoc), true
}

// singleAbsoluteStamp matches a schedule text that is one absolute
// date+time occurrence and nothing else.
func singleAbsoluteStamp(combined string) (schedtext.DateStamp, bool) {
	stamp, ok := schedtext.TryParseStamp(combined)
	if !ok || !stamp.HasTime {
		return schedtext.DateStamp{}, false
	}
	return stamp, true
}
