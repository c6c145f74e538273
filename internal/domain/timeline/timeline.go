// Package timeline orders evaluated event instances for display.
//
// Split sub-instances (teams, fortress/citadel structures) of one parent
// stay contiguous through a shared bundle; bundles with activity sort
// first, then by proximity of their next occurrence.
package timeline

import (
	"sort"
	"strings"
	"time"

	"github.com/seojun/eventory/internal/domain/model"
	"github.com/seojun/eventory/internal/domain/schedtext"
	"github.com/seojun/eventory/internal/domain/tzshift"
)

// Schedule text is anchored to the reference zone; all positioning happens
// there regardless of the zone the caller's now arrives in.
var refLoc = time.FixedZone("UTC+9", tzshift.ReferenceOffsetMinutes*60)

// fortressBundleID groups fortress and citadel sub-instances of the same
// parent into one bundle.
const fortressBundleID = "fortress_bundle"

type bundleStats struct {
	minTime    int64
	hasActive  bool
	allExpired bool
	members    int
}

// Sort orders instances for the timeline view. The input is not mutated.
func Sort(instances []model.EventInstance, now time.Time) []model.EventInstance {
	now = now.In(refLoc)
	out := make([]model.EventInstance, len(instances))
	copy(out, instances)

	bundles := make(map[string]*bundleStats)
	for _, inst := range out {
		t := sortTime(inst, now)

		id := bundleID(inst)
		stats, ok := bundles[id]
		if !ok {
			stats = &bundleStats{minTime: t, allExpired: true}
			bundles[id] = stats
		}
		if t < stats.minTime {
			stats.minTime = t
		}
		stats.hasActive = stats.hasActive || inst.Active
		stats.allExpired = stats.allExpired && inst.Expired
		stats.members++
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ba, bb := bundles[bundleID(a)], bundles[bundleID(b)]

		if ba.hasActive != bb.hasActive {
			return ba.hasActive
		}
		if ba.allExpired != bb.allExpired {
			return !ba.allExpired
		}
		if (ba.members > 1) != (bb.members > 1) {
			return ba.members > 1
		}
		if ba.minTime != bb.minTime {
			return ba.minTime < bb.minTime
		}
		if ai, bi := bundleID(a), bundleID(b); ai != bi {
			return ai < bi
		}
		if a.TeamIndex != b.TeamIndex {
			return a.TeamIndex < b.TeamIndex
		}
		if fa, fb := isFortressTitle(a), isFortressTitle(b); fa != fb {
			return fa
		}
		return a.Title < b.Title
	})
	return out
}

// bundleID derives the grouping key: fortress and citadel structures share
// one bundle, all other instances bundle under their parent event ID.
func bundleID(inst model.EventInstance) string {
	if inst.Structure != model.StructureNone {
		return fortressBundleID
	}
	return inst.CanonicalID
}

// sortTime positions an instance on an absolute epoch-second scale: ranges
// by their start date, weekly shapes by their next future occurrence.
func sortTime(inst model.EventInstance, now time.Time) int64 {
	combined := schedtext.CombineDayTime(inst.Day, inst.Time)
	for _, item := range schedtext.ParseSchedule(combined).Items() {
		if item.Kind == schedtext.KindRange && item.Range != nil {
			return item.Range.Start.Resolve(now.Year(), now.Location()).Unix()
		}
	}
	if offset, ok := nextOffset(schedtext.Parse(combined), now); ok {
		return now.Add(offset).Unix()
	}
	// Unscheduled instances sort to the far end.
	return now.AddDate(1, 0, 0).Unix()
}

// nextOffset is the time to the earliest future occurrence among the slots.
func nextOffset(slots []schedtext.Slot, now time.Time) (time.Duration, bool) {
	nowWeek := int(now.Weekday())*schedtext.MinutesPerDay + now.Hour()*60 + now.Minute()

	best, found := 0, false
	for _, slot := range slots {
		var minutes int
		switch {
		case schedtext.IsAlwaysToken(slot.Day):
			minutes = 0
		case slot.Day == schedtext.TokenDaily:
			h, m, ok := schedtext.ParseHHMM(slot.Time)
			if !ok {
				minutes = 0
			} else {
				nowDay := now.Hour()*60 + now.Minute()
				minutes = mod((h*60+m)-nowDay, schedtext.MinutesPerDay)
			}
		case schedtext.IsDayToken(slot.Day):
			dayIdx, _ := schedtext.DayIndex(slot.Day)
			start := dayIdx * schedtext.MinutesPerDay
			if h, m, ok := schedtext.ParseHHMM(slot.Time); ok {
				start += h*60 + m
			}
			minutes = mod(start-nowWeek, schedtext.MinutesPerWeek)
		default:
			continue
		}
		if !found || minutes < best {
			best = minutes
			found = true
		}
	}
	return time.Duration(best) * time.Minute, found
}

func isFortressTitle(inst model.EventInstance) bool {
	if inst.Structure == model.StructureFortress {
		return true
	}
	if inst.Structure == model.StructureCitadel {
		return false
	}
	lower := strings.ToLower(inst.Title)
	return strings.Contains(lower, "fortress") || strings.Contains(inst.Title, "요새")
}

func mod(n, m int) int {
	return ((n % m) + m) % m
}
