// Package model contains domain models passed between layers.
package model

import "github.com/samber/mo"

// Category groups catalog events by audience, mirroring the in-game tabs.
type Category int

const (
	CategoryAll Category = iota
	CategoryPersonal
	CategoryAlliance
	CategoryServer
	CategoryRookie
)

// String returns the API label for a category.
func (c Category) String() string {
	switch c {
	case CategoryPersonal:
		return "personal"
	case CategoryAlliance:
		return "alliance"
	case CategoryServer:
		return "server"
	case CategoryRookie:
		return "rookie"
	default:
		return "all"
	}
}

// EventDefinition is one static catalog entry. Loaded once at process start,
// never mutated.
type EventDefinition struct {
	ID       string
	Title    string
	Category Category
	WikiURL  string
	ImageRef string
}

// ScheduleRecord is the persisted schedule for one canonical event, possibly
// split into two independently scheduled teams. Day and Time carry the
// compact textual encoding the codec understands; "." means explicitly
// cleared. A record with no day, no time and no start date is unscheduled.
type ScheduleRecord struct {
	EventID  string
	Day      string
	Time     string
	Strategy string

	// StartDate anchors a non-recurring single occurrence (ISO date).
	StartDate string

	// Recurrence cadence for team/slot 1.
	IsRecurring     bool
	RecurrenceValue int
	RecurrenceUnit  string // "day" or "week"

	// Team-2 mirror fields for dual-team split events.
	IsRecurring2     bool
	RecurrenceValue2 int
	RecurrenceUnit2  string
	StartDate2       string

	// UpdatedAt is the mutation timestamp in epoch milliseconds. It doubles
	// as the rotation anchor for the bi-weekly event family.
	UpdatedAt int64
}

// HasSchedule reports whether the record carries any schedule information.
func (r ScheduleRecord) HasSchedule() bool {
	return !blank(r.Day) || !blank(r.Time) || r.StartDate != "" || r.StartDate2 != ""
}

func blank(s string) bool { return s == "" || s == "." }

// TeamRecurrence captures the recurrence fields for one team slot.
type TeamRecurrence struct {
	IsRecurring     bool
	RecurrenceValue int
	RecurrenceUnit  string
	StartDate       string
}

// Team returns the recurrence fields for the given 1-based team index.
// Index 0 (unsplit) and 1 both map to the primary fields.
func (r ScheduleRecord) Team(index int) TeamRecurrence {
	if index == 2 {
		return TeamRecurrence{
			IsRecurring:     r.IsRecurring2,
			RecurrenceValue: r.RecurrenceValue2,
			RecurrenceUnit:  r.RecurrenceUnit2,
			StartDate:       r.StartDate2,
		}
	}
	return TeamRecurrence{
		IsRecurring:     r.IsRecurring,
		RecurrenceValue: r.RecurrenceValue,
		RecurrenceUnit:  r.RecurrenceUnit,
		StartDate:       r.StartDate,
	}
}

// StructureKind tags sub-instances of composite fortress/citadel events.
type StructureKind int

const (
	StructureNone StructureKind = iota
	StructureFortress
	StructureCitadel
)

// EventInstance is the ephemeral join of one catalog entry with its schedule
// record, optionally exploded per team or per structure. Recomputed on every
// evaluation pass, never persisted.
type EventInstance struct {
	// ID is the post-split identifier, e.g. "bear_hunt_team1".
	ID          string
	CanonicalID string
	Title       string
	Category    Category

	// Day and Time are this instance's slice of the schedule text, already
	// shifted into the display timezone when one was requested.
	Day  string
	Time string

	// TeamIndex is 1 or 2 for team sub-instances, 0 otherwise.
	TeamIndex int
	Structure StructureKind

	// Recurrence fields inherited from the matching team slot.
	Recurrence TeamRecurrence
	UpdatedAt  int64

	Active           bool
	Expired          bool
	UpcomingSoon     bool
	RemainingSeconds mo.Option[int64]
	Visible          bool
}
