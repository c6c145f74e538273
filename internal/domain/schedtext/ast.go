package schedtext

import "time"

// ItemKind tags the shape of one parsed schedule item.
type ItemKind int

const (
	KindWeekly ItemKind = iota
	KindDaily
	KindAlways
	KindRange
	KindStructure
)

// Slot is the flat view of one weekly occurrence: a day token, an optional
// HH:MM time, and the position of the item in the source text.
type Slot struct {
	Day         string
	Time        string
	SourceIndex int
}

// WeeklySlot is a day token with an optional time. Day may also be the daily
// token, in which case the slot repeats every day at Time.
type WeeklySlot struct {
	Day  string
	Time string // "HH:MM" or empty
}

// DateStamp is one side of a date range. Year may be absent in the source
// text, in which case the caller's reference year applies.
type DateStamp struct {
	Year    int
	Month   int
	Day     int
	Hour    int
	Minute  int
	HasTime bool
	HasYear bool
}

// Resolve builds a concrete time in loc, substituting refYear when the
// source text carried no year.
func (d DateStamp) Resolve(refYear int, loc *time.Location) time.Time {
	year := d.Year
	if !d.HasYear {
		year = refYear
	}
	return time.Date(year, time.Month(d.Month), d.Day, d.Hour, d.Minute, 0, 0, loc)
}

// DateRange is a concrete start~end window.
type DateRange struct {
	Start DateStamp
	End   DateStamp
}

// StructureSlot is one fortress/citadel structure occurrence.
type StructureSlot struct {
	Name    string
	Day     string
	Time    string
	Citadel bool
}

// Item is the tagged union of all item shapes.
type Item struct {
	Kind      ItemKind
	Weekly    *WeeklySlot
	Range     *DateRange
	Structure *StructureSlot
}

// Group is a run of items under an optional team or structure label.
type Group struct {
	Label string
	Items []Item
}

// Schedule is the parsed form of one schedule text.
type Schedule struct {
	Groups []Group
}

// Empty reports whether no items parsed at all.
func (s Schedule) Empty() bool {
	for _, g := range s.Groups {
		if len(g.Items) > 0 {
			return false
		}
	}
	return true
}

// Items flattens all groups into one item list.
func (s Schedule) Items() []Item {
	var out []Item
	for _, g := range s.Groups {
		out = append(out, g.Items...)
	}
	return out
}
