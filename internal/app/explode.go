package app

import (
	"strconv"
	"strings"

	"github.com/seojun/eventory/internal/domain/model"
	"github.com/seojun/eventory/internal/domain/schedtext"
)

// seed is one displayable instance derived from a catalog entry and its
// record. Composite schedules (team labels, structure slots) produce
// several seeds from one record.
type seed struct {
	id        string
	title     string
	day       string
	timeText  string
	team      model.TeamRecurrence
	teamIndex int
	structure model.StructureKind
}

// explode splits a record into its displayable instances. Fortress and
// citadel slots become derived instances, labeled groups become team
// instances, everything else maps one to one.
func explode(def model.EventDefinition, rec model.ScheduleRecord) []seed {
	base := seed{
		id:    def.ID,
		title: def.Title,
		day:   rec.Day,
		team:  rec.Team(1),
	}
	if !rec.HasSchedule() {
		base.timeText = rec.Time
		return []seed{base}
	}

	combined := schedtext.CombineDayTime(rec.Day, rec.Time)
	sched := schedtext.ParseSchedule(combined)
	if sched.Empty() {
		base.day = rec.Day
		base.timeText = rec.Time
		return []seed{base}
	}

	if hasStructureItems(sched) {
		return explodeStructures(def, rec, sched)
	}
	if len(sched.Groups) > 1 && hasLabels(sched) {
		return explodeTeams(def, rec, sched)
	}

	base.day = schedtext.SerializeSchedule(sched)
	return []seed{base}
}

func hasStructureItems(sched schedtext.Schedule) bool {
	for _, item := range sched.Items() {
		if item.Kind == schedtext.KindStructure {
			return true
		}
	}
	return false
}

func hasLabels(sched schedtext.Schedule) bool {
	for _, g := range sched.Groups {
		if g.Label != "" {
			return true
		}
	}
	return false
}

// explodeStructures partitions structure slots into fortress and citadel
// instances. Derived IDs keep the canonical ID resolvable by suffix strip.
func explodeStructures(def model.EventDefinition, rec model.ScheduleRecord, sched schedtext.Schedule) []seed {
	var forts, citadels []schedtext.Item
	for _, item := range sched.Items() {
		if item.Kind != schedtext.KindStructure {
			continue
		}
		if item.Structure.Citadel {
			citadels = append(citadels, item)
		} else {
			forts = append(forts, item)
		}
	}

	var out []seed
	if len(forts) > 0 {
		out = append(out, seed{
			id:        def.ID + "_fortress",
			title:     structureTitle(def.Title, forts[0].Structure.Name),
			day:       serializeItems(forts),
			team:      rec.Team(1),
			structure: model.StructureFortress,
		})
	}
	if len(citadels) > 0 {
		out = append(out, seed{
			id:        def.ID + "_citadel",
			title:     structureTitle(def.Title, citadels[0].Structure.Name),
			day:       serializeItems(citadels),
			team:      rec.Team(1),
			structure: model.StructureCitadel,
		})
	}
	if len(out) == 0 {
		return []seed{{id: def.ID, title: def.Title, day: rec.Day, timeText: rec.Time, team: rec.Team(1)}}
	}
	return out
}

// explodeTeams turns each labeled group into a team instance. Each team
// keeps its own recurrence fields from the record.
func explodeTeams(def model.EventDefinition, rec model.ScheduleRecord, sched schedtext.Schedule) []seed {
	out := make([]seed, 0, len(sched.Groups))
	for i, g := range sched.Groups {
		idx := teamIndexFromLabel(g.Label, i+1)
		out = append(out, seed{
			id:        def.ID + "_team" + strconv.Itoa(idx),
			title:     def.Title + " (" + g.Label + ")",
			day:       schedtext.SerializeSchedule(schedtext.Schedule{Groups: []schedtext.Group{{Items: g.Items}}}),
			team:      rec.Team(idx),
			teamIndex: idx,
		})
	}
	return out
}

// teamIndexFromLabel extracts a team number from labels like "1군" or
// "Team2", falling back to the group's position.
func teamIndexFromLabel(label string, fallback int) int {
	var digits strings.Builder
	for _, r := range label {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return fallback
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func structureTitle(base, name string) string {
	if name == "" {
		return base
	}
	return base + " - " + name
}

func serializeItems(items []schedtext.Item) string {
	return schedtext.SerializeSchedule(schedtext.Schedule{Groups: []schedtext.Group{{Items: items}}})
}
