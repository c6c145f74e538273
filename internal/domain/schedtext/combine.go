package schedtext

import "strings"

// CombineDayTime merges a record's separate day and time fields into one
// schedule text the parser understands. Persisted records sometimes keep
// day tokens in one field and clock times in the other; ranges can likewise
// split their date and clock halves across the two fields.
func CombineDayTime(day, timeText string) string {
	day = normalizeField(day)
	timeText = normalizeField(timeText)
	switch {
	case day == "" && timeText == "":
		return ""
	case timeText == "":
		return day
	case day == "":
		return timeText
	}

	// A range split across the fields: dates in day, clocks in time.
	if strings.Contains(day, "~") {
		if combined, ok := zipRange(day, timeText); ok {
			return combined
		}
		return day
	}
	if strings.Contains(timeText, "~") {
		return timeText
	}

	// Labeled groups keep their labels; clocks pair with groups by
	// position, the last clock covering any remainder.
	if sched := ParseSchedule(day); hasLabels(sched) {
		clocks := clockList(timeText)
		for gi := range sched.Groups {
			if len(clocks) == 0 {
				break
			}
			j := gi
			if j >= len(clocks) {
				j = len(clocks) - 1
			}
			fillGroupClock(&sched.Groups[gi], clocks[j])
		}
		return SerializeSchedule(sched)
	}

	// Weekly shape: pair bare day tokens with the clock list by index. A
	// single clock applies to every day.
	slots := Parse(day)
	if len(slots) == 0 {
		return day + " " + timeText
	}
	clocks := clockList(timeText)
	for i := range slots {
		if slots[i].Time != "" || len(clocks) == 0 {
			continue
		}
		j := i
		if j >= len(clocks) {
			j = len(clocks) - 1
		}
		slots[i].Time = clocks[j]
	}
	return Serialize(slots)
}

// zipRange stitches "D1 ~ D2" and "T1 ~ T2" into "D1 T1 ~ D2 T2".
func zipRange(day, timeText string) (string, bool) {
	d := strings.SplitN(day, "~", 2)
	t := strings.SplitN(timeText, "~", 2)
	if len(d) != 2 {
		return "", false
	}
	if len(t) != 2 {
		// One shared clock for both ends is accepted too.
		t = []string{timeText, timeText}
	}
	start := strings.TrimSpace(d[0]) + " " + strings.TrimSpace(t[0])
	end := strings.TrimSpace(d[1]) + " " + strings.TrimSpace(t[1])
	if _, ok := TryParseStamp(start); !ok {
		return "", false
	}
	if _, ok := TryParseStamp(end); !ok {
		return "", false
	}
	return start + " ~ " + end, true
}

func hasLabels(s Schedule) bool {
	for _, g := range s.Groups {
		if g.Label != "" {
			return true
		}
	}
	return false
}

func fillGroupClock(g *Group, clock string) {
	for i := range g.Items {
		item := &g.Items[i]
		if item.Kind != KindWeekly && item.Kind != KindDaily {
			continue
		}
		if item.Weekly != nil && item.Weekly.Time == "" {
			item.Weekly.Time = clock
		}
	}
}

func clockList(timeText string) []string {
	var clocks []string
	for _, part := range splitItems(timeText) {
		if h, m, ok := ParseHHMM(part); ok {
			clocks = append(clocks, FormatHHMM(h, m))
		}
	}
	return clocks
}

func normalizeField(s string) string {
	s = strings.TrimSpace(s)
	if s == "." {
		return ""
	}
	return s
}
