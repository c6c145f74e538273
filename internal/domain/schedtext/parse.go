package schedtext

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// leapRefYear is used when validating a yearless date, so Feb 29 survives
// until the caller resolves the real year.
const leapRefYear = 2000

// ParseSchedule parses one schedule text into its structured form. Items
// that match no known shape are dropped; the function never fails.
func ParseSchedule(text string) Schedule {
	text = strings.TrimSpace(text)
	if text == "" || text == "." {
		return Schedule{}
	}

	var sched Schedule
	for _, seg := range strings.Split(text, " / ") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		label, rest := splitLabel(seg)
		group := Group{Label: label}
		for _, raw := range splitItems(rest) {
			if item, ok := parseItem(raw, label); ok {
				group.Items = append(group.Items, item)
			}
		}
		if group.Label != "" || len(group.Items) > 0 {
			sched.Groups = append(sched.Groups, group)
		}
	}
	return sched
}

// Parse returns the flat weekly-slot view of a schedule text: one entry per
// day-bearing item, in source order. Range items carry no day token and are
// not part of this view.
func Parse(text string) []Slot {
	var slots []Slot
	idx := 0
	for _, item := range ParseSchedule(text).Items() {
		switch item.Kind {
		case KindWeekly, KindDaily, KindAlways:
			slots = append(slots, Slot{Day: item.Weekly.Day, Time: item.Weekly.Time, SourceIndex: idx})
			idx++
		case KindStructure:
			slots = append(slots, Slot{Day: item.Structure.Day, Time: item.Structure.Time, SourceIndex: idx})
			idx++
		case KindRange:
			idx++
		}
	}
	return slots
}

func splitItems(s string) []string {
	items := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|'
	})
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items
}

// splitLabel separates a leading group label from the slot list. The colon
// that terminates a label must be distinguished from the colon inside a
// clock time: a colon flanked by digits on both sides is a time separator,
// anything else ends a label. A short candidate with no digits at all is
// also accepted as a label.
func splitLabel(seg string) (label, rest string) {
	i := strings.IndexByte(seg, ':')
	if i <= 0 || i == len(seg)-1 {
		return "", seg
	}
	before, _ := utf8.DecodeLastRuneInString(seg[:i])
	after, _ := utf8.DecodeRuneInString(seg[i+1:])
	candidate := strings.TrimSpace(seg[:i])
	if !unicode.IsDigit(before) || !unicode.IsDigit(after) {
		return candidate, strings.TrimSpace(seg[i+1:])
	}
	if utf8.RuneCountInString(candidate) <= 6 && !containsDigit(candidate) {
		return candidate, strings.TrimSpace(seg[i+1:])
	}
	return "", seg
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func parseItem(raw, groupLabel string) (Item, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "." {
		return Item{}, false
	}

	if strings.Contains(raw, "~") {
		if r, ok := parseRange(raw); ok {
			return Item{Kind: KindRange, Range: r}, true
		}
		return Item{}, false
	}

	if slot, ok := parseWeekly(raw); ok {
		kind := KindWeekly
		switch {
		case slot.Day == TokenDaily:
			kind = KindDaily
		case IsAlwaysToken(slot.Day):
			kind = KindAlways
		}
		return Item{Kind: kind, Weekly: slot}, true
	}

	if s, ok := parseStructure(raw, groupLabel); ok {
		return Item{Kind: KindStructure, Structure: s}, true
	}

	return Item{}, false
}

// parseWeekly handles "<DayToken>", "<DayToken>(<HH:MM>)" and the daily and
// always tokens with an optional trailing time.
func parseWeekly(raw string) (*WeeklySlot, bool) {
	day := raw
	clock := ""
	if i := strings.IndexByte(raw, '('); i >= 0 {
		j := strings.IndexByte(raw[i:], ')')
		if j < 0 {
			return nil, false
		}
		day = strings.TrimSpace(raw[:i])
		clock = strings.TrimSpace(raw[i+1 : i+j])
	} else if fields := strings.Fields(raw); len(fields) == 2 {
		day = fields[0]
		clock = fields[1]
	}

	if !IsDayToken(day) && day != TokenDaily && !IsAlwaysToken(day) {
		return nil, false
	}
	if clock != "" {
		h, m, ok := ParseHHMM(clock)
		if !ok {
			return nil, false
		}
		clock = FormatHHMM(h, m)
	}
	return &WeeklySlot{Day: day, Time: clock}, true
}

// parseStructure handles "<StructureName> <DayToken> <HH:MM>". Structure
// kind comes from the group label when present, otherwise from the name.
func parseStructure(raw, groupLabel string) (*StructureSlot, bool) {
	fields := strings.Fields(raw)
	if len(fields) < 3 {
		return nil, false
	}
	day := fields[len(fields)-2]
	clock := fields[len(fields)-1]
	if !IsDayToken(day) {
		return nil, false
	}
	h, m, ok := ParseHHMM(clock)
	if !ok {
		return nil, false
	}
	name := strings.Join(fields[:len(fields)-2], " ")
	return &StructureSlot{
		Name:    name,
		Day:     day,
		Time:    FormatHHMM(h, m),
		Citadel: isCitadel(name, groupLabel),
	}, true
}

func isCitadel(name, groupLabel string) bool {
	label := strings.ToLower(groupLabel)
	switch {
	case strings.Contains(label, "citadel"), strings.Contains(groupLabel, "성채"):
		return true
	case strings.Contains(label, "fortress"), strings.Contains(groupLabel, "요새"):
		return false
	}
	lower := strings.ToLower(name)
	return strings.Contains(lower, "citadel") || strings.Contains(name, "성채")
}

func parseRange(raw string) (*DateRange, bool) {
	parts := strings.SplitN(raw, "~", 2)
	if len(parts) != 2 {
		return nil, false
	}
	start, okS := TryParseStamp(parts[0])
	end, okE := TryParseStamp(parts[1])
	if !okS || !okE {
		return nil, false
	}
	return &DateRange{Start: start, End: end}, true
}

// TryParseStamp parses "[YYYY<sep>]MM<sep>DD[ HH:MM]" where sep is one of
// '.', '/' or '-'. Two-digit years mean 2000+YY. Dates that do not exist on
// the calendar are rejected.
func TryParseStamp(raw string) (DateStamp, bool) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 || len(fields) > 2 {
		return DateStamp{}, false
	}

	parts := strings.FieldsFunc(fields[0], func(r rune) bool {
		return r == '.' || r == '/' || r == '-'
	})
	var stamp DateStamp
	switch len(parts) {
	case 3:
		y, ok := parseUint(parts[0])
		if !ok {
			return DateStamp{}, false
		}
		if y < 100 {
			y += 2000
		}
		stamp.Year = y
		stamp.HasYear = true
		parts = parts[1:]
	case 2:
	default:
		return DateStamp{}, false
	}
	month, okM := parseUint(parts[0])
	day, okD := parseUint(parts[1])
	if !okM || !okD {
		return DateStamp{}, false
	}
	stamp.Month = month
	stamp.Day = day

	if len(fields) == 2 {
		h, m, ok := ParseHHMM(fields[1])
		if !ok {
			return DateStamp{}, false
		}
		stamp.Hour = h
		stamp.Minute = m
		stamp.HasTime = true
	}

	if !validDate(stamp) {
		return DateStamp{}, false
	}
	return stamp, true
}

// validDate rejects impossible calendar dates (e.g. Feb 31) by checking that
// time.Date does not normalize the components away.
func validDate(d DateStamp) bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return false
	}
	year := d.Year
	if !d.HasYear {
		year = leapRefYear
	}
	t := time.Date(year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return int(t.Month()) == d.Month && t.Day() == d.Day
}
