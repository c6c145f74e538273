package schedtext

import (
	"fmt"
	"strings"
)

// Serialize renders a flat slot list back to text. It is the left inverse of
// Parse for the weekly slot-list shape.
func Serialize(slots []Slot) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		parts = append(parts, formatDayTime(s.Day, s.Time))
	}
	return strings.Join(parts, ", ")
}

// SerializeSchedule renders a structured schedule back to text. Labeled
// groups join with " / ", items within a group with ", ". Range and
// composite shapes are write-once from structured state and serialize to
// the canonical spelling, not necessarily the original hand-authored one.
func SerializeSchedule(s Schedule) string {
	groups := make([]string, 0, len(s.Groups))
	for _, g := range s.Groups {
		items := make([]string, 0, len(g.Items))
		for _, item := range g.Items {
			if text := formatItem(item); text != "" {
				items = append(items, text)
			}
		}
		body := strings.Join(items, ", ")
		if g.Label != "" {
			body = g.Label + ": " + body
		}
		if body != "" {
			groups = append(groups, body)
		}
	}
	return strings.Join(groups, " / ")
}

func formatItem(item Item) string {
	switch item.Kind {
	case KindWeekly, KindDaily, KindAlways:
		if item.Weekly == nil {
			return ""
		}
		return formatDayTime(item.Weekly.Day, item.Weekly.Time)
	case KindStructure:
		if item.Structure == nil {
			return ""
		}
		return fmt.Sprintf("%s %s %s", item.Structure.Name, item.Structure.Day, item.Structure.Time)
	case KindRange:
		if item.Range == nil {
			return ""
		}
		return formatStamp(item.Range.Start) + " ~ " + formatStamp(item.Range.End)
	}
	return ""
}

func formatDayTime(day, clock string) string {
	if clock == "" {
		return day
	}
	return day + "(" + clock + ")"
}

func formatStamp(d DateStamp) string {
	var b strings.Builder
	if d.HasYear {
		fmt.Fprintf(&b, "%04d.", d.Year)
	}
	fmt.Fprintf(&b, "%02d.%02d", d.Month, d.Day)
	if d.HasTime {
		b.WriteString(" " + FormatHHMM(d.Hour, d.Minute))
	}
	return b.String()
}
