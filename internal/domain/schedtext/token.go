// Package schedtext parses and serializes the compact schedule text format
// used by the persisted schedule records.
//
// The grammar, informally:
//
//	slot       := DayToken ["(" HH ":" MM ")"]
//	slotlist   := slot {("," | "|") slot}
//	labeled    := LabelText ":" slotlist
//	composite  := labeled {"/" labeled}
//	range      := Date [Time] "~" Date [Time]
//	DayToken   := 일|월|화|수|목|금|토 | 매일 | 상시|상설
//
// Unparseable items are dropped silently; the codec never fails.
package schedtext

import (
	"fmt"
	"strings"
)

// Day tokens in slot-math order. The week origin here is Sunday; the
// rotation calculator uses a Monday origin on purpose. Keep them separate.
var dayTokens = []string{"일", "월", "화", "수", "목", "금", "토"}

// Special tokens.
const (
	TokenDaily     = "매일"
	TokenAlways    = "상시"
	TokenAlwaysAlt = "상설"
)

// MinutesPerDay and MinutesPerWeek bound the circular weekly timeline.
const (
	MinutesPerDay  = 24 * 60
	MinutesPerWeek = 7 * MinutesPerDay
)

// DayIndex returns the Sunday-origin index of a day token.
func DayIndex(token string) (int, bool) {
	for i, t := range dayTokens {
		if t == token {
			return i, true
		}
	}
	return 0, false
}

// DayToken returns the token for a Sunday-origin index, wrapping modulo 7.
func DayToken(index int) string {
	return dayTokens[((index%7)+7)%7]
}

// IsDayToken reports whether s is one of the seven weekday tokens.
func IsDayToken(s string) bool {
	_, ok := DayIndex(s)
	return ok
}

// IsAlwaysToken reports whether s marks an always-on schedule.
func IsAlwaysToken(s string) bool {
	return s == TokenAlways || s == TokenAlwaysAlt
}

// ParseHHMM parses a strict HH:MM clock string.
func ParseHHMM(s string) (hour, minute int, ok bool) {
	s = strings.TrimSpace(s)
	i := strings.IndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return 0, 0, false
	}
	h, okH := parseUint(s[:i])
	m, okM := parseUint(s[i+1:])
	if !okH || !okM || h > 23 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// FormatHHMM renders a zero-padded HH:MM clock string.
func FormatHHMM(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func parseUint(s string) (int, bool) {
	if s == "" || len(s) > 4 {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
