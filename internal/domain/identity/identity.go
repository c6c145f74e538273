// Package identity normalizes raw event identifiers to canonical IDs.
package identity

import "strings"

// minBaseLen guards suffix stripping: a stripped prefix shorter than this is
// assumed to be a genuinely short canonical ID that happens to end in a
// matching substring, and the suffix is kept.
const minBaseLen = 4

// aliases collapses legacy and duplicate identifiers to one canonical form.
var aliases = map[string]string{
	"bear_trap":      "bear_hunt",
	"bear_hunt2":     "bear_hunt",
	"weapon_factory": "foundry_battle",
	"foundry":        "foundry_battle",
	"canyon_battle":  "canyon_clash",
	"crazyjoe":       "crazy_joe",
	"mobilization":   "alliance_mobilization",
	"castle_battle":  "fortress_battle",
	"icefield_king":  "king_of_icefield",
}

// derivedSuffixes are appended to canonical IDs when an event is exploded
// into per-team or per-structure sub-instances.
var derivedSuffixes = []string{"_fortress", "_citadel"}

// Resolve maps any raw, legacy or suffixed event identifier to its canonical
// ID. Pure and total: empty input resolves to the empty string, and inputs
// with no registered alias pass through after suffix stripping.
func Resolve(raw string) string {
	if raw == "" {
		return ""
	}
	id := stripDerivedSuffix(raw)
	if canonical, ok := aliases[id]; ok {
		return canonical
	}
	return id
}

func stripDerivedSuffix(id string) string {
	for _, suffix := range derivedSuffixes {
		if strings.HasSuffix(id, suffix) && len(id)-len(suffix) >= minBaseLen {
			return id[:len(id)-len(suffix)]
		}
	}
	// Team suffixes carry a numeric index: _team1, _team2, ...
	if i := strings.LastIndex(id, "_team"); i >= minBaseLen {
		if digits := id[i+len("_team"):]; digits != "" && allDigits(digits) {
			return id[:i]
		}
	}
	return id
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
