package status

// longBattleKeywords mark long-running battle events that get the long
// active window. Both English IDs/titles and the Korean display words are
// matched after lowercasing.
var longBattleKeywords = []string{
	"canyon", "weapon", "foundry", "fortress", "citadel", "battle",
	"협곡", "무기", "주조", "요새", "성채", "전투",
}

// dateRangeFamily lists canonical IDs that always evaluate as date ranges
// regardless of how their text happens to be authored.
var dateRangeFamily = map[string]bool{
	"alliance_mobilization": true,
	"frostfire_mine":        true,
	"king_of_icefield":      true,
}

// rallyTitles is the small hardcoded set of rally-style titles that also
// evaluate as date ranges. Compared lowercased.
var rallyTitles = map[string]bool{
	"mercenary rally": true,
	"winter rally":    true,
}
