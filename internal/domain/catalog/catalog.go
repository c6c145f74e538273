// Package catalog holds the static event catalog the engine evaluates.
package catalog

import "github.com/seojun/eventory/internal/domain/model"

// definitions is the full catalog, loaded once and never mutated.
var definitions = []model.EventDefinition{
	{ID: "bear_hunt", Title: "Bear Hunt", Category: model.CategoryAlliance, WikiURL: "https://wiki.example.com/bear-hunt", ImageRef: "events/bear_hunt.png"},
	{ID: "foundry_battle", Title: "Foundry Battle", Category: model.CategoryAlliance, WikiURL: "https://wiki.example.com/foundry-battle", ImageRef: "events/foundry.png"},
	{ID: "canyon_clash", Title: "Canyon Clash", Category: model.CategoryAlliance, WikiURL: "https://wiki.example.com/canyon-clash", ImageRef: "events/canyon.png"},
	{ID: "fortress_battle", Title: "Fortress Battle", Category: model.CategoryServer, WikiURL: "https://wiki.example.com/fortress-battle", ImageRef: "events/fortress.png"},
	{ID: "crazy_joe", Title: "Crazy Joe", Category: model.CategoryAlliance, WikiURL: "https://wiki.example.com/crazy-joe", ImageRef: "events/crazy_joe.png"},
	{ID: "alliance_mobilization", Title: "Alliance Mobilization", Category: model.CategoryAlliance, WikiURL: "https://wiki.example.com/mobilization", ImageRef: "events/mobilization.png"},
	{ID: "frostfire_mine", Title: "Frostfire Mine", Category: model.CategoryServer, WikiURL: "https://wiki.example.com/frostfire-mine", ImageRef: "events/frostfire.png"},
	{ID: "king_of_icefield", Title: "King of Icefield", Category: model.CategoryServer, WikiURL: "https://wiki.example.com/king-of-icefield", ImageRef: "events/icefield.png"},
	{ID: "mercenary_rally", Title: "Mercenary Rally", Category: model.CategoryAlliance, ImageRef: "events/mercenary.png"},
	{ID: "alliance_championship", Title: "Alliance Championship", Category: model.CategoryServer, WikiURL: "https://wiki.example.com/championship", ImageRef: "events/championship.png"},
	{ID: "arena", Title: "Arena", Category: model.CategoryPersonal, ImageRef: "events/arena.png"},
	{ID: "daily_missions", Title: "Daily Missions", Category: model.CategoryPersonal, ImageRef: "events/daily.png"},
	{ID: "rookie_arena", Title: "Rookie Arena", Category: model.CategoryRookie, ImageRef: "events/rookie_arena.png"},
}

// All returns the catalog. Callers must treat the result as read-only.
func All() []model.EventDefinition {
	return definitions
}

// Lookup returns the definition for a canonical ID.
func Lookup(id string) (model.EventDefinition, bool) {
	for _, d := range definitions {
		if d.ID == id {
			return d, true
		}
	}
	return model.EventDefinition{}, false
}
