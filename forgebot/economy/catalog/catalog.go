// Package catalog holds the static crafting recipe table. The table is
// compiled in (no seeder, no database round trip) and is safe for
// unsynchronized concurrent reads.
package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Recipe categories.
const (
	CategoryWeapon     = "weapon"
	CategoryArmor      = "armor"
	CategoryConsumable = "consumable"
	CategoryTrinket    = "trinket"
)

// CurrencyCost is the per-unit currency price of a recipe.
type CurrencyCost struct {
	Gold   int64
	Shards int64
}

// RecipeDefinition is one immutable recipe row. CraftTimePerUnit is in
// milliseconds; zero means the craft completes immediately.
type RecipeDefinition struct {
	Name             string
	Category         string
	Materials        map[string]int64
	Cost             CurrencyCost
	CraftTimePerUnit int64
	Effect           string
}

// GetRecipe looks up a recipe by name within a category. Names are
// matched case-insensitively with spaces and underscores collapsed.
func GetRecipe(name, category string) (*RecipeDefinition, bool) {
	key := normalize(name)
	for i := range Recipes {
		r := &Recipes[i]
		if r.Category == category && normalize(r.Name) == key {
			return r, true
		}
	}
	return nil, false
}

// Suggest returns up to limit recipe names close to the given input,
// used for "did you mean" rendering on RECIPE_NOT_FOUND.
func Suggest(name, category string, limit int) []string {
	var names []string
	for i := range Recipes {
		if category == "" || Recipes[i].Category == category {
			names = append(names, Recipes[i].Name)
		}
	}

	matches := fuzzy.Find(normalize(name), names)
	var out []string
	for _, m := range matches {
		out = append(out, names[m.Index])
		if len(out) >= limit {
			break
		}
	}
	return out
}

// CategoryRecipes returns every recipe in one category, in table order.
func CategoryRecipes(category string) []*RecipeDefinition {
	var out []*RecipeDefinition
	for i := range Recipes {
		if Recipes[i].Category == category {
			out = append(out, &Recipes[i])
		}
	}
	return out
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
