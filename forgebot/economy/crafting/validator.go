package crafting

import (
	"sort"

	"github.com/forgebound/forgebot/forgebot/economy/catalog"
)

// MaxCraftAmount bounds a single craft request.
const MaxCraftAmount = 1000

// Validation is the successful result of ValidateFullCraft.
type Validation struct {
	Recipe      *catalog.RecipeDefinition
	Amount      int64
	TotalGold   int64
	TotalShards int64
}

// ValidateFullCraft runs the pre-confirmation checks against a snapshot,
// short-circuiting in order: amount bounds, recipe existence, materials,
// currency. It never mutates anything; the processor re-checks live state
// when the craft is committed.
func ValidateFullCraft(itemName string, amount int64, category string, snap *Snapshot) (*Validation, error) {
	if amount < 1 {
		return nil, newError(CodeAmountInvalid, "amount must be a positive integer, got %d", amount)
	}
	if amount > MaxCraftAmount {
		return nil, newError(CodeAmountTooLarge, "amount %d exceeds the maximum of %d per craft", amount, MaxCraftAmount)
	}

	recipe, ok := catalog.GetRecipe(itemName, category)
	if !ok {
		err := newError(CodeRecipeNotFound, "no %s recipe named %q", category, itemName)
		err.Suggestions = catalog.Suggest(itemName, category, 3)
		return nil, err
	}

	var materialShortfalls []Shortfall
	for _, name := range sortedMaterials(recipe.Materials) {
		required := recipe.Materials[name] * amount
		available := snap.Inventory[name]
		if available < required {
			materialShortfalls = append(materialShortfalls, Shortfall{
				Resource:  name,
				Required:  required,
				Available: available,
			})
		}
	}
	if len(materialShortfalls) > 0 {
		err := newError(CodeMaterialsInsufficient, "missing materials for %dx %s", amount, recipe.Name)
		err.Shortfalls = materialShortfalls
		return nil, err
	}

	totalGold := recipe.Cost.Gold * amount
	totalShards := recipe.Cost.Shards * amount

	var currencyShortfalls []Shortfall
	if snap.Gold < totalGold {
		currencyShortfalls = append(currencyShortfalls, Shortfall{Resource: "gold", Required: totalGold, Available: snap.Gold})
	}
	if snap.Shards < totalShards {
		currencyShortfalls = append(currencyShortfalls, Shortfall{Resource: "shards", Required: totalShards, Available: snap.Shards})
	}
	if len(currencyShortfalls) > 0 {
		err := newError(CodeCurrencyInsufficient, "not enough currency for %dx %s", amount, recipe.Name)
		err.Shortfalls = currencyShortfalls
		return nil, err
	}

	return &Validation{
		Recipe:      recipe,
		Amount:      amount,
		TotalGold:   totalGold,
		TotalShards: totalShards,
	}, nil
}

// MaxCraftable returns the largest amount satisfying every material and
// currency constraint simultaneously; 0 when not even one unit fits.
func MaxCraftable(recipe *catalog.RecipeDefinition, inventory map[string]int64, gold, shards int64) int64 {
	max := int64(MaxCraftAmount)

	for name, perUnit := range recipe.Materials {
		if perUnit <= 0 {
			continue
		}
		if n := inventory[name] / perUnit; n < max {
			max = n
		}
	}
	if recipe.Cost.Gold > 0 {
		if n := gold / recipe.Cost.Gold; n < max {
			max = n
		}
	}
	if recipe.Cost.Shards > 0 {
		if n := shards / recipe.Cost.Shards; n < max {
			max = n
		}
	}

	if max < 0 {
		return 0
	}
	return max
}

// sortedMaterials keeps shortfall ordering stable for rendering and tests.
func sortedMaterials(materials map[string]int64) []string {
	names := make([]string, 0, len(materials))
	for name := range materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
