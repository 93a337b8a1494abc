package catalog

import "github.com/forgebound/forgebot/forgebot/database/models"

// Recipes contains every craftable item. This replaces the need for a
// database seeder or JSON file.
var Recipes = []RecipeDefinition{
	// Weapons
	{
		Name:     "iron_sword",
		Category: CategoryWeapon,
		Materials: map[string]int64{
			models.ItemIronOre: 10,
			models.ItemWood:    4,
		},
		Cost:             CurrencyCost{Gold: 500},
		CraftTimePerUnit: 600_000, // 10 minutes
		Effect:           "A dependable blade. +5 attack.",
	},
	{
		Name:     "ember_axe",
		Category: CategoryWeapon,
		Materials: map[string]int64{
			models.ItemIronOre:   14,
			models.ItemWood:      6,
			models.ItemEmberDust: 3,
		},
		Cost:             CurrencyCost{Gold: 1200, Shards: 5},
		CraftTimePerUnit: 1_800_000, // 30 minutes
		Effect:           "Smolders on impact. +9 attack, burn chance.",
	},
	{
		Name:     "crystal_bow",
		Category: CategoryWeapon,
		Materials: map[string]int64{
			models.ItemWood:    12,
			models.ItemCrystal: 4,
		},
		Cost:             CurrencyCost{Gold: 2000, Shards: 10},
		CraftTimePerUnit: 3_600_000, // 1 hour
		Effect:           "Arrows refract mid-flight. +12 ranged attack.",
	},

	// Armor
	{
		Name:     "leather_vest",
		Category: CategoryArmor,
		Materials: map[string]int64{
			models.ItemLeather: 8,
		},
		Cost:             CurrencyCost{Gold: 300},
		CraftTimePerUnit: 300_000, // 5 minutes
		Effect:           "Light and quiet. +4 defense.",
	},
	{
		Name:     "iron_cuirass",
		Category: CategoryArmor,
		Materials: map[string]int64{
			models.ItemIronOre: 16,
			models.ItemLeather: 4,
		},
		Cost:             CurrencyCost{Gold: 1500},
		CraftTimePerUnit: 2_700_000, // 45 minutes
		Effect:           "Heavy plate. +11 defense.",
	},
	{
		Name:     "silverleaf_cloak",
		Category: CategoryArmor,
		Materials: map[string]int64{
			models.ItemLeather:    6,
			models.ItemSilverLeaf: 5,
		},
		Cost:             CurrencyCost{Gold: 2500, Shards: 15},
		CraftTimePerUnit: 5_400_000, // 90 minutes
		Effect:           "Shimmers in moonlight. +8 defense, +5% evasion.",
	},

	// Consumables craft instantly.
	{
		Name:     "healing_salve",
		Category: CategoryConsumable,
		Materials: map[string]int64{
			models.ItemSilverLeaf: 2,
		},
		Cost:             CurrencyCost{Gold: 100},
		CraftTimePerUnit: 0,
		Effect:           "Restores 50 health over 10 seconds.",
	},
	{
		Name:     "ember_tonic",
		Category: CategoryConsumable,
		Materials: map[string]int64{
			models.ItemEmberDust:  1,
			models.ItemSilverLeaf: 1,
		},
		Cost:             CurrencyCost{Gold: 250},
		CraftTimePerUnit: 0,
		Effect:           "Next attack deals double damage.",
	},

	// Trinkets
	{
		Name:     "crystal_pendant",
		Category: CategoryTrinket,
		Materials: map[string]int64{
			models.ItemCrystal:    3,
			models.ItemSilverLeaf: 3,
		},
		Cost:             CurrencyCost{Gold: 1800, Shards: 20},
		CraftTimePerUnit: 7_200_000, // 2 hours
		Effect:           "+5% gold from all sources while worn.",
	},
	{
		Name:     "foremans_seal",
		Category: CategoryTrinket,
		Materials: map[string]int64{
			models.ItemIronOre: 6,
			models.ItemCrystal: 2,
		},
		Cost:             CurrencyCost{Gold: 3200, Shards: 25},
		CraftTimePerUnit: 10_800_000, // 3 hours
		Effect:           "Workshop badge of office. Unlocks bulk orders.",
	},
}
