package crafting

import (
	"errors"
	"testing"

	"github.com/forgebound/forgebot/forgebot/economy/catalog"
)

func testSnapshot(gold, shards int64, inventory map[string]int64) *Snapshot {
	if inventory == nil {
		inventory = map[string]int64{}
	}
	return &Snapshot{
		UserID:    "123",
		Inventory: inventory,
		Gold:      gold,
		Shards:    shards,
	}
}

func TestValidateFullCraft(t *testing.T) {
	tests := []struct {
		name     string
		itemName string
		amount   int64
		category string
		snap     *Snapshot
		wantCode Code
		wantGold int64
	}{
		{
			name:     "success",
			itemName: "iron_sword",
			amount:   2,
			category: catalog.CategoryWeapon,
			snap:     testSnapshot(1000, 0, map[string]int64{"iron_ore": 20, "wood": 8}),
			wantGold: 1000,
		},
		{
			name:     "zero amount",
			itemName: "iron_sword",
			amount:   0,
			category: catalog.CategoryWeapon,
			snap:     testSnapshot(1000, 0, nil),
			wantCode: CodeAmountInvalid,
		},
		{
			name:     "negative amount",
			itemName: "iron_sword",
			amount:   -5,
			category: catalog.CategoryWeapon,
			snap:     testSnapshot(1000, 0, nil),
			wantCode: CodeAmountInvalid,
		},
		{
			name:     "amount over cap",
			itemName: "iron_sword",
			amount:   MaxCraftAmount + 1,
			category: catalog.CategoryWeapon,
			snap:     testSnapshot(1000, 0, nil),
			wantCode: CodeAmountTooLarge,
		},
		{
			name:     "unknown recipe",
			itemName: "obsidian_maul",
			amount:   1,
			category: catalog.CategoryWeapon,
			snap:     testSnapshot(1000, 0, nil),
			wantCode: CodeRecipeNotFound,
		},
		{
			name:     "missing materials checked before currency",
			itemName: "iron_sword",
			amount:   1,
			category: catalog.CategoryWeapon,
			snap:     testSnapshot(0, 0, nil),
			wantCode: CodeMaterialsInsufficient,
		},
		{
			name:     "materials fine but currency short",
			itemName: "iron_sword",
			amount:   2,
			category: catalog.CategoryWeapon,
			snap:     testSnapshot(999, 0, map[string]int64{"iron_ore": 20, "wood": 8}),
			wantCode: CodeCurrencyInsufficient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFullCraft(tt.itemName, tt.amount, tt.category, tt.snap)
			if tt.wantCode != "" {
				if err == nil {
					t.Fatalf("ValidateFullCraft() succeeded, want code %s", tt.wantCode)
				}
				if code := ErrCode(err); code != tt.wantCode {
					t.Errorf("ValidateFullCraft() code = %s, want %s", code, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateFullCraft() error = %v", err)
			}
			if got.TotalGold != tt.wantGold {
				t.Errorf("TotalGold = %d, want %d", got.TotalGold, tt.wantGold)
			}
		})
	}
}

func TestValidateFullCraftShortfallDetail(t *testing.T) {
	snap := testSnapshot(10000, 0, map[string]int64{"iron_ore": 3})

	_, err := ValidateFullCraft("iron_sword", 1, catalog.CategoryWeapon, snap)
	var ce *CraftError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CraftError, got %T", err)
	}
	if len(ce.Shortfalls) != 2 {
		t.Fatalf("got %d shortfalls, want 2", len(ce.Shortfalls))
	}
	// Sorted by material name: iron_ore before wood.
	if ce.Shortfalls[0].Resource != "iron_ore" || ce.Shortfalls[0].Required != 10 || ce.Shortfalls[0].Available != 3 {
		t.Errorf("shortfall[0] = %+v, want iron_ore 10/3", ce.Shortfalls[0])
	}
	if ce.Shortfalls[1].Resource != "wood" || ce.Shortfalls[1].Required != 4 || ce.Shortfalls[1].Available != 0 {
		t.Errorf("shortfall[1] = %+v, want wood 4/0", ce.Shortfalls[1])
	}
}

func TestValidateFullCraftSuggestions(t *testing.T) {
	snap := testSnapshot(0, 0, nil)
	_, err := ValidateFullCraft("iron_sord", 1, catalog.CategoryWeapon, snap)
	var ce *CraftError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CraftError, got %T", err)
	}
	if ce.Code != CodeRecipeNotFound {
		t.Fatalf("code = %s, want %s", ce.Code, CodeRecipeNotFound)
	}
	if len(ce.Suggestions) == 0 {
		t.Error("expected suggestions for a close misspelling")
	}
}

func TestMaxCraftable(t *testing.T) {
	recipe, _ := catalog.GetRecipe("iron_sword", catalog.CategoryWeapon)

	tests := []struct {
		name      string
		inventory map[string]int64
		gold      int64
		shards    int64
		want      int64
	}{
		{
			name:      "currency binds",
			inventory: map[string]int64{"iron_ore": 100, "wood": 100},
			gold:      2000,
			want:      4, // floor(2000/500) binds below floor(100/10)
		},
		{
			name:      "currency generous, materials bind",
			inventory: map[string]int64{"iron_ore": 25, "wood": 100},
			gold:      1 << 40,
			want:      2,
		},
		{
			name:      "nothing available",
			inventory: map[string]int64{},
			gold:      0,
			want:      0,
		},
		{
			name:      "everything abundant caps at limit",
			inventory: map[string]int64{"iron_ore": 1 << 40, "wood": 1 << 40},
			gold:      1 << 50,
			want:      MaxCraftAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxCraftable(recipe, tt.inventory, tt.gold, tt.shards)
			if got != tt.want {
				t.Errorf("MaxCraftable() = %d, want %d", got, tt.want)
			}
		})
	}
}
