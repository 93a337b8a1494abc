package catalog

import (
	"testing"
)

func TestGetRecipe(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		category string
		want     string
		wantOK   bool
	}{
		{
			name:     "exact match",
			query:    "iron_sword",
			category: CategoryWeapon,
			want:     "iron_sword",
			wantOK:   true,
		},
		{
			name:     "case and spaces normalized",
			query:    "  Iron Sword ",
			category: CategoryWeapon,
			want:     "iron_sword",
			wantOK:   true,
		},
		{
			name:     "wrong category",
			query:    "iron_sword",
			category: CategoryArmor,
			wantOK:   false,
		},
		{
			name:     "unknown recipe",
			query:    "obsidian_maul",
			category: CategoryWeapon,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetRecipe(tt.query, tt.category)
			if ok != tt.wantOK {
				t.Fatalf("GetRecipe(%q, %q) ok = %v, want %v", tt.query, tt.category, ok, tt.wantOK)
			}
			if ok && got.Name != tt.want {
				t.Errorf("GetRecipe(%q, %q) = %q, want %q", tt.query, tt.category, got.Name, tt.want)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	got := Suggest("iron_sord", CategoryWeapon, 3)
	if len(got) == 0 {
		t.Fatal("Suggest returned no candidates for a close misspelling")
	}
	found := false
	for _, name := range got {
		if name == "iron_sword" {
			found = true
		}
	}
	if !found {
		t.Errorf("Suggest(%q) = %v, want it to contain iron_sword", "iron_sord", got)
	}
}

func TestSuggestLimit(t *testing.T) {
	got := Suggest("e", "", 2)
	if len(got) > 2 {
		t.Errorf("Suggest returned %d names, want at most 2", len(got))
	}
}

func TestCategoryRecipes(t *testing.T) {
	for _, category := range []string{CategoryWeapon, CategoryArmor, CategoryConsumable, CategoryTrinket} {
		recipes := CategoryRecipes(category)
		if len(recipes) == 0 {
			t.Errorf("no recipes in category %q", category)
		}
		for _, r := range recipes {
			if r.Category != category {
				t.Errorf("recipe %q has category %q, want %q", r.Name, r.Category, category)
			}
		}
	}
}

func TestConsumablesAreInstant(t *testing.T) {
	for _, r := range CategoryRecipes(CategoryConsumable) {
		if r.CraftTimePerUnit != 0 {
			t.Errorf("consumable %q has craft time %d, want 0", r.Name, r.CraftTimePerUnit)
		}
	}
}
