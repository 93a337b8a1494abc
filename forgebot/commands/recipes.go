package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/forgebound/forgebot/forgebot"
	"github.com/forgebound/forgebot/forgebot/economy/catalog"
	"github.com/forgebound/forgebot/forgebot/economy/crafting"
	"github.com/forgebound/forgebot/forgebot/utils"
)

const recipesPerPage = 4

var Recipes = discord.SlashCommandCreate{
	Name:        "recipes",
	Description: "📖 Browse the recipe catalog",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "category",
			Description: "Recipe category",
			Required:    true,
			Choices:     categoryChoices,
		},
	},
}

func RecipesHandler(b *forgebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		category := e.SlashCommandInteractionData().String("category")
		recipes := catalog.CategoryRecipes(category)
		if len(recipes) == 0 {
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("No recipes in category %q.", category))
		}

		// A snapshot lets the listing show how many of each the user can
		// afford right now. Browsing still works if the read fails.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		snap, snapErr := b.CraftProcessor.Snapshot(ctx, e.User().ID.String(), category)

		totalPages := (len(recipes) + recipesPerPage - 1) / recipesPerPage

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * recipesPerPage
				end := min(start+recipesPerPage, len(recipes))

				var sb strings.Builder
				for _, recipe := range recipes[start:end] {
					sb.WriteString(formatRecipe(recipe, snap, snapErr == nil))
				}

				embed.SetTitle(fmt.Sprintf("📖 Recipes: %s", category)).
					SetDescription(sb.String()).
					SetColor(0x2b2d31).
					SetFooter(fmt.Sprintf("Page %d/%d", page+1, totalPages), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func formatRecipe(recipe *catalog.RecipeDefinition, snap *crafting.Snapshot, haveSnap bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s**\n", recipe.Name))

	var cost []string
	if recipe.Cost.Gold > 0 {
		cost = append(cost, fmt.Sprintf("%s gold", utils.FormatNumber(recipe.Cost.Gold)))
	}
	if recipe.Cost.Shards > 0 {
		cost = append(cost, fmt.Sprintf("%s shards", utils.FormatNumber(recipe.Cost.Shards)))
	}
	if len(cost) > 0 {
		sb.WriteString("Cost: " + strings.Join(cost, ", ") + "\n")
	}

	var mats []string
	for _, name := range sortedKeys(recipe.Materials) {
		mats = append(mats, fmt.Sprintf("%s x%d", name, recipe.Materials[name]))
	}
	sb.WriteString("Materials: " + strings.Join(mats, ", ") + "\n")

	if recipe.CraftTimePerUnit == 0 {
		sb.WriteString("Time: instant\n")
	} else {
		sb.WriteString(fmt.Sprintf("Time: %s per unit\n",
			utils.FormatDuration(time.Duration(recipe.CraftTimePerUnit)*time.Millisecond)))
	}

	if haveSnap {
		max := crafting.MaxCraftable(recipe, snap.Inventory, snap.Gold, snap.Shards)
		sb.WriteString(fmt.Sprintf("You can craft: %s\n", utils.FormatNumber(max)))
	}
	sb.WriteString("\n")
	return sb.String()
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
