package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/forgebound/forgebot/forgebot"
	"github.com/forgebound/forgebot/forgebot/utils"
)

const itemsPerPage = 10

var Inventory = discord.SlashCommandCreate{
	Name:        "inventory",
	Description: "🎒 View your materials and crafted items",
}

func InventoryHandler(b *forgebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		items, err := b.InventoryRepository.GetUserItems(ctx, e.User().ID.String())
		if err != nil {
			return utils.EH.CreateError(e, "Inventory Unavailable", "Could not load your inventory, try again later")
		}
		if len(items) == 0 {
			return utils.EH.CreateInfoEmbed(e, "Your inventory is empty.")
		}

		totalPages := (len(items) + itemsPerPage - 1) / itemsPerPage

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * itemsPerPage
				end := min(start+itemsPerPage, len(items))

				var sb strings.Builder
				sb.WriteString("```\n")
				for _, item := range items[start:end] {
					sb.WriteString(fmt.Sprintf("%-20s x%s\n", item.ItemName, utils.FormatNumber(item.Quantity)))
				}
				sb.WriteString("```")

				embed.SetTitle("🎒 Inventory").
					SetDescription(sb.String()).
					SetColor(0x2b2d31).
					SetFooter(fmt.Sprintf("Page %d/%d • %d items", page+1, totalPages, len(items)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
