package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/forgebound/forgebot/forgebot"
	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/forgebound/forgebot/forgebot/economy/crafting"
	"github.com/forgebound/forgebot/forgebot/utils"
)

const queueEntriesPerPage = 5

var Queue = discord.SlashCommandCreate{
	Name:        "queue",
	Description: "⏳ Manage your crafting queue",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "Show your pending and ready crafts",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "cancel",
			Description: "Cancel an unclaimed craft (no refund)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "id",
					Description: "Queue entry ID to cancel",
					Required:    true,
					MinValue:    intPtr(1),
				},
			},
		},
	},
}

type QueueHandler struct {
	bot *forgebot.Bot
}

func NewQueueHandler(b *forgebot.Bot) *QueueHandler {
	return &QueueHandler{bot: b}
}

func (h *QueueHandler) Register(r handler.Router) {
	r.Route("/queue", func(r handler.Router) {
		r.Command("/list", h.HandleList)
		r.Command("/cancel", h.HandleCancel)
	})
}

func (h *QueueHandler) HandleList(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := h.bot.CraftProcessor.GetQueueItems(ctx, e.User().ID.String())
	if err != nil {
		return utils.EH.CreateError(e, "Queue Unavailable", "Could not load your queue, try again later")
	}

	if len(entries) == 0 {
		return utils.EH.CreateInfoEmbed(e, "Your crafting queue is empty. Timed crafts land here after `/craft`.")
	}

	now := time.Now()
	totalPages := (len(entries) + queueEntriesPerPage - 1) / queueEntriesPerPage

	return h.bot.Paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			start := page * queueEntriesPerPage
			end := min(start+queueEntriesPerPage, len(entries))

			var sb strings.Builder
			for _, entry := range entries[start:end] {
				sb.WriteString(formatQueueEntry(entry, now))
			}
			sb.WriteString(fmt.Sprintf("\n%d/%d slots used", len(entries), models.MaxQueueSlots))

			embed.SetTitle("⏳ Crafting Queue").
				SetDescription(sb.String()).
				SetColor(0x2b2d31).
				SetFooter(fmt.Sprintf("Page %d/%d", page+1, totalPages), "")
		},
		Pages:      totalPages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

func formatQueueEntry(entry *models.CraftQueueEntry, now time.Time) string {
	status := fmt.Sprintf("ready %s", utils.FormatRelativeTimestamp(entry.CompletesAt))
	if entry.Ready(now) {
		status = "✅ ready to claim"
	}
	return fmt.Sprintf("`#%d` **%s** x%s (%s)\n%s\n\n",
		entry.ID, entry.ItemName, utils.FormatNumber(entry.Amount), entry.Category, status)
}

func (h *QueueHandler) HandleCancel(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id := int64(e.SlashCommandInteractionData().Int("id"))
	err := h.bot.CraftProcessor.CancelQueuedCraft(ctx, id, e.User().ID.String())
	if err != nil {
		var ce *crafting.CraftError
		if errors.As(err, &ce) && ce.Code == crafting.CodeNotFound {
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("No unclaimed queue entry `#%d` belongs to you.", id))
		}
		return utils.EH.CreateError(e, "Cancel Failed", "Could not cancel the entry, try again later")
	}

	return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Cancelled queue entry `#%d`. Spent resources are not refunded.", id))
}
