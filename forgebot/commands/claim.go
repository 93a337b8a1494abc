package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/forgebound/forgebot/forgebot"
	"github.com/forgebound/forgebot/forgebot/economy/crafting"
	"github.com/forgebound/forgebot/forgebot/utils"
)

var Claim = discord.SlashCommandCreate{
	Name:        "claim",
	Description: "📦 Claim completed crafts from your queue",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "id",
			Description: "Queue entry ID (omit to claim everything ready)",
			Required:    false,
			MinValue:    intPtr(1),
		},
	},
}

func ClaimHandler(b *forgebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		userID := e.User().ID.String()
		if id, ok := e.SlashCommandInteractionData().OptInt("id"); ok {
			return claimOne(ctx, e, b, int64(id), userID)
		}
		return claimAll(ctx, e, b, userID)
	}
}

func claimOne(ctx context.Context, e *handler.CommandEvent, b *forgebot.Bot, id int64, userID string) error {
	result, err := b.CraftProcessor.ClaimQueuedCraft(ctx, id, userID)
	if err != nil {
		var ce *crafting.CraftError
		if errors.As(err, &ce) {
			switch ce.Code {
			case crafting.CodeNotFound:
				return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("No unclaimed queue entry `#%d` belongs to you.", id))
			case crafting.CodeNotReady:
				return utils.EH.CreateErrorEmbed(e, ce.Message)
			}
		}
		return utils.EH.CreateError(e, "Claim Failed", "Could not claim the entry, try again later")
	}

	return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Claimed **%s** x%s from entry `#%d`.",
		result.ItemName, utils.FormatNumber(result.Amount), result.EntryID))
}

func claimAll(ctx context.Context, e *handler.CommandEvent, b *forgebot.Bot, userID string) error {
	results, err := b.CraftProcessor.ClaimAllReady(ctx, userID)
	if err != nil {
		return utils.EH.CreateError(e, "Claim Failed", "Could not read your queue, try again later")
	}
	if len(results) == 0 {
		return utils.EH.CreateInfoEmbed(e, "Nothing is ready to claim yet. Check `/queue list` for completion times.")
	}

	var sb strings.Builder
	claimed := 0
	for _, r := range results {
		if r.Err != nil {
			sb.WriteString(fmt.Sprintf("• `#%d` failed: %v\n", r.EntryID, r.Err))
			continue
		}
		claimed++
		sb.WriteString(fmt.Sprintf("• `#%d` **%s** x%s\n", r.EntryID, r.ItemName, utils.FormatNumber(r.Amount)))
	}

	color := 0x00FF00
	if claimed < len(results) {
		color = 0xFFAA00
	}

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       fmt.Sprintf("📦 Claimed %d/%d", claimed, len(results)),
			Description: sb.String(),
			Color:       color,
		}},
	})
}
