package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/forgebound/forgebot/forgebot"
	"github.com/forgebound/forgebot/forgebot/utils"
)

var Balance = discord.SlashCommandCreate{
	Name:        "balance",
	Description: "💰 View your gold and shard balances",
}

func BalanceHandler(b *forgebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		user, err := b.UserRepository.GetOrCreate(ctx, e.User().ID.String(), e.User().Username)
		if err != nil {
			return utils.EH.CreateError(e, "Balance Unavailable", "Failed to fetch your balance, try again later")
		}

		goldBar := createBalanceBar(user.Gold, 10000)
		shardBar := createBalanceBar(user.Shards, 500)

		description := fmt.Sprintf("```ansi\n"+
			"\x1b[1;33mGold:\x1b[0m %s\n"+
			"\x1b[0;37m%s\x1b[0m\n"+
			"\n"+
			"\x1b[1;36mShards:\x1b[0m %s\n"+
			"\x1b[0;37m%s\x1b[0m\n"+
			"```",
			utils.FormatNumber(user.Gold),
			goldBar,
			utils.FormatNumber(user.Shards),
			shardBar,
		)

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "💰 Balance",
				Description: description,
				Color:       0x00FF00,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Requested by %s", e.User().Username),
				},
				Timestamp: &now,
			}},
		})
	}
}

func createBalanceBar(balance, milestone int64) string {
	const barLength = 10

	progress := float64(balance) / float64(milestone)
	if progress > 1.0 {
		progress = 1.0
	}
	filled := int(progress * float64(barLength))

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < barLength; i++ {
		if i < filled {
			bar.WriteString("■")
		} else {
			bar.WriteString("□")
		}
	}
	bar.WriteString(fmt.Sprintf("] %.1f%%", progress*100))

	return bar.String()
}
