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
	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/forgebound/forgebot/forgebot/database/repositories"
	"github.com/forgebound/forgebot/forgebot/economy/boosts"
	"github.com/forgebound/forgebot/forgebot/utils"
)

var Boost = discord.SlashCommandCreate{
	Name:        "boost",
	Description: "⚗️ Apply and inspect crafting boosts",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "apply",
			Description: "Activate a boost",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "source",
					Description: "Boost to activate",
					Required:    true,
					Choices:     boostSourceChoices(),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "Show your active boosts",
		},
	},
}

func boostSourceChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(boosts.Sources))
	for _, src := range boosts.Sources {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{
			Name:  src.Name,
			Value: src.ID,
		})
	}
	return choices
}

type BoostHandler struct {
	bot *forgebot.Bot
}

func NewBoostHandler(b *forgebot.Bot) *BoostHandler {
	return &BoostHandler{bot: b}
}

func (h *BoostHandler) Register(r handler.Router) {
	r.Route("/boost", func(r handler.Router) {
		r.Command("/apply", h.HandleApply)
		r.Command("/list", h.HandleList)
	})
}

func (h *BoostHandler) HandleApply(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sourceID := e.SlashCommandInteractionData().String("source")
	src, ok := boosts.GetSource(sourceID)
	if !ok {
		return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("Unknown boost %q.", sourceID))
	}

	userID := e.User().ID.String()
	if _, err := h.bot.UserRepository.GetOrCreate(ctx, userID, e.User().Username); err != nil {
		return utils.EH.CreateError(e, "Boost Failed", "Could not load your profile, try again later")
	}

	var err error
	switch src.Rule {
	case boosts.RuleCappedIncrement:
		err = h.bot.BoostManager.UpdateBoostStack(ctx, userID, src.Metric, src.ID, 1, src.MaxStack)
	case boosts.RuleUseLimited:
		err = h.bot.BoostManager.SetBoostUses(ctx, userID, src.Metric, src.ID, src.Uses)
	default:
		err = h.bot.BoostManager.ApplyBoost(ctx, userID, src.Metric, src.ID, src.Multiplier, time.Now().Add(src.Duration))
	}
	if err != nil {
		if errors.Is(err, repositories.ErrStackCapped) {
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("**%s** is already at its maximum of %d stacks.", src.Name, src.MaxStack))
		}
		return utils.EH.CreateError(e, "Boost Failed", "Could not apply the boost, try again later")
	}

	return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Activated **%s**. %s", src.Name, src.Description))
}

func (h *BoostHandler) HandleList(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := e.User().ID.String()
	metrics := []string{models.MetricCraftCost, models.MetricCraftSpeed, models.MetricGoldGain}

	var sb strings.Builder
	total := 0
	for _, metric := range metrics {
		records, err := h.bot.BoostManager.ActiveBoosts(ctx, userID, metric)
		if err != nil {
			return utils.EH.CreateError(e, "Boosts Unavailable", "Could not load your boosts, try again later")
		}
		if len(records) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("## %s\n", metric))
		for _, rec := range records {
			sb.WriteString(formatBoostRecord(rec))
		}
		total += len(records)
	}

	if total == 0 {
		return utils.EH.CreateInfoEmbed(e, "No active boosts. Use `/boost apply` to activate one.")
	}

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "⚗️ Active Boosts",
			Description: sb.String(),
			Color:       0x2b2d31,
		}},
	})
}

func formatBoostRecord(rec *models.BoostRecord) string {
	name := rec.Source
	if src, ok := boosts.GetSource(rec.Source); ok {
		name = src.Name
	}

	detail := ""
	switch {
	case rec.ExpiresAt != nil:
		detail = fmt.Sprintf("expires %s", utils.FormatRelativeTimestamp(*rec.ExpiresAt))
		if rec.StackCount != nil {
			detail = fmt.Sprintf("%d stacks, %s", *rec.StackCount, detail)
		}
	default:
		detail = fmt.Sprintf("%d uses left", rec.Uses)
	}

	return fmt.Sprintf("• **%s** x%.2f (%s)\n", name, rec.Multiplier, detail)
}
