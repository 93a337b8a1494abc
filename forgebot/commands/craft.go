package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/forgebound/forgebot/forgebot"
	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/forgebound/forgebot/forgebot/economy/catalog"
	"github.com/forgebound/forgebot/forgebot/economy/crafting"
	"github.com/forgebound/forgebot/forgebot/utils"
)

const CraftCustomIDPrefix = "/craft/"

var categoryChoices = []discord.ApplicationCommandOptionChoiceString{
	{Name: "Weapon", Value: catalog.CategoryWeapon},
	{Name: "Armor", Value: catalog.CategoryArmor},
	{Name: "Consumable", Value: catalog.CategoryConsumable},
	{Name: "Trinket", Value: catalog.CategoryTrinket},
}

var Craft = discord.SlashCommandCreate{
	Name:        "craft",
	Description: "🔨 Craft an item from materials and currency",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "category",
			Description: "Recipe category",
			Required:    true,
			Choices:     categoryChoices,
		},
		discord.ApplicationCommandOptionString{
			Name:        "item",
			Description: "Recipe name",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "How many to craft (default 1)",
			Required:    false,
			MinValue:    intPtr(1),
			MaxValue:    intPtr(crafting.MaxCraftAmount),
		},
	},
}

type CraftHandler struct {
	bot *forgebot.Bot
}

func NewCraftHandler(b *forgebot.Bot) *CraftHandler {
	return &CraftHandler{bot: b}
}

func (h *CraftHandler) HandleCraft(e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	category := data.String("category")
	itemName := data.String("item")
	amount := int64(1)
	if v, ok := data.OptInt("amount"); ok {
		amount = int64(v)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := e.User().ID.String()
	if _, err := h.bot.UserRepository.GetOrCreate(ctx, userID, e.User().Username); err != nil {
		return utils.EH.CreateError(e, "Craft Failed", "Could not load your profile, try again later")
	}

	snap, err := h.bot.CraftProcessor.Snapshot(ctx, userID, category)
	if err != nil {
		return utils.EH.CreateError(e, "Craft Failed", "Could not read your economy state, try again later")
	}

	validation, err := crafting.ValidateFullCraft(itemName, amount, category, snap)
	if err != nil {
		return renderCraftError(e, err)
	}

	return h.showCraftConfirmation(e, ctx, userID, category, validation)
}

func (h *CraftHandler) showCraftConfirmation(e *handler.CommandEvent, ctx context.Context, userID, category string, v *crafting.Validation) error {
	recipe := v.Recipe

	var sb strings.Builder
	sb.WriteString("## Cost\n")
	if v.TotalGold > 0 {
		sb.WriteString(fmt.Sprintf("• %s gold\n", utils.FormatNumber(v.TotalGold)))
	}
	if v.TotalShards > 0 {
		sb.WriteString(fmt.Sprintf("• %s shards\n", utils.FormatNumber(v.TotalShards)))
	}
	sb.WriteString("\n## Materials\n")
	for name, per := range recipe.Materials {
		sb.WriteString(fmt.Sprintf("• %s x%s\n", name, utils.FormatNumber(per*v.Amount)))
	}

	duration := time.Duration(recipe.CraftTimePerUnit*v.Amount) * time.Millisecond
	sb.WriteString("\n## Completion\n")
	if duration == 0 {
		sb.WriteString("• Instant, granted on confirm\n")
	} else {
		sb.WriteString(fmt.Sprintf("• Takes %s after confirm\n", utils.FormatDuration(duration)))
		if ok, err := h.bot.CraftProcessor.CanQueue(ctx, userID); err == nil && !ok {
			sb.WriteString(fmt.Sprintf("\n⚠️ **Your queue is full (%d slots). Confirming will spend resources and fail to queue. Claim or cancel an entry first.**\n", models.MaxQueueSlots))
		}
	}
	sb.WriteString("\nBoosts are applied when you confirm.")

	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("🔨 Craft %s x%d", recipe.Name, v.Amount)).
		SetColor(0x2b2d31).
		SetDescription(sb.String()).
		SetTimestamp(time.Now()).
		Build()

	actionRow := discord.NewActionRow(
		discord.NewSuccessButton("Confirm", fmt.Sprintf("/craft/confirm/%s/%s/%d", category, recipe.Name, v.Amount)),
		discord.NewDangerButton("Cancel", fmt.Sprintf("/craft/cancel/%s/%s/%d", category, recipe.Name, v.Amount)),
	)

	return e.CreateMessage(discord.MessageCreate{
		Embeds:     []discord.Embed{embed},
		Components: []discord.ContainerComponent{actionRow},
	})
}

func (h *CraftHandler) HandleComponent(e *handler.ComponentEvent) error {
	parts := strings.Split(e.Data.CustomID(), "/")
	if len(parts) != 6 {
		return e.UpdateMessage(discord.MessageUpdate{
			Content:    utils.Ptr("❌ Invalid interaction"),
			Components: &[]discord.ContainerComponent{},
		})
	}
	action, category, itemName := parts[2], parts[3], parts[4]

	amount, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil {
		return e.UpdateMessage(discord.MessageUpdate{
			Content:    utils.Ptr("❌ Invalid craft amount"),
			Components: &[]discord.ContainerComponent{},
		})
	}

	if action == "cancel" {
		return e.UpdateMessage(discord.MessageUpdate{
			Content:    utils.Ptr("Craft cancelled"),
			Embeds:     &[]discord.Embed{},
			Components: &[]discord.ContainerComponent{},
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	userID := e.User().ID.String()

	// Re-validate against a fresh snapshot; the confirmation may be stale.
	snap, err := h.bot.CraftProcessor.Snapshot(ctx, userID, category)
	if err != nil {
		return updateWithError(e, "Could not read your economy state, try again later")
	}
	validation, err := crafting.ValidateFullCraft(itemName, amount, category, snap)
	if err != nil {
		return updateWithError(e, craftErrorText(err))
	}

	result, err := h.bot.CraftProcessor.ProcessCraft(ctx, userID, validation)
	if err != nil {
		return updateWithError(e, craftErrorText(err))
	}

	return e.UpdateMessage(discord.MessageUpdate{
		Embeds:     &[]discord.Embed{craftResultEmbed(result)},
		Components: &[]discord.ContainerComponent{},
	})
}

func craftResultEmbed(r *crafting.CraftResult) discord.Embed {
	var sb strings.Builder
	if r.GoldSpent > 0 {
		sb.WriteString(fmt.Sprintf("• Spent %s gold\n", utils.FormatNumber(r.GoldSpent)))
	}
	if r.ShardsSpent > 0 {
		sb.WriteString(fmt.Sprintf("• Spent %s shards\n", utils.FormatNumber(r.ShardsSpent)))
	}

	b := discord.NewEmbedBuilder().SetColor(0x00FF00).SetTimestamp(time.Now())
	if r.Queued {
		sb.WriteString(fmt.Sprintf("• Queue slot %d of %d\n", r.Position, models.MaxQueueSlots))
		sb.WriteString(fmt.Sprintf("• Ready %s\n", utils.FormatRelativeTimestamp(r.CompletesAt)))
		sb.WriteString("\nUse `/claim` once it completes.")
		b.SetTitle(fmt.Sprintf("⏳ Queued %s x%d", r.ItemName, r.Amount))
	} else {
		sb.WriteString(fmt.Sprintf("• Added %s x%d to your inventory\n", r.ItemName, r.Amount))
		b.SetTitle("✅ Craft Complete")
	}
	b.SetDescription(sb.String())
	return b.Build()
}

// renderCraftError formats a validation failure with its shortfall and
// suggestion detail for the initial command response.
func renderCraftError(e *handler.CommandEvent, err error) error {
	var ce *crafting.CraftError
	if !errors.As(err, &ce) {
		return utils.EH.CreateError(e, "Craft Failed", err.Error())
	}

	var sb strings.Builder
	sb.WriteString(ce.Message)

	if len(ce.Shortfalls) > 0 {
		sb.WriteString("\n\n**Missing:**\n")
		for _, s := range ce.Shortfalls {
			sb.WriteString(fmt.Sprintf("• %s: need %s, have %s\n",
				s.Resource, utils.FormatNumber(s.Required), utils.FormatNumber(s.Available)))
		}
	}
	if len(ce.Suggestions) > 0 {
		sb.WriteString("\n**Did you mean:** " + strings.Join(ce.Suggestions, ", "))
	}
	if ce.Code == crafting.CodeMaterialsInsufficient || ce.Code == crafting.CodeCurrencyInsufficient {
		sb.WriteString("\n\nTry a smaller amount or gather more resources.")
	}

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "❌ Cannot Craft",
			Description: sb.String(),
			Color:       0xFF0000,
		}},
	})
}

func craftErrorText(err error) string {
	var ce *crafting.CraftError
	if !errors.As(err, &ce) {
		return err.Error()
	}
	switch ce.Code {
	case crafting.CodeQueueFull:
		return fmt.Sprintf("%s Your resources were spent; claim or cancel a queue entry before crafting timed items again.", ce.Message)
	default:
		return ce.Message
	}
}

func updateWithError(e *handler.ComponentEvent, message string) error {
	return e.UpdateMessage(discord.MessageUpdate{
		Embeds: &[]discord.Embed{{
			Title:       "❌ Cannot Craft",
			Description: message,
			Color:       0xFF0000,
		}},
		Components: &[]discord.ContainerComponent{},
	})
}
