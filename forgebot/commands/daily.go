package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/forgebound/forgebot/forgebot"
	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/forgebound/forgebot/forgebot/database/repositories"
	"github.com/forgebound/forgebot/forgebot/utils"
)

const (
	dailyBaseGold = 500
	dailyCooldown = 24 * time.Hour
)

var Daily = discord.SlashCommandCreate{
	Name:        "daily",
	Description: "🪙 Collect your daily gold",
}

// goldBooster is the slice of the boost engine the daily payout needs.
type goldBooster interface {
	EffectiveMultiplier(ctx context.Context, userID, metric string) (float64, error)
	ConsumeUse(ctx context.Context, userID, metric string)
}

// payDaily computes the boosted reward and commits it. A use-limited
// gold boost burns one use only when the payout actually lands.
func payDaily(ctx context.Context, users repositories.UserRepository, boosts goldBooster, userID string, now time.Time) (int64, error) {
	multiplier, err := boosts.EffectiveMultiplier(ctx, userID, models.MetricGoldGain)
	if err != nil {
		slog.Warn("Failed to read gold boosts, paying base reward",
			slog.String("user_id", userID),
			slog.Any("error", err))
		multiplier = 1.0
	}
	reward := int64(dailyBaseGold * multiplier)
	if reward < 0 {
		reward = 0
	}

	if err := users.ClaimDaily(ctx, userID, reward, now, dailyCooldown); err != nil {
		return 0, err
	}
	boosts.ConsumeUse(ctx, userID, models.MetricGoldGain)
	return reward, nil
}

func DailyHandler(b *forgebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		userID := e.User().ID.String()
		user, err := b.UserRepository.GetOrCreate(ctx, userID, e.User().Username)
		if err != nil {
			return utils.EH.CreateError(e, "Daily Unavailable", "Failed to fetch your account, try again later")
		}

		now := time.Now()
		reward, err := payDaily(ctx, b.UserRepository, b.BoostManager, userID, now)
		if err != nil {
			if errors.Is(err, repositories.ErrDailyOnCooldown) {
				next := now.Add(dailyCooldown)
				if user.LastDaily != nil {
					next = user.LastDaily.Add(dailyCooldown)
				}
				return utils.EH.CreateErrorEmbed(e,
					fmt.Sprintf("Already collected. Your next daily is ready %s", utils.FormatRelativeTimestamp(next)))
			}
			slog.Error("Failed to claim daily",
				slog.String("type", "db"),
				slog.String("user_id", userID),
				slog.Any("error", err))
			return utils.EH.CreateError(e, "Daily Unavailable", "Failed to collect your daily, try again later")
		}

		return utils.EH.CreateSuccessEmbed(e,
			fmt.Sprintf("💰 You collected **%s** gold", utils.FormatNumber(reward)))
	}
}
