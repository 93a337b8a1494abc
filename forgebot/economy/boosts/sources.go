package boosts

import (
	"time"

	"github.com/forgebound/forgebot/forgebot/database/models"
)

// Sources contains every boost consumable the shop can hand out. This
// replaces the need for a database seeder or JSON file.
var Sources = []Source{
	{
		ID:          "artisan_brew",
		Name:        "Artisan's Brew",
		Description: "Craft costs reduced by 10%. Drinking another extends the effect.",
		Metric:      models.MetricCraftCost,
		Multiplier:  0.9,
		Rule:        RuleExtend,
		Duration:    time.Hour,
	},
	{
		ID:          "quickfire_powder",
		Name:        "Quickfire Powder",
		Description: "The forge burns 25% hotter. Another pinch extends the blaze.",
		Metric:      models.MetricCraftSpeed,
		Multiplier:  1.25,
		Rule:        RuleExtend,
		Duration:    2 * time.Hour,
	},
	{
		ID:          "lucky_charm",
		Name:        "Lucky Charm",
		Description: "+25% gold gain. A fresh charm replaces the old one.",
		Metric:      models.MetricGoldGain,
		Multiplier:  1.25,
		Rule:        RuleOverwrite,
		Duration:    2 * time.Hour,
	},
	{
		ID:          "foremans_whistle",
		Name:        "Foreman's Whistle",
		Description: "Each blow rallies the workshop, up to ten times.",
		Metric:      models.MetricCraftSpeed,
		Multiplier:  1.05,
		Rule:        RuleCappedIncrement,
		Duration:    4 * time.Hour,
		MaxStack:    10,
		StackStep:   0.05,
	},
	{
		ID:          "gilded_contract",
		Name:        "Gilded Contract",
		Description: "+50% gold on your next five crafts.",
		Metric:      models.MetricGoldGain,
		Multiplier:  1.5,
		Rule:        RuleUseLimited,
		Uses:        5,
	},
}
