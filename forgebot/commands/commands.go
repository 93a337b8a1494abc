package commands

import (
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{
	Craft,
	Queue,
	Claim,
	Boost,
	Balance,
	Daily,
	Recipes,
	Inventory,
}

func intPtr(v int) *int {
	return &v
}
