package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserItem struct {
	bun.BaseModel `bun:"table:user_items,alias:ui"`

	UserID     string    `bun:"user_id,pk"`
	ItemName   string    `bun:"item_name,pk"`
	Quantity   int64     `bun:"quantity,notnull"`
	ObtainedAt time.Time `bun:"obtained_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Material item names used by the default recipe set.
const (
	ItemWood       = "wood"
	ItemIronOre    = "iron_ore"
	ItemLeather    = "leather"
	ItemCrystal    = "crystal"
	ItemEmberDust  = "ember_dust"
	ItemSilverLeaf = "silver_leaf"
)
