package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64  `bun:"id,pk,autoincrement"`
	DiscordID string `bun:"discord_id,notnull,unique"`
	Username  string `bun:"username,notnull"`

	// Currency balances, never negative. Deductions go through conditional
	// updates in the ledger repository, not through this struct.
	Gold   int64 `bun:"gold,notnull,default:0"`
	Shards int64 `bun:"shards,notnull,default:0"`

	// Nil until the first daily reward is collected.
	LastDaily *time.Time `bun:"last_daily"`

	Joined    time.Time `bun:"joined,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Starter balances granted on first interaction.
const (
	StarterGold   = 2500
	StarterShards = 50
)
