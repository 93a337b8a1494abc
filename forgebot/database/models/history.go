package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CraftHistory is the append-only record of completed grants.
type CraftHistory struct {
	bun.BaseModel `bun:"table:craft_history,alias:ch"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    string    `bun:"user_id,notnull"`
	Category  string    `bun:"category,notnull"`
	ItemName  string    `bun:"item_name,notnull"`
	Amount    int64     `bun:"amount,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
