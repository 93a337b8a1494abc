package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MaxQueueSlots is the per-user cap on unclaimed queue entries.
const MaxQueueSlots = 5

// CraftQueueEntry is one pending or claimed timed craft. Immutable after
// insert except for the claimed flag, which gates the one-time grant.
type CraftQueueEntry struct {
	bun.BaseModel `bun:"table:craft_queue,alias:cq"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      string    `bun:"user_id,notnull"`
	Category    string    `bun:"category,notnull"`
	ItemName    string    `bun:"item_name,notnull"`
	Amount      int64     `bun:"amount,notnull"`
	StartedAt   time.Time `bun:"started_at,notnull"`
	CompletesAt time.Time `bun:"completes_at,notnull"`
	Claimed     bool      `bun:"claimed,notnull,default:false"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Ready reports whether the entry can be claimed at the given time.
// Readiness is always derived from completes_at, never stored.
func (e *CraftQueueEntry) Ready(now time.Time) bool {
	return !e.Claimed && !e.CompletesAt.After(now)
}
