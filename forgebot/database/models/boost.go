package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Boost metrics the engine composes multipliers for.
const (
	MetricCraftCost  = "craft_cost"
	MetricCraftSpeed = "craft_speed"
	MetricGoldGain   = "gold_gain"
)

// BoostRecord is one (user, metric, source) multiplier. A repeated
// application from the same source follows that source's stacking rule;
// cross-source composition is always multiplicative.
type BoostRecord struct {
	bun.BaseModel `bun:"table:user_boosts,alias:ub"`

	ID         int64                  `bun:"id,pk,autoincrement"`
	UserID     string                 `bun:"user_id,notnull"`
	Metric     string                 `bun:"metric,notnull"`
	Source     string                 `bun:"source,notnull"`
	Multiplier float64                `bun:"multiplier,notnull"`
	ExpiresAt  *time.Time             `bun:"expires_at"`
	StackCount *int                   `bun:"stack_count"`
	Uses       int                    `bun:"uses,notnull,default:0"`
	Extra      map[string]interface{} `bun:"extra,type:jsonb"`
	CreatedAt  time.Time              `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time              `bun:"updated_at,notnull"`
}

// Expired reports whether the record no longer contributes to the
// effective multiplier. Records without an expiry are use-limited and
// expire when their uses run out.
func (b *BoostRecord) Expired(now time.Time) bool {
	if b.ExpiresAt != nil {
		return !b.ExpiresAt.After(now)
	}
	return b.Uses <= 0
}
