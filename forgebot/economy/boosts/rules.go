package boosts

import "time"

// StackRule declares what a repeated application from the same source
// does. The rule travels with the source as data so each source's
// behavior is testable in isolation instead of being a branch per item.
type StackRule string

const (
	// RuleOverwrite replaces the existing record outright.
	RuleOverwrite StackRule = "overwrite"
	// RuleExtend adds the new application's remaining duration to the
	// existing expiry ("use another potion to extend").
	RuleExtend StackRule = "extend"
	// RuleCappedIncrement bumps a bounded stack counter; potency scales
	// with the counter and applications past the cap fail.
	RuleCappedIncrement StackRule = "capped_increment"
	// RuleUseLimited grants a consumable-use counter instead of a
	// time-based expiry ("next N crafts").
	RuleUseLimited StackRule = "use_limited"
)

// Source is one static boost definition.
type Source struct {
	ID          string
	Name        string
	Description string
	Metric      string
	Multiplier  float64
	Rule        StackRule
	Duration    time.Duration
	// Capped-increment tuning: contribution is 1 + StackStep*stacks,
	// bounded by MaxStack.
	MaxStack  int
	StackStep float64
	// Use-limited tuning.
	Uses int
}

// GetSource returns the static definition for a source id.
func GetSource(id string) (*Source, bool) {
	for i := range Sources {
		if Sources[i].ID == id {
			return &Sources[i], true
		}
	}
	return nil, false
}
