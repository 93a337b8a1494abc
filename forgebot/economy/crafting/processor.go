package crafting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/forgebound/forgebot/forgebot/database/repositories"
)

// BoostSource is the slice of the boost engine the processor needs.
type BoostSource interface {
	EffectiveMultiplier(ctx context.Context, userID, metric string) (float64, error)
	ConsumeUse(ctx context.Context, userID, metric string)
}

// noBoosts keeps the processor usable before the boost engine is wired.
type noBoosts struct{}

func (noBoosts) EffectiveMultiplier(context.Context, string, string) (float64, error) {
	return 1.0, nil
}
func (noBoosts) ConsumeUse(context.Context, string, string) {}

// Processor commits craft attempts. One user's attempts are serialized by
// a keyed mutex; different users run fully in parallel. The lock covers
// only the deduct-then-insert sequence, never reads or claims.
type Processor struct {
	users     repositories.UserRepository
	inventory repositories.InventoryRepository
	queue     repositories.QueueRepository
	history   repositories.HistoryRepository
	boosts    BoostSource
	cache     *SnapshotCache
	locks     *KeyedMutex
	now       func() time.Time
}

func NewProcessor(
	users repositories.UserRepository,
	inventory repositories.InventoryRepository,
	queue repositories.QueueRepository,
	history repositories.HistoryRepository,
	boosts BoostSource,
	cache *SnapshotCache,
) *Processor {
	if boosts == nil {
		boosts = noBoosts{}
	}
	return &Processor{
		users:     users,
		inventory: inventory,
		queue:     queue,
		history:   history,
		boosts:    boosts,
		cache:     cache,
		locks:     NewKeyedMutex(),
		now:       time.Now,
	}
}

// CraftResult reports a committed craft.
type CraftResult struct {
	Queued      bool
	ItemName    string
	Amount      int64
	GoldSpent   int64
	ShardsSpent int64
	CompletesAt time.Time
	Position    int
}

// ClaimResult reports a single granted queue entry.
type ClaimResult struct {
	EntryID  int64
	ItemName string
	Amount   int64
}

// EntryResult is one entry's outcome inside a claim-all batch.
type EntryResult struct {
	EntryID  int64
	ItemName string
	Amount   int64
	Err      error
}

// ProcessCraft re-validates live state and commits: currency first,
// materials second, then the grant or queue insert. Ordering inside the
// lock is fixed; no caller observes an intermediate state because the
// lock spans the whole sequence.
func (p *Processor) ProcessCraft(ctx context.Context, userID string, v *Validation) (*CraftResult, error) {
	release := p.locks.Lock(userID + ":craft")
	defer release()

	gold, shards := p.discountedCost(ctx, userID, v)

	// Single conditional statement, not read-then-write: this is what
	// closes the race between the cached validation and this commit.
	if err := p.users.DeductBalance(ctx, userID, gold, shards); err != nil {
		if errors.Is(err, repositories.ErrInsufficientFunds) {
			return nil, newError(CodeCurrencyInsufficient, "balance changed since validation; craft of %dx %s not committed", v.Amount, v.Recipe.Name)
		}
		return nil, fmt.Errorf("currency deduction failed: %w", err)
	}

	requirements := make(map[string]int64, len(v.Recipe.Materials))
	for name, perUnit := range v.Recipe.Materials {
		requirements[name] = perUnit * v.Amount
	}
	if err := p.inventory.ConsumeItems(ctx, userID, requirements); err != nil {
		if errors.Is(err, repositories.ErrInsufficientItems) {
			// Currency already committed and deliberately not rolled
			// back; reconciliation works off this log line.
			slog.Warn("Materials failed after currency commit",
				slog.String("type", "sys"),
				slog.String("user_id", userID),
				slog.String("recipe", v.Recipe.Name),
				slog.Int64("gold_spent", gold),
				slog.Int64("shards_spent", shards))
			return nil, newError(CodeMaterialsInsufficient, "inventory changed since validation; craft of %dx %s not completed", v.Amount, v.Recipe.Name)
		}
		return nil, fmt.Errorf("material deduction failed: %w", err)
	}

	duration := p.craftDuration(ctx, userID, v)
	if duration == 0 {
		if err := p.grant(ctx, userID, v.Recipe.Category, v.Recipe.Name, v.Amount); err != nil {
			return nil, err
		}
		p.boosts.ConsumeUse(ctx, userID, models.MetricCraftCost)
		p.cache.Invalidate(userID)
		return &CraftResult{
			ItemName:    v.Recipe.Name,
			Amount:      v.Amount,
			GoldSpent:   gold,
			ShardsSpent: shards,
		}, nil
	}

	count, err := p.queue.CountUnclaimed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("queue capacity check failed: %w", err)
	}
	if count >= models.MaxQueueSlots {
		// Resources stay spent: cancel-and-retry abuse costs more than
		// it earns. Logged for reconciliation.
		slog.Warn("Queue full after resources committed",
			slog.String("type", "sys"),
			slog.String("user_id", userID),
			slog.String("recipe", v.Recipe.Name),
			slog.Int64("gold_spent", gold),
			slog.Int64("shards_spent", shards))
		p.cache.Invalidate(userID)
		return nil, newError(CodeQueueFull, "all %d queue slots in use; spent resources are not refunded", models.MaxQueueSlots)
	}

	started := p.now()
	entry := &models.CraftQueueEntry{
		UserID:      userID,
		Category:    v.Recipe.Category,
		ItemName:    v.Recipe.Name,
		Amount:      v.Amount,
		StartedAt:   started,
		CompletesAt: started.Add(duration),
	}
	if err := p.queue.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("queue insert failed: %w", err)
	}

	p.boosts.ConsumeUse(ctx, userID, models.MetricCraftCost)
	p.boosts.ConsumeUse(ctx, userID, models.MetricCraftSpeed)
	p.cache.Invalidate(userID)

	slog.Info("Craft queued",
		slog.String("type", "sys"),
		slog.String("user_id", userID),
		slog.String("recipe", v.Recipe.Name),
		slog.Int64("amount", v.Amount),
		slog.Time("completes_at", entry.CompletesAt))

	return &CraftResult{
		Queued:      true,
		ItemName:    v.Recipe.Name,
		Amount:      v.Amount,
		GoldSpent:   gold,
		ShardsSpent: shards,
		CompletesAt: entry.CompletesAt,
		Position:    count + 1,
	}, nil
}

// ClaimQueuedCraft grants one ready entry. Idempotent against re-claim:
// the conditional flip of the claimed flag gates re-entry, so a repeat
// call reports NOT_FOUND and grants nothing.
func (p *Processor) ClaimQueuedCraft(ctx context.Context, queueID int64, userID string) (*ClaimResult, error) {
	entry, err := p.queue.GetUnclaimedByID(ctx, queueID, userID)
	if err != nil {
		return nil, newError(CodeNotFound, "queue entry %d not found or already claimed", queueID)
	}

	now := p.now()
	if entry.CompletesAt.After(now) {
		return nil, newError(CodeNotReady, "entry completes in %s", entry.CompletesAt.Sub(now).Round(time.Second))
	}

	if err := p.queue.Claim(ctx, queueID, userID, now); err != nil {
		return nil, newError(CodeNotFound, "queue entry %d not found or already claimed", queueID)
	}

	if err := p.grant(ctx, userID, entry.Category, entry.ItemName, entry.Amount); err != nil {
		// The claimed flag already flipped, so this entry will never
		// grant again. Reconciliation works off this log line.
		slog.Warn("Grant failed after claim was consumed",
			slog.String("type", "sys"),
			slog.String("user_id", userID),
			slog.Int64("entry_id", entry.ID),
			slog.String("item", entry.ItemName),
			slog.Int64("amount", entry.Amount))
		return nil, err
	}
	p.cache.Invalidate(userID)

	return &ClaimResult{
		EntryID:  entry.ID,
		ItemName: entry.ItemName,
		Amount:   entry.Amount,
	}, nil
}

// ClaimAllReady claims every ready entry independently. One entry losing
// a race must not abort the rest; each result carries its own error.
func (p *Processor) ClaimAllReady(ctx context.Context, userID string) ([]EntryResult, error) {
	ready, err := p.queue.GetReady(ctx, userID, p.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list ready entries: %w", err)
	}

	results := make([]EntryResult, 0, len(ready))
	for _, entry := range ready {
		result := EntryResult{
			EntryID:  entry.ID,
			ItemName: entry.ItemName,
			Amount:   entry.Amount,
		}
		if _, err := p.ClaimQueuedCraft(ctx, entry.ID, userID); err != nil {
			result.Err = err
		}
		results = append(results, result)
	}
	return results, nil
}

// GetQueueItems is an unlocked pure read; staleness against concurrent
// claims is safe because the claimed flag prevents double-grant.
func (p *Processor) GetQueueItems(ctx context.Context, userID string) ([]*models.CraftQueueEntry, error) {
	return p.queue.GetUnclaimed(ctx, userID)
}

// GetReadyQueueItems evaluates readiness lazily against the stored
// deadline; nothing advances queue state in the background.
func (p *Processor) GetReadyQueueItems(ctx context.Context, userID string) ([]*models.CraftQueueEntry, error) {
	return p.queue.GetReady(ctx, userID, p.now())
}

// CancelQueuedCraft removes an unclaimed entry. Spent resources are not
// refunded; the slot is the only thing returned.
func (p *Processor) CancelQueuedCraft(ctx context.Context, queueID int64, userID string) error {
	if err := p.queue.Delete(ctx, queueID, userID); err != nil {
		return newError(CodeNotFound, "queue entry %d not found or already claimed", queueID)
	}
	p.cache.Invalidate(userID)
	return nil
}

// CanQueue lets the presentation layer warn before prompting a
// confirmation that would hit QUEUE_FULL after the spend.
func (p *Processor) CanQueue(ctx context.Context, userID string) (bool, error) {
	count, err := p.queue.CountUnclaimed(ctx, userID)
	if err != nil {
		return false, err
	}
	return count < models.MaxQueueSlots, nil
}

// Snapshot exposes the read-through cache to the presentation layer.
func (p *Processor) Snapshot(ctx context.Context, userID, category string) (*Snapshot, error) {
	return p.cache.Get(ctx, userID, category)
}

func (p *Processor) grant(ctx context.Context, userID, category, itemName string, amount int64) error {
	if err := p.inventory.AddItem(ctx, userID, itemName, amount); err != nil {
		return fmt.Errorf("failed to grant %dx %s: %w", amount, itemName, err)
	}
	if err := p.history.Append(ctx, &models.CraftHistory{
		UserID:   userID,
		Category: category,
		ItemName: itemName,
		Amount:   amount,
	}); err != nil {
		// The grant stands; history is an append-only sink, not a
		// participant in the transaction.
		slog.Warn("Failed to append craft history",
			slog.String("user_id", userID),
			slog.String("item", itemName),
			slog.Any("error", err))
	}
	return nil
}

func (p *Processor) discountedCost(ctx context.Context, userID string, v *Validation) (int64, int64) {
	multiplier, err := p.boosts.EffectiveMultiplier(ctx, userID, models.MetricCraftCost)
	if err != nil {
		slog.Warn("Failed to read cost boosts, charging base cost",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return v.TotalGold, v.TotalShards
	}
	gold := int64(float64(v.TotalGold) * multiplier)
	shards := int64(float64(v.TotalShards) * multiplier)
	if gold < 0 {
		gold = 0
	}
	if shards < 0 {
		shards = 0
	}
	return gold, shards
}

func (p *Processor) craftDuration(ctx context.Context, userID string, v *Validation) time.Duration {
	base := time.Duration(v.Recipe.CraftTimePerUnit*v.Amount) * time.Millisecond
	if base == 0 {
		return 0
	}

	speed, err := p.boosts.EffectiveMultiplier(ctx, userID, models.MetricCraftSpeed)
	if err != nil || speed <= 0 {
		return base
	}
	return time.Duration(float64(base) / speed)
}
