package boosts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/forgebound/forgebot/forgebot/database/repositories"
)

// Manager owns every boost mutation and the effective-multiplier read.
// Cross-source composition is always multiplicative; same-source behavior
// follows the source's declared StackRule.
type Manager struct {
	repo repositories.BoostRepository
	now  func() time.Time
}

func NewManager(repo repositories.BoostRepository) *Manager {
	return &Manager{
		repo: repo,
		now:  time.Now,
	}
}

// Application names one boost to apply, used by ApplyMultipleBoosts.
type Application struct {
	Metric     string
	Source     string
	Multiplier float64
}

// MultiResult reports a partially applied batch.
type MultiResult struct {
	Applied []Application
	Failed  []Application
}

// ApplyBoost upserts the (user, metric, source) record. An unexpired
// record is handled per the source's stacking rule; an expired one is
// treated as a fresh insert.
func (m *Manager) ApplyBoost(ctx context.Context, userID, metric, source string, multiplier float64, expiresAt time.Time) error {
	now := m.now()

	// Expired rows for this user are dead weight from here on; sweep
	// before deciding whether the key exists.
	if err := m.repo.DeleteExpired(ctx, userID, now); err != nil {
		slog.Warn("Failed to sweep expired boosts",
			slog.String("user_id", userID),
			slog.Any("error", err))
	}

	rule := RuleExtend
	if src, ok := GetSource(source); ok {
		rule = src.Rule
	}

	existing, err := m.repo.Get(ctx, userID, metric, source)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	fresh := existing == nil || existing.Expired(now)
	if fresh {
		if existing != nil {
			existing.Multiplier = multiplier
			existing.ExpiresAt = &expiresAt
			existing.StackCount = nil
			existing.Uses = 0
			return m.repo.Update(ctx, existing)
		}
		return m.repo.Insert(ctx, &models.BoostRecord{
			UserID:     userID,
			Metric:     metric,
			Source:     source,
			Multiplier: multiplier,
			ExpiresAt:  &expiresAt,
		})
	}

	switch rule {
	case RuleOverwrite:
		existing.Multiplier = multiplier
		existing.ExpiresAt = &expiresAt
		return m.repo.Update(ctx, existing)

	case RuleCappedIncrement:
		src, ok := GetSource(source)
		if !ok {
			return fmt.Errorf("capped boost source %q has no definition", source)
		}
		return m.UpdateBoostStack(ctx, userID, metric, source, 1, src.MaxStack)

	default: // RuleExtend
		// Stack the new application's remaining duration onto the
		// current expiry: potion #2 extends, it doesn't restart.
		remaining := expiresAt.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		if existing.ExpiresAt == nil {
			existing.ExpiresAt = &expiresAt
		} else {
			extended := existing.ExpiresAt.Add(remaining)
			existing.ExpiresAt = &extended
		}
		existing.Multiplier = multiplier
		return m.repo.Update(ctx, existing)
	}
}

// ApplyMultipleBoosts applies a batch sharing one computed expiry. A
// failure partway does not abort the rest; the result reports both sets.
func (m *Manager) ApplyMultipleBoosts(ctx context.Context, userID string, applications []Application, duration time.Duration) (*MultiResult, error) {
	expiresAt := m.now().Add(duration)
	result := &MultiResult{}

	for _, app := range applications {
		if err := m.ApplyBoost(ctx, userID, app.Metric, app.Source, app.Multiplier, expiresAt); err != nil {
			slog.Error("Failed to apply boost in batch",
				slog.String("user_id", userID),
				slog.String("metric", app.Metric),
				slog.String("source", app.Source),
				slog.Any("error", err))
			result.Failed = append(result.Failed, app)
			continue
		}
		result.Applied = append(result.Applied, app)
	}

	if len(result.Failed) > 0 {
		return result, fmt.Errorf("applied %d of %d boosts", len(result.Applied), len(applications))
	}
	return result, nil
}

// UpdateBoostStack bumps the bounded counter for sources whose potency
// scales with repeated use. Fails without mutation once maxStack is
// reached.
func (m *Manager) UpdateBoostStack(ctx context.Context, userID, metric, source string, increment, maxStack int) error {
	src, ok := GetSource(source)
	if !ok {
		return fmt.Errorf("boost source %q has no definition", source)
	}

	err := m.repo.IncrementStack(ctx, userID, metric, source, increment, maxStack, src.StackStep)
	if errors.Is(err, repositories.ErrNotFound) {
		// First application: seed the record with one stack.
		stack := increment
		if stack > maxStack {
			return repositories.ErrStackCapped
		}
		expiresAt := m.now().Add(src.Duration)
		return m.repo.Insert(ctx, &models.BoostRecord{
			UserID:     userID,
			Metric:     metric,
			Source:     source,
			Multiplier: 1 + src.StackStep*float64(stack),
			ExpiresAt:  &expiresAt,
			StackCount: &stack,
		})
	}
	return err
}

// SetBoostUses arms a use-limited boost with a consumable counter in
// place of a time-based expiry.
func (m *Manager) SetBoostUses(ctx context.Context, userID, metric, source string, uses int) error {
	err := m.repo.SetUses(ctx, userID, metric, source, uses)
	if errors.Is(err, repositories.ErrNotFound) {
		multiplier := 1.0
		if src, ok := GetSource(source); ok {
			multiplier = src.Multiplier
		}
		return m.repo.Insert(ctx, &models.BoostRecord{
			UserID:     userID,
			Metric:     metric,
			Source:     source,
			Multiplier: multiplier,
			Uses:       uses,
		})
	}
	return err
}

// EffectiveMultiplier is the product of every currently-unexpired record
// for the metric, evaluated lazily at use time. 1.0 with no active
// boosts.
func (m *Manager) EffectiveMultiplier(ctx context.Context, userID, metric string) (float64, error) {
	records, err := m.repo.GetActive(ctx, userID, metric, m.now())
	if err != nil {
		return 1.0, err
	}

	multiplier := 1.0
	for _, record := range records {
		multiplier *= record.Multiplier
	}
	return multiplier, nil
}

// ConsumeUse burns one use off every active use-limited record for the
// metric. Called by the processor after a craft benefits from the metric.
func (m *Manager) ConsumeUse(ctx context.Context, userID, metric string) {
	records, err := m.repo.GetActive(ctx, userID, metric, m.now())
	if err != nil {
		slog.Warn("Failed to read boosts for use consumption",
			slog.String("user_id", userID),
			slog.String("metric", metric),
			slog.Any("error", err))
		return
	}

	for _, record := range records {
		if record.ExpiresAt != nil {
			continue
		}
		if err := m.repo.ConsumeUse(ctx, userID, metric, record.Source); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			slog.Warn("Failed to consume boost use",
				slog.String("user_id", userID),
				slog.String("source", record.Source),
				slog.Any("error", err))
		}
	}
}

// ActiveBoosts lists unexpired records for display.
func (m *Manager) ActiveBoosts(ctx context.Context, userID, metric string) ([]*models.BoostRecord, error) {
	return m.repo.GetActive(ctx, userID, metric, m.now())
}
