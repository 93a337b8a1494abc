package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/uptrace/bun"
)

// ErrStackCapped is returned when a capped-increment boost is already at
// its maximum stack; the row is left untouched.
var ErrStackCapped = errors.New("boost stack at maximum")

type BoostRepository interface {
	Get(ctx context.Context, userID, metric, source string) (*models.BoostRecord, error)
	// GetActive returns all unexpired records for a (user, metric) pair.
	GetActive(ctx context.Context, userID, metric string, now time.Time) ([]*models.BoostRecord, error)
	Insert(ctx context.Context, record *models.BoostRecord) error
	Update(ctx context.Context, record *models.BoostRecord) error
	// IncrementStack bumps stack_count by increment iff the result stays
	// within maxStack, recomputing multiplier as 1 + step*stack_count in
	// the same statement. No mutation on ErrStackCapped.
	IncrementStack(ctx context.Context, userID, metric, source string, increment, maxStack int, step float64) error
	SetUses(ctx context.Context, userID, metric, source string, uses int) error
	ConsumeUse(ctx context.Context, userID, metric, source string) error
	DeleteExpired(ctx context.Context, userID string, now time.Time) error
}

type boostRepository struct {
	db *bun.DB
}

func NewBoostRepository(db *bun.DB) BoostRepository {
	return &boostRepository{db: db}
}

func (r *boostRepository) Get(ctx context.Context, userID, metric, source string) (*models.BoostRecord, error) {
	record := new(models.BoostRecord)
	err := r.db.NewSelect().
		Model(record).
		Where("user_id = ? AND metric = ? AND source = ?", userID, metric, source).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get boost: %w", err)
	}
	return record, nil
}

func (r *boostRepository) GetActive(ctx context.Context, userID, metric string, now time.Time) ([]*models.BoostRecord, error) {
	var records []*models.BoostRecord
	err := r.db.NewSelect().
		Model(&records).
		Where("user_id = ? AND metric = ?", userID, metric).
		Where("(expires_at IS NOT NULL AND expires_at > ?) OR (expires_at IS NULL AND uses > 0)", now).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active boosts: %w", err)
	}
	return records, nil
}

func (r *boostRepository) Insert(ctx context.Context, record *models.BoostRecord) error {
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert boost: %w", err)
	}
	return nil
}

func (r *boostRepository) Update(ctx context.Context, record *models.BoostRecord) error {
	record.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().Model(record).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update boost: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *boostRepository) IncrementStack(ctx context.Context, userID, metric, source string, increment, maxStack int, step float64) error {
	result, err := r.db.NewUpdate().
		Model((*models.BoostRecord)(nil)).
		Set("stack_count = COALESCE(stack_count, 0) + ?", increment).
		Set("multiplier = 1 + ? * (COALESCE(stack_count, 0) + ?)", step, increment).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND metric = ? AND source = ?", userID, metric, source).
		Where("COALESCE(stack_count, 0) + ? <= ?", increment, maxStack).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to increment boost stack: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		// Distinguish "no row" from "at cap" for the caller's error code.
		if _, getErr := r.Get(ctx, userID, metric, source); errors.Is(getErr, ErrNotFound) {
			return ErrNotFound
		}
		return ErrStackCapped
	}
	return nil
}

func (r *boostRepository) SetUses(ctx context.Context, userID, metric, source string, uses int) error {
	result, err := r.db.NewUpdate().
		Model((*models.BoostRecord)(nil)).
		Set("uses = ?", uses).
		Set("expires_at = NULL").
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND metric = ? AND source = ?", userID, metric, source).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set boost uses: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *boostRepository) ConsumeUse(ctx context.Context, userID, metric, source string) error {
	result, err := r.db.NewUpdate().
		Model((*models.BoostRecord)(nil)).
		Set("uses = uses - 1").
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND metric = ? AND source = ? AND uses > 0", userID, metric, source).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to consume boost use: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *boostRepository) DeleteExpired(ctx context.Context, userID string, now time.Time) error {
	_, err := r.db.NewDelete().
		Model((*models.BoostRecord)(nil)).
		Where("user_id = ?", userID).
		Where("(expires_at IS NOT NULL AND expires_at <= ?) OR (expires_at IS NULL AND uses <= 0)", now).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete expired boosts: %w", err)
	}
	return nil
}
