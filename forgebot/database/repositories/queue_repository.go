package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/uptrace/bun"
)

type QueueRepository interface {
	Insert(ctx context.Context, entry *models.CraftQueueEntry) error
	CountUnclaimed(ctx context.Context, userID string) (int, error)
	GetUnclaimed(ctx context.Context, userID string) ([]*models.CraftQueueEntry, error)
	GetReady(ctx context.Context, userID string, now time.Time) ([]*models.CraftQueueEntry, error)
	GetUnclaimedByID(ctx context.Context, id int64, userID string) (*models.CraftQueueEntry, error)
	// Claim flips the claimed flag iff the entry is still unclaimed and
	// ready at now. Returns ErrNotFound when the flag was already set or
	// the entry doesn't belong to the user; a lost race and a bad id are
	// indistinguishable to the caller.
	Claim(ctx context.Context, id int64, userID string, now time.Time) error
	// Delete removes an unclaimed entry. Spent resources are not refunded.
	Delete(ctx context.Context, id int64, userID string) error
}

type queueRepository struct {
	db *bun.DB
}

func NewQueueRepository(db *bun.DB) QueueRepository {
	return &queueRepository{db: db}
}

func (r *queueRepository) Insert(ctx context.Context, entry *models.CraftQueueEntry) error {
	entry.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(entry).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert queue entry: %w", err)
	}
	return nil
}

func (r *queueRepository) CountUnclaimed(ctx context.Context, userID string) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.CraftQueueEntry)(nil)).
		Where("user_id = ? AND claimed = false", userID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count queue entries: %w", err)
	}
	return count, nil
}

func (r *queueRepository) GetUnclaimed(ctx context.Context, userID string) ([]*models.CraftQueueEntry, error) {
	var entries []*models.CraftQueueEntry
	err := r.db.NewSelect().
		Model(&entries).
		Where("user_id = ? AND claimed = false", userID).
		Order("completes_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue entries: %w", err)
	}
	return entries, nil
}

func (r *queueRepository) GetReady(ctx context.Context, userID string, now time.Time) ([]*models.CraftQueueEntry, error) {
	var entries []*models.CraftQueueEntry
	err := r.db.NewSelect().
		Model(&entries).
		Where("user_id = ? AND claimed = false AND completes_at <= ?", userID, now).
		Order("completes_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ready entries: %w", err)
	}
	return entries, nil
}

func (r *queueRepository) GetUnclaimedByID(ctx context.Context, id int64, userID string) (*models.CraftQueueEntry, error) {
	entry := new(models.CraftQueueEntry)
	err := r.db.NewSelect().
		Model(entry).
		Where("id = ? AND user_id = ? AND claimed = false", id, userID).
		Scan(ctx)
	if err != nil {
		return nil, ErrNotFound
	}
	return entry, nil
}

func (r *queueRepository) Claim(ctx context.Context, id int64, userID string, now time.Time) error {
	result, err := r.db.NewUpdate().
		Model((*models.CraftQueueEntry)(nil)).
		Set("claimed = true").
		Where("id = ? AND user_id = ? AND claimed = false AND completes_at <= ?", id, userID, now).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to claim queue entry: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *queueRepository) Delete(ctx context.Context, id int64, userID string) error {
	result, err := r.db.NewDelete().
		Model((*models.CraftQueueEntry)(nil)).
		Where("id = ? AND user_id = ? AND claimed = false", id, userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete queue entry: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}
