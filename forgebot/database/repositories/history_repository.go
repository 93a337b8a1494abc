package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/uptrace/bun"
)

// HistoryRepository is append-only from the engine's perspective; reads
// exist for the archive exporter and the /history command.
type HistoryRepository interface {
	Append(ctx context.Context, record *models.CraftHistory) error
	GetRecent(ctx context.Context, userID string, limit int) ([]*models.CraftHistory, error)
	GetSince(ctx context.Context, since time.Time, limit int) ([]*models.CraftHistory, error)
}

type historyRepository struct {
	db *bun.DB
}

func NewHistoryRepository(db *bun.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, record *models.CraftHistory) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to append craft history: %w", err)
	}
	return nil
}

func (r *historyRepository) GetRecent(ctx context.Context, userID string, limit int) ([]*models.CraftHistory, error) {
	var records []*models.CraftHistory
	err := r.db.NewSelect().
		Model(&records).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get craft history: %w", err)
	}
	return records, nil
}

func (r *historyRepository) GetSince(ctx context.Context, since time.Time, limit int) ([]*models.CraftHistory, error) {
	var records []*models.CraftHistory
	err := r.db.NewSelect().
		Model(&records).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get craft history: %w", err)
	}
	return records, nil
}
