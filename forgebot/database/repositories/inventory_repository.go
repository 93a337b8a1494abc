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

type InventoryRepository interface {
	GetUserItems(ctx context.Context, userID string) ([]*models.UserItem, error)
	GetUserItem(ctx context.Context, userID, itemName string) (*models.UserItem, error)
	AddItem(ctx context.Context, userID, itemName string, quantity int64) error
	// ConsumeItems deducts every requirement inside one transaction. Each
	// deduction is conditional on quantity >= required, so a concurrent
	// spend makes the whole transaction roll back with
	// ErrInsufficientItems.
	ConsumeItems(ctx context.Context, userID string, requirements map[string]int64) error
}

type inventoryRepository struct {
	db *bun.DB
}

func NewInventoryRepository(db *bun.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetUserItems(ctx context.Context, userID string) ([]*models.UserItem, error) {
	var items []*models.UserItem
	err := r.db.NewSelect().
		Model(&items).
		Where("user_id = ?", userID).
		Where("quantity > 0").
		Order("item_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user items: %w", err)
	}
	return items, nil
}

func (r *inventoryRepository) GetUserItem(ctx context.Context, userID, itemName string) (*models.UserItem, error) {
	item := new(models.UserItem)
	err := r.db.NewSelect().
		Model(item).
		Where("user_id = ? AND item_name = ?", userID, itemName).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user item: %w", err)
	}
	return item, nil
}

func (r *inventoryRepository) AddItem(ctx context.Context, userID, itemName string, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("non-positive item grant (%d)", quantity)
	}

	// Update first, insert on miss. Same UPSERT shape the whole codebase
	// uses for stacked quantities.
	result, err := r.db.NewUpdate().
		Model((*models.UserItem)(nil)).
		Set("quantity = quantity + ?", quantity).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND item_name = ?", userID, itemName).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected > 0 {
		return nil
	}

	now := time.Now()
	_, err = r.db.NewInsert().
		Model(&models.UserItem{
			UserID:     userID,
			ItemName:   itemName,
			Quantity:   quantity,
			ObtainedAt: now,
			UpdatedAt:  now,
		}).
		On("CONFLICT (user_id, item_name) DO UPDATE").
		Set("quantity = user_items.quantity + EXCLUDED.quantity").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func (r *inventoryRepository) ConsumeItems(ctx context.Context, userID string, requirements map[string]int64) error {
	if len(requirements) == 0 {
		return nil
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for itemName, required := range requirements {
			if required <= 0 {
				continue
			}
			result, err := tx.NewUpdate().
				Model((*models.UserItem)(nil)).
				Set("quantity = quantity - ?", required).
				Set("updated_at = ?", time.Now()).
				Where("user_id = ? AND item_name = ? AND quantity >= ?", userID, itemName, required).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to consume %s: %w", itemName, err)
			}
			if affected, _ := result.RowsAffected(); affected == 0 {
				return ErrInsufficientItems
			}
		}
		return nil
	})
}
