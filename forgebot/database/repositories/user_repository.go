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

// Sentinel errors surfaced by the storage layer. Callers map these to
// user-facing error codes; raw driver errors never leave this package
// unwrapped.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientItems = errors.New("insufficient items")
	ErrDailyOnCooldown   = errors.New("daily reward on cooldown")
)

type UserRepository interface {
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	GetOrCreate(ctx context.Context, discordID, username string) (*models.User, error)
	// DeductBalance removes gold and shards in one conditional statement.
	// Returns ErrInsufficientFunds without side effect when either balance
	// is too low.
	DeductBalance(ctx context.Context, discordID string, gold, shards int64) error
	// ClaimDaily credits gold and stamps last_daily in one conditional
	// statement. Returns ErrDailyOnCooldown without side effect when the
	// cooldown has not elapsed.
	ClaimDaily(ctx context.Context, discordID string, gold int64, now time.Time, cooldown time.Duration) error
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetOrCreate(ctx context.Context, discordID, username string) (*models.User, error) {
	user, err := r.GetByDiscordID(ctx, discordID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	user = &models.User{
		DiscordID: discordID,
		Username:  username,
		Gold:      models.StarterGold,
		Shards:    models.StarterShards,
		Joined:    now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = r.db.NewInsert().
		Model(user).
		On("CONFLICT (discord_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// A concurrent first command may have won the insert; read back either way.
	return r.GetByDiscordID(ctx, discordID)
}

// DeductBalance closes the race between a cached validation and commit:
// the WHERE clause re-checks both balances so the row can never go
// negative regardless of what the caller believed it read.
func (r *userRepository) DeductBalance(ctx context.Context, discordID string, gold, shards int64) error {
	if gold < 0 || shards < 0 {
		return fmt.Errorf("negative deduction (gold=%d shards=%d)", gold, shards)
	}

	result, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("gold = gold - ?", gold).
		Set("shards = shards - ?", shards).
		Set("updated_at = ?", time.Now()).
		Where("discord_id = ? AND gold >= ? AND shards >= ?", discordID, gold, shards).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to deduct balance: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

// ClaimDaily uses the same conditional-update shape as DeductBalance:
// the WHERE clause re-checks the cooldown so two quick invocations can
// never both pay out.
func (r *userRepository) ClaimDaily(ctx context.Context, discordID string, gold int64, now time.Time, cooldown time.Duration) error {
	result, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("gold = gold + ?", gold).
		Set("last_daily = ?", now).
		Set("updated_at = ?", now).
		Where("discord_id = ? AND (last_daily IS NULL OR last_daily <= ?)", discordID, now.Add(-cooldown)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to claim daily: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrDailyOnCooldown
	}
	return nil
}
