package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Migrator imports users, inventories and active effects from the legacy
// Mongo bot into Postgres. Imports are idempotent; re-running skips rows
// that already exist.
type Migrator struct {
	pgDB      *bun.DB
	mongoDB   *mongo.Database
	batchSize int
	stats     MigrationStats

	// Optional: use pgx CopyFrom for the inventory bulk insert.
	useCopy bool
	pool    *pgxpool.Pool
}

func NewMigrator(pgDB *bun.DB) *Migrator {
	return &Migrator{
		pgDB:      pgDB,
		batchSize: 1000,
		stats: MigrationStats{
			Tables:    make(map[string]*TableStats),
			StartTime: time.Now(),
		},
	}
}

// UseMongo attaches the live Mongo database to read from.
func (m *Migrator) UseMongo(client *mongo.Client, dbName string) {
	m.mongoDB = client.Database(dbName)
}

// SetBatchSize overrides the default batch size for inserts
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

// SetUseCopy enables COPY FROM mode using pgx (fast path)
func (m *Migrator) SetUseCopy(v bool) { m.useCopy = v }

// UsePool sets the pgx pool for COPY operations
func (m *Migrator) UsePool(pool *pgxpool.Pool) { m.pool = pool }

func (m *Migrator) tableStats(name string) *TableStats {
	if m.stats.Tables[name] == nil {
		m.stats.Tables[name] = &TableStats{}
	}
	return m.stats.Tables[name]
}

// MigrateAll runs the full import: users first so inventory and boost
// rows always have an owner.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	if m.mongoDB == nil {
		return fmt.Errorf("no mongo database attached")
	}

	if err := m.MigrateUsers(ctx); err != nil {
		return fmt.Errorf("user migration failed: %w", err)
	}
	if err := m.MigrateInventories(ctx); err != nil {
		return fmt.Errorf("inventory migration failed: %w", err)
	}
	if err := m.MigrateEffects(ctx); err != nil {
		return fmt.Errorf("effect migration failed: %w", err)
	}

	for name, stats := range m.stats.Tables {
		slog.Info("Migration table complete",
			slog.String("type", "sys"),
			slog.String("table", name),
			slog.Int("read", stats.Read),
			slog.Int("written", stats.Written),
			slog.Int("skipped", stats.Skipped))
	}
	slog.Info("Migration finished",
		slog.String("type", "sys"),
		slog.Duration("took", time.Since(m.stats.StartTime)))
	return nil
}

func (m *Migrator) MigrateUsers(ctx context.Context) error {
	cur, err := m.mongoDB.Collection("users").Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query users: %w", err)
	}
	defer cur.Close(ctx)

	stats := m.tableStats("users")
	var batch []*models.User

	for cur.Next(ctx) {
		var mu MongoUser
		if err := cur.Decode(&mu); err != nil {
			stats.Skipped++
			continue
		}
		stats.Read++
		if mu.DiscordID == "" {
			stats.Skipped++
			continue
		}

		joined := time.Now()
		if mu.Joined != nil {
			joined = *mu.Joined
		}
		batch = append(batch, &models.User{
			DiscordID: mu.DiscordID,
			Username:  mu.Username,
			Gold:      int64(mu.Gold),
			Shards:    int64(mu.Shards),
			Joined:    joined,
			UpdatedAt: time.Now(),
		})

		if len(batch) >= m.batchSize {
			if err := m.insertUsers(ctx, batch, stats); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return m.insertUsers(ctx, batch, stats)
	}
	return nil
}

func (m *Migrator) insertUsers(ctx context.Context, users []*models.User, stats *TableStats) error {
	res, err := m.pgDB.NewInsert().
		Model(&users).
		On("CONFLICT (discord_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert users: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		stats.Written += int(n)
		stats.Skipped += len(users) - int(n)
	}
	return nil
}

func (m *Migrator) MigrateInventories(ctx context.Context) error {
	cur, err := m.mongoDB.Collection("userinventories").Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query userinventories: %w", err)
	}
	defer cur.Close(ctx)

	stats := m.tableStats("user_items")
	var items []*models.UserItem

	for cur.Next(ctx) {
		var mi MongoInventory
		if err := cur.Decode(&mi); err != nil {
			stats.Skipped++
			continue
		}
		stats.Read++
		if mi.DiscordID == "" {
			stats.Skipped++
			continue
		}
		for _, stack := range mi.Items {
			if stack.Name == "" || stack.Amount <= 0 {
				stats.Skipped++
				continue
			}
			items = append(items, &models.UserItem{
				UserID:     mi.DiscordID,
				ItemName:   stack.Name,
				Quantity:   int64(stack.Amount),
				ObtainedAt: time.Now(),
				UpdatedAt:  time.Now(),
			})
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	if m.useCopy && m.pool != nil {
		return m.copyItems(ctx, items, stats)
	}

	for start := 0; start < len(items); start += m.batchSize {
		end := min(start+m.batchSize, len(items))
		batch := items[start:end]
		res, err := m.pgDB.NewInsert().
			Model(&batch).
			On("CONFLICT (user_id, item_name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert user items: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			stats.Written += int(n)
			stats.Skipped += len(batch) - int(n)
		}
	}
	return nil
}

// copyItems is the fast path for a first-time import into an empty
// user_items table. COPY cannot skip conflicts, so it must not be used
// for re-runs.
func (m *Migrator) copyItems(ctx context.Context, items []*models.UserItem, stats *TableStats) error {
	rows := make([][]interface{}, 0, len(items))
	for _, item := range items {
		rows = append(rows, []interface{}{item.UserID, item.ItemName, item.Quantity, item.ObtainedAt, item.UpdatedAt})
	}

	n, err := m.pool.CopyFrom(ctx,
		pgx.Identifier{"user_items"},
		[]string{"user_id", "item_name", "quantity", "obtained_at", "updated_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy into user_items failed: %w", err)
	}
	stats.Written += int(n)
	return nil
}

func (m *Migrator) MigrateEffects(ctx context.Context) error {
	cur, err := m.mongoDB.Collection("usereffects").Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query usereffects: %w", err)
	}
	defer cur.Close(ctx)

	stats := m.tableStats("user_boosts")
	now := time.Now()

	for cur.Next(ctx) {
		var me MongoEffect
		if err := cur.Decode(&me); err != nil {
			stats.Skipped++
			continue
		}
		stats.Read++

		if me.DiscordID == "" || me.Mult <= 0 || !knownMetric(me.Metric) {
			stats.Skipped++
			continue
		}
		// Expired time-based effects are dead weight; skip them.
		if me.Expires != nil && !me.Expires.After(now) {
			stats.Skipped++
			continue
		}
		if me.Expires == nil && int(me.Uses) <= 0 {
			stats.Skipped++
			continue
		}

		record := &models.BoostRecord{
			UserID:     me.DiscordID,
			Metric:     me.Metric,
			Source:     me.Name,
			Multiplier: me.Mult,
			ExpiresAt:  me.Expires,
			Uses:       int(me.Uses),
			UpdatedAt:  now,
		}
		res, err := m.pgDB.NewInsert().
			Model(record).
			On("CONFLICT (user_id, metric, source) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert boost record: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			stats.Written++
		} else {
			stats.Skipped++
		}
	}
	return cur.Err()
}

func knownMetric(metric string) bool {
	switch metric {
	case models.MetricCraftCost, models.MetricCraftSpeed, models.MetricGoldGain:
		return true
	}
	return false
}
