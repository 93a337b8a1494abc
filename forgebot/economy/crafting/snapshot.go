package crafting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/forgebound/forgebot/forgebot/database/repositories"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/errgroup"
)

const (
	snapshotCacheSize = 10000
	// SnapshotTTL bounds how stale a pre-validation read can be. The
	// cache is purely an optimization: every mutation re-checks live
	// storage, so a stale snapshot can only cost the user a failed
	// confirmation, never a wrong deduction.
	SnapshotTTL = 30 * time.Second
)

// Snapshot is an ephemeral read of one user's economy state. Never
// authoritative.
type Snapshot struct {
	UserID    string
	Inventory map[string]int64
	Gold      int64
	Shards    int64
	Queue     []*models.CraftQueueEntry
	FetchedAt time.Time
}

// UnclaimedCount counts queue entries still holding a slot.
func (s *Snapshot) UnclaimedCount() int {
	return len(s.Queue)
}

type cachedSnapshot struct {
	snap      *Snapshot
	fetchedAt time.Time
}

// SnapshotCache is a short-TTL read-through cache over the three reads a
// craft confirmation needs.
type SnapshotCache struct {
	userRepo      repositories.UserRepository
	inventoryRepo repositories.InventoryRepository
	queueRepo     repositories.QueueRepository

	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewSnapshotCache(
	userRepo repositories.UserRepository,
	inventoryRepo repositories.InventoryRepository,
	queueRepo repositories.QueueRepository,
) *SnapshotCache {
	cache, _ := lru.New(snapshotCacheSize)
	return &SnapshotCache{
		userRepo:      userRepo,
		inventoryRepo: inventoryRepo,
		queueRepo:     queueRepo,
		cache:         cache,
		ttl:           SnapshotTTL,
		now:           time.Now,
	}
}

// Get returns a cached snapshot younger than the TTL, or recomputes one
// via three parallel reads. category narrows the queue view; empty means
// all categories.
func (c *SnapshotCache) Get(ctx context.Context, userID, category string) (*Snapshot, error) {
	key := cacheKey(userID, category)
	if v, ok := c.cache.Get(key); ok {
		entry := v.(*cachedSnapshot)
		if c.now().Sub(entry.fetchedAt) < c.ttl {
			return entry.snap, nil
		}
		c.cache.Remove(key)
	}

	snap, err := c.load(ctx, userID, category)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, &cachedSnapshot{snap: snap, fetchedAt: c.now()})
	return snap, nil
}

// Invalidate drops every cached snapshot for the user, across categories.
// Called after any mutation touching balances, inventory, or queue.
func (c *SnapshotCache) Invalidate(userID string) {
	prefix := userID + "|"
	for _, key := range c.cache.Keys() {
		if k, ok := key.(string); ok && strings.HasPrefix(k, prefix) {
			c.cache.Remove(key)
		}
	}
}

func (c *SnapshotCache) load(ctx context.Context, userID, category string) (*Snapshot, error) {
	var (
		user  *models.User
		items []*models.UserItem
		queue []*models.CraftQueueEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = c.userRepo.GetByDiscordID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = c.inventoryRepo.GetUserItems(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		queue, err = c.queueRepo.GetUnclaimed(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load snapshot for %s: %w", userID, err)
	}

	inventory := make(map[string]int64, len(items))
	for _, item := range items {
		inventory[item.ItemName] = item.Quantity
	}

	if category != "" {
		filtered := queue[:0]
		for _, entry := range queue {
			if entry.Category == category {
				filtered = append(filtered, entry)
			}
		}
		queue = filtered
	}

	return &Snapshot{
		UserID:    userID,
		Inventory: inventory,
		Gold:      user.Gold,
		Shards:    user.Shards,
		Queue:     queue,
		FetchedAt: c.now(),
	}, nil
}

func cacheKey(userID, category string) string {
	return userID + "|" + category
}
