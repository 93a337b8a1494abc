package crafting

import (
	"context"
	"testing"
	"time"

	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/forgebound/forgebot/forgebot/economy/catalog"
)

func TestSnapshotCacheServesWithinTTL(t *testing.T) {
	users := newFakeUserRepo()
	inventory := newFakeInventoryRepo()
	queue := newFakeQueueRepo()
	users.seed("u1", 800, 20)
	inventory.seed("u1", map[string]int64{models.ItemWood: 7})

	cache := NewSnapshotCache(users, inventory, queue)
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	snap, err := cache.Get(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if snap.Gold != 800 || snap.Shards != 20 {
		t.Errorf("snapshot balances = %d/%d, want 800/20", snap.Gold, snap.Shards)
	}
	if snap.Inventory[models.ItemWood] != 7 {
		t.Errorf("snapshot wood = %d, want 7", snap.Inventory[models.ItemWood])
	}

	readsAfterFirst := users.reads

	// A balance change must stay invisible while the TTL holds.
	users.seed("u1", 0, 0)
	current = current.Add(SnapshotTTL - time.Second)

	snap2, err := cache.Get(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if snap2.Gold != 800 {
		t.Errorf("cached snapshot gold = %d, want stale 800", snap2.Gold)
	}
	if users.reads != readsAfterFirst {
		t.Errorf("cache hit still read the repository (%d -> %d reads)", readsAfterFirst, users.reads)
	}
}

func TestSnapshotCacheExpiresAfterTTL(t *testing.T) {
	users := newFakeUserRepo()
	inventory := newFakeInventoryRepo()
	queue := newFakeQueueRepo()
	users.seed("u1", 800, 0)

	cache := NewSnapshotCache(users, inventory, queue)
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	if _, err := cache.Get(context.Background(), "u1", ""); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	users.seed("u1", 50, 0)
	current = current.Add(SnapshotTTL + time.Second)

	snap, err := cache.Get(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if snap.Gold != 50 {
		t.Errorf("gold after TTL = %d, want fresh 50", snap.Gold)
	}
}

func TestSnapshotCacheInvalidate(t *testing.T) {
	users := newFakeUserRepo()
	inventory := newFakeInventoryRepo()
	queue := newFakeQueueRepo()
	users.seed("u1", 800, 0)
	users.seed("u2", 300, 0)

	cache := NewSnapshotCache(users, inventory, queue)

	if _, err := cache.Get(context.Background(), "u1", catalog.CategoryWeapon); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := cache.Get(context.Background(), "u1", catalog.CategoryArmor); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := cache.Get(context.Background(), "u2", ""); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	users.seed("u1", 100, 0)
	cache.Invalidate("u1")

	// Both u1 category views must refresh.
	for _, category := range []string{catalog.CategoryWeapon, catalog.CategoryArmor} {
		snap, err := cache.Get(context.Background(), "u1", category)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if snap.Gold != 100 {
			t.Errorf("category %q gold = %d, want refreshed 100", category, snap.Gold)
		}
	}

	// u2 stays cached.
	readsBefore := users.reads
	if _, err := cache.Get(context.Background(), "u2", ""); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if users.reads != readsBefore {
		t.Error("invalidating u1 evicted u2's snapshot")
	}
}

func TestSnapshotCacheCategoryFilter(t *testing.T) {
	users := newFakeUserRepo()
	inventory := newFakeInventoryRepo()
	queue := newFakeQueueRepo()
	users.seed("u1", 0, 0)

	now := time.Now()
	_ = queue.Insert(context.Background(), &models.CraftQueueEntry{
		UserID: "u1", Category: catalog.CategoryWeapon, ItemName: "iron_sword", Amount: 1, CompletesAt: now.Add(time.Hour),
	})
	_ = queue.Insert(context.Background(), &models.CraftQueueEntry{
		UserID: "u1", Category: catalog.CategoryArmor, ItemName: "leather_vest", Amount: 1, CompletesAt: now.Add(time.Hour),
	})

	cache := NewSnapshotCache(users, inventory, queue)

	snap, err := cache.Get(context.Background(), "u1", catalog.CategoryWeapon)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(snap.Queue) != 1 || snap.Queue[0].Category != catalog.CategoryWeapon {
		t.Errorf("filtered queue = %+v, want only the weapon entry", snap.Queue)
	}

	all, err := cache.Get(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(all.Queue) != 2 {
		t.Errorf("unfiltered queue length = %d, want 2", len(all.Queue))
	}
}
