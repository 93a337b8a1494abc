package crafting

import (
	"context"
	"sync"
	"time"

	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/forgebound/forgebot/forgebot/database/repositories"
)

// In-memory repository fakes. They reproduce the conditional-update
// semantics of the real repositories, including the sentinel errors,
// so processor behavior under contention can be tested without Postgres.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	reads int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) seed(discordID string, gold, shards int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[discordID] = &models.User{DiscordID: discordID, Gold: gold, Shards: shards}
}

func (f *fakeUserRepo) balance(discordID string) (int64, int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[discordID]
	return u.Gold, u.Shards
}

func (f *fakeUserRepo) GetByDiscordID(_ context.Context, discordID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	u, ok := f.users[discordID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetOrCreate(_ context.Context, discordID, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[discordID]; ok {
		copied := *u
		return &copied, nil
	}
	u := &models.User{DiscordID: discordID, Username: username, Gold: models.StarterGold, Shards: models.StarterShards}
	f.users[discordID] = u
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) DeductBalance(_ context.Context, discordID string, gold, shards int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[discordID]
	if !ok || u.Gold < gold || u.Shards < shards {
		return repositories.ErrInsufficientFunds
	}
	u.Gold -= gold
	u.Shards -= shards
	return nil
}

func (f *fakeUserRepo) ClaimDaily(_ context.Context, discordID string, gold int64, now time.Time, cooldown time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[discordID]
	if !ok || (u.LastDaily != nil && u.LastDaily.After(now.Add(-cooldown))) {
		return repositories.ErrDailyOnCooldown
	}
	u.Gold += gold
	stamp := now
	u.LastDaily = &stamp
	return nil
}

type fakeInventoryRepo struct {
	mu     sync.Mutex
	items  map[string]map[string]int64 // userID -> item -> quantity
	addErr error                       // one-shot AddItem failure
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: make(map[string]map[string]int64)}
}

func (f *fakeInventoryRepo) seed(userID string, items map[string]int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bag := make(map[string]int64, len(items))
	for k, v := range items {
		bag[k] = v
	}
	f.items[userID] = bag
}

func (f *fakeInventoryRepo) quantity(userID, itemName string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[userID][itemName]
}

func (f *fakeInventoryRepo) GetUserItems(_ context.Context, userID string) ([]*models.UserItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.UserItem
	for name, qty := range f.items[userID] {
		if qty > 0 {
			out = append(out, &models.UserItem{UserID: userID, ItemName: name, Quantity: qty})
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) GetUserItem(_ context.Context, userID, itemName string) (*models.UserItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	qty, ok := f.items[userID][itemName]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.UserItem{UserID: userID, ItemName: itemName, Quantity: qty}, nil
}

func (f *fakeInventoryRepo) AddItem(_ context.Context, userID, itemName string, quantity int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		err := f.addErr
		f.addErr = nil
		return err
	}
	if f.items[userID] == nil {
		f.items[userID] = make(map[string]int64)
	}
	f.items[userID][itemName] += quantity
	return nil
}

func (f *fakeInventoryRepo) ConsumeItems(_ context.Context, userID string, requirements map[string]int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	bag := f.items[userID]
	for name, required := range requirements {
		if bag[name] < required {
			return repositories.ErrInsufficientItems
		}
	}
	for name, required := range requirements {
		bag[name] -= required
	}
	return nil
}

type fakeQueueRepo struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]*models.CraftQueueEntry
	// beforeClaim runs under the lock ahead of the conditional flip so a
	// test can lose the claim race on purpose.
	beforeClaim func(e *models.CraftQueueEntry)
}

func newFakeQueueRepo() *fakeQueueRepo {
	return &fakeQueueRepo{entries: make(map[int64]*models.CraftQueueEntry)}
}

func (f *fakeQueueRepo) Insert(_ context.Context, entry *models.CraftQueueEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	entry.ID = f.nextID
	copied := *entry
	f.entries[entry.ID] = &copied
	return nil
}

func (f *fakeQueueRepo) CountUnclaimed(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, e := range f.entries {
		if e.UserID == userID && !e.Claimed {
			count++
		}
	}
	return count, nil
}

func (f *fakeQueueRepo) GetUnclaimed(_ context.Context, userID string) ([]*models.CraftQueueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.CraftQueueEntry
	for _, e := range f.entries {
		if e.UserID == userID && !e.Claimed {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeQueueRepo) GetReady(_ context.Context, userID string, now time.Time) ([]*models.CraftQueueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.CraftQueueEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.Ready(now) {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeQueueRepo) GetUnclaimedByID(_ context.Context, id int64, userID string) (*models.CraftQueueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok || e.UserID != userID || e.Claimed {
		return nil, repositories.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeQueueRepo) Claim(_ context.Context, id int64, userID string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if ok && f.beforeClaim != nil {
		f.beforeClaim(e)
	}
	if !ok || e.UserID != userID || !e.Ready(now) {
		return repositories.ErrNotFound
	}
	e.Claimed = true
	return nil
}

func (f *fakeQueueRepo) Delete(_ context.Context, id int64, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok || e.UserID != userID || e.Claimed {
		return repositories.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	records []*models.CraftHistory
}

func (f *fakeHistoryRepo) Append(_ context.Context, record *models.CraftHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *record
	f.records = append(f.records, &copied)
	return nil
}

func (f *fakeHistoryRepo) GetRecent(_ context.Context, userID string, limit int) ([]*models.CraftHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.CraftHistory
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].UserID == userID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

func (f *fakeHistoryRepo) GetSince(_ context.Context, since time.Time, _ int) ([]*models.CraftHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.CraftHistory
	for _, r := range f.records {
		if !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

// fixedBoosts returns constant multipliers per metric.
type fixedBoosts struct {
	multipliers map[string]float64
	consumed    []string
	mu          sync.Mutex
}

func (f *fixedBoosts) EffectiveMultiplier(_ context.Context, _ string, metric string) (float64, error) {
	if m, ok := f.multipliers[metric]; ok {
		return m, nil
	}
	return 1.0, nil
}

func (f *fixedBoosts) ConsumeUse(_ context.Context, _ string, metric string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consumed = append(f.consumed, metric)
}
