package boosts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/forgebound/forgebot/forgebot/database/repositories"
	"github.com/forgebound/forgebot/forgebot/economy/boosts/mock"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func managerWith(repo repositories.BoostRepository) *Manager {
	m := NewManager(repo)
	m.now = func() time.Time { return testNow }
	return m
}

func TestEffectiveMultiplierComposesMultiplicatively(t *testing.T) {
	repo := mock.NewMockBoostRepository(gomock.NewController(t))
	later := testNow.Add(time.Hour)
	repo.EXPECT().
		GetActive(gomock.Any(), "u1", models.MetricGoldGain, testNow).
		Return([]*models.BoostRecord{
			{Multiplier: 1.5, ExpiresAt: &later},
			{Multiplier: 2.0, ExpiresAt: &later},
		}, nil)

	m := managerWith(repo)
	got, err := m.EffectiveMultiplier(context.Background(), "u1", models.MetricGoldGain)
	if err != nil {
		t.Fatalf("EffectiveMultiplier() error = %v", err)
	}
	if got != 3.0 {
		t.Errorf("EffectiveMultiplier() = %v, want 3.0", got)
	}
}

func TestEffectiveMultiplierDefaultsToOne(t *testing.T) {
	repo := mock.NewMockBoostRepository(gomock.NewController(t))
	repo.EXPECT().
		GetActive(gomock.Any(), "u1", models.MetricCraftCost, testNow).
		Return(nil, nil)

	m := managerWith(repo)
	got, err := m.EffectiveMultiplier(context.Background(), "u1", models.MetricCraftCost)
	if err != nil {
		t.Fatalf("EffectiveMultiplier() error = %v", err)
	}
	if got != 1.0 {
		t.Errorf("EffectiveMultiplier() with no boosts = %v, want 1.0", got)
	}
}

func TestApplyBoostFreshInsert(t *testing.T) {
	repo := mock.NewMockBoostRepository(gomock.NewController(t))
	expiresAt := testNow.Add(time.Hour)

	repo.EXPECT().DeleteExpired(gomock.Any(), "u1", testNow).Return(nil)
	repo.EXPECT().
		Get(gomock.Any(), "u1", models.MetricCraftCost, "artisan_brew").
		Return(nil, repositories.ErrNotFound)
	repo.EXPECT().
		Insert(gomock.Any(), gomock.Cond(func(x any) bool {
			r := x.(*models.BoostRecord)
			return r.UserID == "u1" && r.Source == "artisan_brew" &&
				r.Multiplier == 0.9 && r.ExpiresAt != nil && r.ExpiresAt.Equal(expiresAt)
		})).
		Return(nil)

	m := managerWith(repo)
	if err := m.ApplyBoost(context.Background(), "u1", models.MetricCraftCost, "artisan_brew", 0.9, expiresAt); err != nil {
		t.Fatalf("ApplyBoost() error = %v", err)
	}
}

func TestApplyBoostExtendRuleStacksDuration(t *testing.T) {
	repo := mock.NewMockBoostRepository(gomock.NewController(t))

	currentExpiry := testNow.Add(30 * time.Minute)
	newExpiry := testNow.Add(time.Hour)
	// 30 minutes left plus the fresh hour.
	wantExpiry := currentExpiry.Add(time.Hour)

	existing := &models.BoostRecord{
		UserID:     "u1",
		Metric:     models.MetricCraftCost,
		Source:     "artisan_brew",
		Multiplier: 0.9,
		ExpiresAt:  &currentExpiry,
	}

	repo.EXPECT().DeleteExpired(gomock.Any(), "u1", testNow).Return(nil)
	repo.EXPECT().
		Get(gomock.Any(), "u1", models.MetricCraftCost, "artisan_brew").
		Return(existing, nil)
	repo.EXPECT().
		Update(gomock.Any(), gomock.Cond(func(x any) bool {
			r := x.(*models.BoostRecord)
			return r.ExpiresAt != nil && r.ExpiresAt.Equal(wantExpiry)
		})).
		Return(nil)

	m := managerWith(repo)
	if err := m.ApplyBoost(context.Background(), "u1", models.MetricCraftCost, "artisan_brew", 0.9, newExpiry); err != nil {
		t.Fatalf("ApplyBoost() error = %v", err)
	}
}

func TestApplyBoostOverwriteRuleReplacesExpiry(t *testing.T) {
	repo := mock.NewMockBoostRepository(gomock.NewController(t))

	currentExpiry := testNow.Add(90 * time.Minute)
	newExpiry := testNow.Add(2 * time.Hour)

	existing := &models.BoostRecord{
		UserID:     "u1",
		Metric:     models.MetricGoldGain,
		Source:     "lucky_charm",
		Multiplier: 1.25,
		ExpiresAt:  &currentExpiry,
	}

	repo.EXPECT().DeleteExpired(gomock.Any(), "u1", testNow).Return(nil)
	repo.EXPECT().
		Get(gomock.Any(), "u1", models.MetricGoldGain, "lucky_charm").
		Return(existing, nil)
	repo.EXPECT().
		Update(gomock.Any(), gomock.Cond(func(x any) bool {
			r := x.(*models.BoostRecord)
			return r.ExpiresAt != nil && r.ExpiresAt.Equal(newExpiry) && r.Multiplier == 1.25
		})).
		Return(nil)

	m := managerWith(repo)
	if err := m.ApplyBoost(context.Background(), "u1", models.MetricGoldGain, "lucky_charm", 1.25, newExpiry); err != nil {
		t.Fatalf("ApplyBoost() error = %v", err)
	}
}

func TestApplyBoostExpiredRecordResets(t *testing.T) {
	repo := mock.NewMockBoostRepository(gomock.NewController(t))

	pastExpiry := testNow.Add(-time.Minute)
	newExpiry := testNow.Add(time.Hour)
	stack := 4

	existing := &models.BoostRecord{
		UserID:     "u1",
		Metric:     models.MetricCraftCost,
		Source:     "artisan_brew",
		Multiplier: 0.8,
		ExpiresAt:  &pastExpiry,
		StackCount: &stack,
	}

	repo.EXPECT().DeleteExpired(gomock.Any(), "u1", testNow).Return(nil)
	repo.EXPECT().
		Get(gomock.Any(), "u1", models.MetricCraftCost, "artisan_brew").
		Return(existing, nil)
	repo.EXPECT().
		Update(gomock.Any(), gomock.Cond(func(x any) bool {
			r := x.(*models.BoostRecord)
			// Reset, not extended: stale stack cleared, new expiry taken as-is.
			return r.StackCount == nil && r.Multiplier == 0.9 &&
				r.ExpiresAt != nil && r.ExpiresAt.Equal(newExpiry)
		})).
		Return(nil)

	m := managerWith(repo)
	if err := m.ApplyBoost(context.Background(), "u1", models.MetricCraftCost, "artisan_brew", 0.9, newExpiry); err != nil {
		t.Fatalf("ApplyBoost() error = %v", err)
	}
}

func TestUpdateBoostStackSeedsFirstApplication(t *testing.T) {
	repo := mock.NewMockBoostRepository(gomock.NewController(t))

	src, _ := GetSource("foremans_whistle")
	repo.EXPECT().
		IncrementStack(gomock.Any(), "u1", src.Metric, "foremans_whistle", 1, src.MaxStack, src.StackStep).
		Return(repositories.ErrNotFound)
	repo.EXPECT().
		Insert(gomock.Any(), gomock.Cond(func(x any) bool {
			r := x.(*models.BoostRecord)
			return r.StackCount != nil && *r.StackCount == 1 &&
				r.Multiplier == 1+src.StackStep
		})).
		Return(nil)

	m := managerWith(repo)
	if err := m.UpdateBoostStack(context.Background(), "u1", src.Metric, "foremans_whistle", 1, src.MaxStack); err != nil {
		t.Fatalf("UpdateBoostStack() error = %v", err)
	}
}

func TestUpdateBoostStackCapped(t *testing.T) {
	repo := mock.NewMockBoostRepository(gomock.NewController(t))

	src, _ := GetSource("foremans_whistle")
	repo.EXPECT().
		IncrementStack(gomock.Any(), "u1", src.Metric, "foremans_whistle", 1, src.MaxStack, src.StackStep).
		Return(repositories.ErrStackCapped)

	m := managerWith(repo)
	err := m.UpdateBoostStack(context.Background(), "u1", src.Metric, "foremans_whistle", 1, src.MaxStack)
	if !errors.Is(err, repositories.ErrStackCapped) {
		t.Fatalf("UpdateBoostStack() error = %v, want ErrStackCapped", err)
	}
}

func TestSetBoostUsesSeedsRecord(t *testing.T) {
	repo := mock.NewMockBoostRepository(gomock.NewController(t))

	src, _ := GetSource("gilded_contract")
	repo.EXPECT().
		SetUses(gomock.Any(), "u1", src.Metric, "gilded_contract", src.Uses).
		Return(repositories.ErrNotFound)
	repo.EXPECT().
		Insert(gomock.Any(), gomock.Cond(func(x any) bool {
			r := x.(*models.BoostRecord)
			// Use-limited records carry no expiry; counting is the expiry.
			return r.ExpiresAt == nil && r.Uses == src.Uses && r.Multiplier == src.Multiplier
		})).
		Return(nil)

	m := managerWith(repo)
	if err := m.SetBoostUses(context.Background(), "u1", src.Metric, "gilded_contract", src.Uses); err != nil {
		t.Fatalf("SetBoostUses() error = %v", err)
	}
}

func TestConsumeUseSkipsTimeBasedRecords(t *testing.T) {
	repo := mock.NewMockBoostRepository(gomock.NewController(t))

	later := testNow.Add(time.Hour)
	repo.EXPECT().
		GetActive(gomock.Any(), "u1", models.MetricGoldGain, testNow).
		Return([]*models.BoostRecord{
			{Source: "lucky_charm", Multiplier: 1.25, ExpiresAt: &later},
			{Source: "gilded_contract", Multiplier: 1.5, Uses: 3},
		}, nil)
	// Only the use-limited record burns a use.
	repo.EXPECT().
		ConsumeUse(gomock.Any(), "u1", models.MetricGoldGain, "gilded_contract").
		Return(nil)

	m := managerWith(repo)
	m.ConsumeUse(context.Background(), "u1", models.MetricGoldGain)
}

func TestApplyMultipleBoostsPartialFailure(t *testing.T) {
	repo := mock.NewMockBoostRepository(gomock.NewController(t))

	repo.EXPECT().DeleteExpired(gomock.Any(), "u1", testNow).Return(nil).Times(2)
	repo.EXPECT().
		Get(gomock.Any(), "u1", models.MetricCraftCost, "artisan_brew").
		Return(nil, repositories.ErrNotFound)
	repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		Return(nil)
	repo.EXPECT().
		Get(gomock.Any(), "u1", models.MetricCraftSpeed, "quickfire_powder").
		Return(nil, errors.New("connection reset"))

	m := managerWith(repo)
	result, err := m.ApplyMultipleBoosts(context.Background(), "u1", []Application{
		{Metric: models.MetricCraftCost, Source: "artisan_brew", Multiplier: 0.9},
		{Metric: models.MetricCraftSpeed, Source: "quickfire_powder", Multiplier: 1.25},
	}, time.Hour)

	if err == nil {
		t.Fatal("ApplyMultipleBoosts() succeeded, want partial failure error")
	}
	if len(result.Applied) != 1 || len(result.Failed) != 1 {
		t.Errorf("Applied = %d, Failed = %d, want 1 and 1", len(result.Applied), len(result.Failed))
	}
}
