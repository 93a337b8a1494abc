package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/forgebound/forgebot/forgebot/database/models"
	"github.com/forgebound/forgebot/forgebot/database/repositories"
)

type stubUserRepo struct {
	claimErr    error
	claims      int
	claimedGold int64
}

func (s *stubUserRepo) GetByDiscordID(context.Context, string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (s *stubUserRepo) GetOrCreate(context.Context, string, string) (*models.User, error) {
	return &models.User{}, nil
}

func (s *stubUserRepo) DeductBalance(context.Context, string, int64, int64) error {
	return nil
}

func (s *stubUserRepo) ClaimDaily(_ context.Context, _ string, gold int64, _ time.Time, _ time.Duration) error {
	if s.claimErr != nil {
		return s.claimErr
	}
	s.claims++
	s.claimedGold = gold
	return nil
}

type stubBooster struct {
	multiplier float64
	multErr    error
	consumed   []string
}

func (s *stubBooster) EffectiveMultiplier(_ context.Context, _, _ string) (float64, error) {
	if s.multErr != nil {
		return 0, s.multErr
	}
	return s.multiplier, nil
}

func (s *stubBooster) ConsumeUse(_ context.Context, _, metric string) {
	s.consumed = append(s.consumed, metric)
}

func TestPayDailyBoostedRewardConsumesGoldUse(t *testing.T) {
	users := &stubUserRepo{}
	booster := &stubBooster{multiplier: 1.5}

	reward, err := payDaily(context.Background(), users, booster, "u1", time.Now())
	if err != nil {
		t.Fatalf("payDaily() error = %v", err)
	}
	if reward != 750 {
		t.Errorf("reward = %d, want 750 (500 at 1.5)", reward)
	}
	if users.claimedGold != 750 {
		t.Errorf("credited gold = %d, want 750", users.claimedGold)
	}
	// The use-limited gold boost burns exactly one use per payout.
	if len(booster.consumed) != 1 || booster.consumed[0] != models.MetricGoldGain {
		t.Errorf("consumed = %v, want one %s use", booster.consumed, models.MetricGoldGain)
	}
}

func TestPayDailyOnCooldownDoesNotConsumeUse(t *testing.T) {
	users := &stubUserRepo{claimErr: repositories.ErrDailyOnCooldown}
	booster := &stubBooster{multiplier: 1.5}

	_, err := payDaily(context.Background(), users, booster, "u1", time.Now())
	if !errors.Is(err, repositories.ErrDailyOnCooldown) {
		t.Fatalf("payDaily() error = %v, want %v", err, repositories.ErrDailyOnCooldown)
	}
	if len(booster.consumed) != 0 {
		t.Errorf("consumed = %v, want none (payout never landed)", booster.consumed)
	}
}

func TestPayDailyFallsBackToBaseWhenBoostReadFails(t *testing.T) {
	users := &stubUserRepo{}
	booster := &stubBooster{multErr: errors.New("connection reset")}

	reward, err := payDaily(context.Background(), users, booster, "u1", time.Now())
	if err != nil {
		t.Fatalf("payDaily() error = %v", err)
	}
	if reward != dailyBaseGold {
		t.Errorf("reward = %d, want %d", reward, dailyBaseGold)
	}
}
