package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveTierNilSubscription(t *testing.T) {
	var sub *Subscription
	assert.Equal(t, TierFree, sub.EffectiveTier())
}

func TestEffectiveTierActivePremium(t *testing.T) {
	sub := &Subscription{Tier: TierPremium, Status: SubscriptionStatusActive}
	assert.Equal(t, TierPremium, sub.EffectiveTier())
}

func TestEffectiveTierFreeRecord(t *testing.T) {
	sub := &Subscription{Tier: TierFree, Status: SubscriptionStatusActive}
	assert.Equal(t, TierFree, sub.EffectiveTier())
}

func TestEffectiveTierCanceledKeepsPremiumUntilPeriodEnd(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	sub := &Subscription{
		Tier:             TierPremium,
		Status:           SubscriptionStatusCanceled,
		CurrentPeriodEnd: &future,
	}
	assert.Equal(t, TierPremium, sub.EffectiveTier())

	past := time.Now().Add(-24 * time.Hour)
	sub.CurrentPeriodEnd = &past
	assert.Equal(t, TierFree, sub.EffectiveTier())
}

func TestEffectiveTierPastDueGrace(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	sub := &Subscription{
		Tier:             TierPremium,
		Status:           SubscriptionStatusPastDue,
		CurrentPeriodEnd: &future,
	}
	assert.Equal(t, TierPremium, sub.EffectiveTier())
}

func TestEffectiveTierCanceledWithoutPeriodEnd(t *testing.T) {
	sub := &Subscription{Tier: TierPremium, Status: SubscriptionStatusCanceled}
	assert.Equal(t, TierFree, sub.EffectiveTier())
}
