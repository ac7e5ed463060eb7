package models

import "time"

// Tier is the subscription level gating apartment and favorite-place counts
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// SubscriptionStatus constants
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusPastDue  = "past_due"
)

// Subscription is a user's subscription record. Payment processing lives
// outside this service; only the resulting tier state is stored here.
type Subscription struct {
	ID                uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            string     `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Tier              Tier       `gorm:"type:varchar(20);not null;default:'free'" json:"tier"`
	Status            string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool       `gorm:"not null;default:false" json:"cancel_at_period_end"`
	CreatedAt         time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Subscription) TableName() string {
	return "subscriptions"
}

// EffectiveTier resolves the tier this subscription currently grants.
// Canceled and past-due subscriptions keep premium until the paid period ends.
func (s *Subscription) EffectiveTier() Tier {
	if s == nil || s.Tier != TierPremium {
		return TierFree
	}

	switch s.Status {
	case SubscriptionStatusActive:
		return TierPremium
	case SubscriptionStatusCanceled, SubscriptionStatusPastDue:
		if s.CurrentPeriodEnd != nil && s.CurrentPeriodEnd.After(time.Now()) {
			return TierPremium
		}
	}

	return TierFree
}
