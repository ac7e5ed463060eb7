package models

import "time"

// DiscountBasis selects how free months/weeks are converted to a cash value
type DiscountBasis string

const (
	DiscountBasisMonthly DiscountBasis = "monthly"
	DiscountBasisWeekly  DiscountBasis = "weekly"
	DiscountBasisDaily   DiscountBasis = "daily"
)

// UserPreferences holds per-user comparison weights (0-100 each).
// Weights are relative: the scoring service normalizes active weights to 1.0.
type UserPreferences struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`

	PriceWeight        int `gorm:"not null;default:50" json:"price_weight"`
	PricePerSqftWeight int `gorm:"not null;default:50" json:"price_per_sqft_weight"`
	SqftWeight         int `gorm:"not null;default:50" json:"sqft_weight"`
	DistanceWeight     int `gorm:"not null;default:50" json:"distance_weight"`

	DiscountBasis DiscountBasis `gorm:"type:varchar(20);not null;default:'weekly'" json:"discount_basis"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (UserPreferences) TableName() string {
	return "user_preferences"
}

// DefaultPreferences returns preferences with equal weights for a user
func DefaultPreferences(userID string) *UserPreferences {
	return &UserPreferences{
		UserID:             userID,
		PriceWeight:        50,
		PricePerSqftWeight: 50,
		SqftWeight:         50,
		DistanceWeight:     50,
		DiscountBasis:      DiscountBasisWeekly,
	}
}
