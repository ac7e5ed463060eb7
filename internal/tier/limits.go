package tier

import (
	"fmt"

	"rentcompare/internal/models"
)

// Limits defines per-tier capacity for user-owned resources.
// A limit of 0 means unlimited.
type Limits struct {
	FreeApartments        int `yaml:"free_apartments"`
	PremiumApartments     int `yaml:"premium_apartments"`
	FreeFavoritePlaces    int `yaml:"free_favorite_places"`
	PremiumFavoritePlaces int `yaml:"premium_favorite_places"`
}

// DefaultLimits returns the product defaults: free users get 2 apartments and
// 1 favorite place, premium users get unlimited apartments and 5 places.
func DefaultLimits() Limits {
	return Limits{
		FreeApartments:        2,
		PremiumApartments:     0,
		FreeFavoritePlaces:    1,
		PremiumFavoritePlaces: 5,
	}
}

// CapacityError is a user-facing rejection when a tier limit is reached
type CapacityError struct {
	Resource string
	Tier     models.Tier
	Limit    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s limit reached: %s tier allows at most %d", e.Resource, e.Tier, e.Limit)
}

// ApartmentLimit returns the apartment cap for a tier (0 = unlimited)
func (l Limits) ApartmentLimit(t models.Tier) int {
	if t == models.TierPremium {
		return l.PremiumApartments
	}
	return l.FreeApartments
}

// FavoritePlaceLimit returns the favorite-place cap for a tier (0 = unlimited)
func (l Limits) FavoritePlaceLimit(t models.Tier) int {
	if t == models.TierPremium {
		return l.PremiumFavoritePlaces
	}
	return l.FreeFavoritePlaces
}

// CheckApartmentCapacity rejects a new apartment when the user's current count
// has reached the tier cap. The tier is passed explicitly; this function never
// consults ambient subscription state.
func (l Limits) CheckApartmentCapacity(t models.Tier, currentCount int) error {
	limit := l.ApartmentLimit(t)
	if limit > 0 && currentCount >= limit {
		return &CapacityError{Resource: "apartment", Tier: t, Limit: limit}
	}
	return nil
}

// CheckFavoritePlaceCapacity rejects a new favorite place when the user's
// current count has reached the tier cap.
func (l Limits) CheckFavoritePlaceCapacity(t models.Tier, currentCount int) error {
	limit := l.FavoritePlaceLimit(t)
	if limit > 0 && currentCount >= limit {
		return &CapacityError{Resource: "favorite place", Tier: t, Limit: limit}
	}
	return nil
}
