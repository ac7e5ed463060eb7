package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rentcompare/internal/models"
)

func setupTestDB(t *testing.T) *GormDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	gdb := NewGormDBFromDB(db)
	require.NoError(t, gdb.InitSchema())
	return gdb
}

func createTestUser(t *testing.T, gdb *GormDB) *models.User {
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, gdb.CreateUser(user))
	return user
}

func TestGetOrCreatePreferencesCreatesDefaults(t *testing.T) {
	gdb := setupTestDB(t)
	user := createTestUser(t, gdb)

	prefs, err := gdb.GetOrCreatePreferences(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, prefs.PriceWeight)
	assert.Equal(t, 50, prefs.PricePerSqftWeight)
	assert.Equal(t, 50, prefs.SqftWeight)
	assert.Equal(t, 50, prefs.DistanceWeight)
	assert.Equal(t, models.DiscountBasisWeekly, prefs.DiscountBasis)

	// Second call returns the same row, not another insert
	prefs.PriceWeight = 80
	require.NoError(t, gdb.SavePreferences(prefs))

	again, err := gdb.GetOrCreatePreferences(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, again.PriceWeight)
	assert.Equal(t, prefs.ID, again.ID)
}

func TestEffectiveTierDefaultsToFree(t *testing.T) {
	gdb := setupTestDB(t)
	user := createTestUser(t, gdb)

	tier, err := gdb.EffectiveTier(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, tier)
}

func TestUpsertSubscriptionKeepsSingleRow(t *testing.T) {
	gdb := setupTestDB(t)
	user := createTestUser(t, gdb)

	periodEnd := time.Now().Add(30 * 24 * time.Hour)
	require.NoError(t, gdb.UpsertSubscription(&models.Subscription{
		UserID:           user.ID,
		Tier:             models.TierPremium,
		Status:           models.SubscriptionStatusActive,
		CurrentPeriodEnd: &periodEnd,
	}))

	tier, err := gdb.EffectiveTier(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierPremium, tier)

	// Downgrade by upserting: still one row per user
	require.NoError(t, gdb.UpsertSubscription(&models.Subscription{
		UserID: user.ID,
		Tier:   models.TierFree,
		Status: models.SubscriptionStatusActive,
	}))

	var count int64
	gdb.DB().Model(&models.Subscription{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	tier, err = gdb.EffectiveTier(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, tier)
}

func TestDeleteApartmentCascadesDistances(t *testing.T) {
	gdb := setupTestDB(t)
	user := createTestUser(t, gdb)

	lat, lon := 40.7128, -74.0060
	apt := &models.Apartment{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      "downtown loft",
		Rent:      2400,
		Latitude:  &lat,
		Longitude: &lon,
	}
	require.NoError(t, gdb.CreateApartment(apt))

	place := &models.FavoritePlace{UserID: user.ID, Label: "office", Address: "midtown"}
	require.NoError(t, gdb.CreateFavoritePlace(place))

	require.NoError(t, gdb.UpsertDistance(&models.ApartmentDistance{
		ApartmentID:     apt.ID,
		FavoritePlaceID: place.ID,
		DistanceMiles:   3.5,
	}))

	require.NoError(t, gdb.DeleteApartment(user.ID, apt.ID))

	rows, err := gdb.GetDistancesForApartment(apt.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDeleteFavoritePlaceCascadesDistances(t *testing.T) {
	gdb := setupTestDB(t)
	user := createTestUser(t, gdb)

	apt := &models.Apartment{ID: uuid.NewString(), UserID: user.ID, Name: "studio", Rent: 1800}
	require.NoError(t, gdb.CreateApartment(apt))

	place := &models.FavoritePlace{UserID: user.ID, Label: "gym", Address: "somewhere"}
	require.NoError(t, gdb.CreateFavoritePlace(place))

	require.NoError(t, gdb.UpsertDistance(&models.ApartmentDistance{
		ApartmentID:     apt.ID,
		FavoritePlaceID: place.ID,
		DistanceMiles:   1.2,
	}))

	require.NoError(t, gdb.DeleteFavoritePlace(user.ID, place.ID))

	rows, err := gdb.GetDistancesForApartment(apt.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetApartmentByIDScopedToUser(t *testing.T) {
	gdb := setupTestDB(t)
	owner := createTestUser(t, gdb)
	other := createTestUser(t, gdb)

	apt := &models.Apartment{ID: uuid.NewString(), UserID: owner.ID, Name: "walkup", Rent: 2000}
	require.NoError(t, gdb.CreateApartment(apt))

	got, err := gdb.GetApartmentByID(owner.ID, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, apt.ID, got.ID)

	_, err = gdb.GetApartmentByID(other.ID, apt.ID)
	assert.Error(t, err)
}

func TestUpsertDistanceReplacesExistingPair(t *testing.T) {
	gdb := setupTestDB(t)
	user := createTestUser(t, gdb)

	apt := &models.Apartment{ID: uuid.NewString(), UserID: user.ID, Name: "corner unit", Rent: 2100}
	require.NoError(t, gdb.CreateApartment(apt))

	place := &models.FavoritePlace{UserID: user.ID, Label: "park", Address: "somewhere"}
	require.NoError(t, gdb.CreateFavoritePlace(place))

	require.NoError(t, gdb.UpsertDistance(&models.ApartmentDistance{
		ApartmentID: apt.ID, FavoritePlaceID: place.ID, DistanceMiles: 2.0,
	}))
	require.NoError(t, gdb.UpsertDistance(&models.ApartmentDistance{
		ApartmentID: apt.ID, FavoritePlaceID: place.ID, DistanceMiles: 4.5,
	}))

	rows, err := gdb.GetDistancesForApartment(apt.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4.5, rows[0].DistanceMiles)
}
