package distance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rentcompare/internal/database"
	"rentcompare/internal/models"
)

func setupTestDB(t *testing.T) *database.GormDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	gormDB := database.NewGormDBFromDB(db)
	require.NoError(t, gormDB.InitSchema())
	return gormDB
}

func ptr(v float64) *float64 { return &v }

func createApartment(t *testing.T, db *database.GormDB, userID string, lat, lon *float64) *models.Apartment {
	apt := &models.Apartment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      "apt-" + uuid.NewString()[:8],
		Rent:      2000,
		Latitude:  lat,
		Longitude: lon,
	}
	require.NoError(t, db.CreateApartment(apt))
	return apt
}

func createPlace(t *testing.T, db *database.GormDB, userID string, lat, lon *float64) *models.FavoritePlace {
	place := &models.FavoritePlace{
		UserID:    userID,
		Label:     "place-" + uuid.NewString()[:8],
		Address:   "somewhere",
		Latitude:  lat,
		Longitude: lon,
	}
	require.NoError(t, db.CreateFavoritePlace(place))
	return place
}

func TestRefreshApartmentCachesDistances(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	userID := uuid.NewString()

	// NYC apartment, LA favorite place
	apt := createApartment(t, db, userID, ptr(40.7128), ptr(-74.0060))
	place := createPlace(t, db, userID, ptr(34.0522), ptr(-118.2437))

	require.NoError(t, svc.RefreshApartment(apt))

	rows, err := db.GetDistancesForApartment(apt.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, place.ID, rows[0].FavoritePlaceID)
	assert.InDelta(t, 2451, rows[0].DistanceMiles, 5)
}

func TestRefreshApartmentIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	userID := uuid.NewString()

	apt := createApartment(t, db, userID, ptr(40.7128), ptr(-74.0060))
	createPlace(t, db, userID, ptr(40.7580), ptr(-73.9855))

	require.NoError(t, svc.RefreshApartment(apt))
	require.NoError(t, svc.RefreshApartment(apt))

	// Still exactly one row per pair
	rows, err := db.GetDistancesForApartment(apt.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRefreshApartmentWithoutCoordinatesClearsRows(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	userID := uuid.NewString()

	apt := createApartment(t, db, userID, ptr(40.7128), ptr(-74.0060))
	createPlace(t, db, userID, ptr(40.7580), ptr(-73.9855))
	require.NoError(t, svc.RefreshApartment(apt))

	// Address change failed to geocode: coordinates lost, stale rows go away
	apt.Latitude = nil
	apt.Longitude = nil
	require.NoError(t, db.SaveApartment(apt))
	require.NoError(t, svc.RefreshApartment(apt))

	rows, err := db.GetDistancesForApartment(apt.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRefreshPlaceCoversAllApartments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	userID := uuid.NewString()

	apt1 := createApartment(t, db, userID, ptr(40.7128), ptr(-74.0060))
	apt2 := createApartment(t, db, userID, ptr(40.7580), ptr(-73.9855))
	aptNoCoords := createApartment(t, db, userID, nil, nil)
	place := createPlace(t, db, userID, ptr(40.7484), ptr(-73.9857))

	require.NoError(t, svc.RefreshPlace(place))

	for _, apt := range []*models.Apartment{apt1, apt2} {
		rows, err := db.GetDistancesForApartment(apt.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	}

	// Ungeocoded apartment gets no row
	rows, err := db.GetDistancesForApartment(aptNoCoords.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRefreshPlaceWithoutCoordinatesClearsRows(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	userID := uuid.NewString()

	apt := createApartment(t, db, userID, ptr(40.7128), ptr(-74.0060))
	place := createPlace(t, db, userID, ptr(40.7580), ptr(-73.9855))
	require.NoError(t, svc.RefreshPlace(place))

	place.Latitude = nil
	place.Longitude = nil
	require.NoError(t, db.SaveFavoritePlace(place))
	require.NoError(t, svc.RefreshPlace(place))

	rows, err := db.GetDistancesForApartment(apt.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestApartmentReportIncludesUncomputedPairs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	userID := uuid.NewString()

	apt := createApartment(t, db, userID, ptr(40.7128), ptr(-74.0060))
	geocoded := createPlace(t, db, userID, ptr(40.7580), ptr(-73.9855))
	pending := createPlace(t, db, userID, nil, nil)

	require.NoError(t, svc.RefreshApartment(apt))

	report, err := svc.ApartmentReport(apt)
	require.NoError(t, err)
	require.Len(t, report.Distances, 2)

	byPlace := make(map[uint]PlaceDistance)
	for _, d := range report.Distances {
		byPlace[d.PlaceID] = d
	}

	assert.NotNil(t, byPlace[geocoded.ID].Miles)
	assert.Nil(t, byPlace[pending.ID].Miles)

	// Average covers only the known distance
	require.NotNil(t, report.AverageMiles)
	assert.Equal(t, *byPlace[geocoded.ID].Miles, *report.AverageMiles)
}

func TestApartmentReportNoKnownDistances(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	userID := uuid.NewString()

	apt := createApartment(t, db, userID, nil, nil)
	createPlace(t, db, userID, nil, nil)

	report, err := svc.ApartmentReport(apt)
	require.NoError(t, err)
	assert.Len(t, report.Distances, 1)
	assert.Nil(t, report.AverageMiles)
}

func TestAverageDistances(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	userID := uuid.NewString()

	apt1 := createApartment(t, db, userID, ptr(40.7128), ptr(-74.0060))
	apt2 := createApartment(t, db, userID, nil, nil)
	createPlace(t, db, userID, ptr(40.7580), ptr(-73.9855))
	createPlace(t, db, userID, ptr(40.7484), ptr(-73.9857))

	require.NoError(t, svc.RefreshApartment(apt1))

	averages, err := svc.AverageDistances([]string{apt1.ID, apt2.ID})
	require.NoError(t, err)

	require.NotNil(t, averages[apt1.ID])
	assert.Greater(t, *averages[apt1.ID], 0.0)

	// Apartment with no cached rows is absent, not zero
	_, ok := averages[apt2.ID]
	assert.False(t, ok)
}

func TestAverageDistancesEmptyInput(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	averages, err := svc.AverageDistances(nil)
	require.NoError(t, err)
	assert.Empty(t, averages)
}
