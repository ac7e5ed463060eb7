package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rentcompare/internal/auth"
	"rentcompare/internal/database"
	"rentcompare/internal/distance"
	"rentcompare/internal/geo"
	"rentcompare/internal/models"
	"rentcompare/internal/tier"
)

func setupTestDB(t *testing.T) *database.GormDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	gdb := database.NewGormDBFromDB(db)
	require.NoError(t, gdb.InitSchema())
	return gdb
}

// stubAuth injects a fixed user ID, bypassing token validation
func stubAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.ContextUserKey, userID)
		c.Next()
	}
}

// noMatchGeocoder points at a server that never finds an address
func noMatchGeocoder(t *testing.T) *geo.Geocoder {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	return geo.NewGeocoder(geo.GeocoderConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	})
}

func setupPlaceRouter(t *testing.T, gdb *database.GormDB, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewPlaceHandler(gdb, noMatchGeocoder(t), distance.NewService(gdb), tier.DefaultLimits())

	r := gin.New()
	r.Use(stubAuth(userID))
	r.GET("/api/places", handler.List)
	r.POST("/api/places", handler.Create)
	r.DELETE("/api/places/:id", handler.Delete)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePlaceFreeTierLimit(t *testing.T) {
	gdb := setupTestDB(t)
	userID := uuid.NewString()
	r := setupPlaceRouter(t, gdb, userID)

	w := postJSON(r, "/api/places", gin.H{"label": "office", "address": "123 Main St"})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Free tier allows exactly one favorite place
	w = postJSON(r, "/api/places", gin.H{"label": "gym", "address": "456 Oak Ave"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "favorite place limit reached")
}

func TestCreatePlacePremiumTierLimit(t *testing.T) {
	gdb := setupTestDB(t)
	userID := uuid.NewString()
	r := setupPlaceRouter(t, gdb, userID)

	periodEnd := time.Now().Add(30 * 24 * time.Hour)
	require.NoError(t, gdb.UpsertSubscription(&models.Subscription{
		UserID:           userID,
		Tier:             models.TierPremium,
		Status:           models.SubscriptionStatusActive,
		CurrentPeriodEnd: &periodEnd,
	}))

	for i := 0; i < 5; i++ {
		w := postJSON(r, "/api/places", gin.H{"label": uuid.NewString()[:8], "address": "somewhere"})
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	w := postJSON(r, "/api/places", gin.H{"label": "one too many", "address": "somewhere"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteThenCreateFreesCapacity(t *testing.T) {
	gdb := setupTestDB(t)
	userID := uuid.NewString()
	r := setupPlaceRouter(t, gdb, userID)

	w := postJSON(r, "/api/places", gin.H{"label": "office", "address": "123 Main St"})
	require.Equal(t, http.StatusCreated, w.Code)

	places, err := gdb.GetFavoritePlaces(userID)
	require.NoError(t, err)
	require.Len(t, places, 1)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/places/%d", places[0].ID), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	w = postJSON(r, "/api/places", gin.H{"label": "gym", "address": "456 Oak Ave"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreatePlaceRequiresLabelAndAddress(t *testing.T) {
	gdb := setupTestDB(t)
	r := setupPlaceRouter(t, gdb, uuid.NewString())

	w := postJSON(r, "/api/places", gin.H{"label": "office"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/api/places", gin.H{"address": "123 Main St"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPlacesReportsTierAndLimit(t *testing.T) {
	gdb := setupTestDB(t)
	userID := uuid.NewString()
	r := setupPlaceRouter(t, gdb, userID)

	req := httptest.NewRequest(http.MethodGet, "/api/places", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int         `json:"count"`
		Limit int         `json:"limit"`
		Tier  models.Tier `json:"tier"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, 1, resp.Limit)
	assert.Equal(t, models.TierFree, resp.Tier)
}
