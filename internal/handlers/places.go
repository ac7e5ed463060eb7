package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rentcompare/internal/auth"
	"rentcompare/internal/database"
	"rentcompare/internal/distance"
	"rentcompare/internal/geo"
	"rentcompare/internal/models"
	"rentcompare/internal/tier"
)

// PlaceHandler handles favorite place CRUD
type PlaceHandler struct {
	db        *database.GormDB
	geocoder  *geo.Geocoder
	distances *distance.Service
	limits    tier.Limits
}

// NewPlaceHandler creates a new favorite place handler
func NewPlaceHandler(db *database.GormDB, geocoder *geo.Geocoder, distances *distance.Service, limits tier.Limits) *PlaceHandler {
	return &PlaceHandler{
		db:        db,
		geocoder:  geocoder,
		distances: distances,
		limits:    limits,
	}
}

type placeRequest struct {
	Label   string `json:"label" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// List returns the user's favorite places
func (h *PlaceHandler) List(c *gin.Context) {
	userID := auth.UserID(c)

	places, err := h.db.GetFavoritePlaces(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	userTier, err := h.db.EffectiveTier(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"places": places,
		"count":  len(places),
		"limit":  h.limits.FavoritePlaceLimit(userTier),
		"tier":   userTier,
	})
}

// Create adds a favorite place, enforcing the tier capacity limit before the
// insert, then geocodes and refreshes distances to the user's apartments
func (h *PlaceHandler) Create(c *gin.Context) {
	userID := auth.UserID(c)

	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userTier, err := h.db.EffectiveTier(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	count, err := h.db.CountFavoritePlaces(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.limits.CheckFavoritePlaceCapacity(userTier, int(count)); err != nil {
		var capErr *tier.CapacityError
		if errors.As(err, &capErr) {
			c.JSON(http.StatusForbidden, gin.H{"error": capErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	place := &models.FavoritePlace{
		UserID:  userID,
		Label:   req.Label,
		Address: req.Address,
	}

	result := h.geocoder.Geocode(req.Address)
	place.Latitude = result.Latitude
	place.Longitude = result.Longitude

	if err := h.db.CreateFavoritePlace(place); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if place.HasCoordinates() {
		if err := h.distances.RefreshPlace(place); err != nil {
			log.Printf("[places] failed to refresh distances for place %d: %v", place.ID, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"place": place})
}

// Update edits a favorite place. An address change triggers re-geocoding and
// a distance refresh; clearing coordinates clears cached rows.
func (h *PlaceHandler) Update(c *gin.Context) {
	userID := auth.UserID(c)

	id, err := parsePlaceID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place ID"})
		return
	}

	place, err := h.db.GetFavoritePlaceByID(userID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite place not found"})
		return
	}

	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addressChanged := req.Address != place.Address
	place.Label = req.Label

	if addressChanged {
		place.Address = req.Address
		place.Latitude = nil
		place.Longitude = nil

		result := h.geocoder.Geocode(req.Address)
		place.Latitude = result.Latitude
		place.Longitude = result.Longitude
	}

	if err := h.db.SaveFavoritePlace(place); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if addressChanged {
		if err := h.distances.RefreshPlace(place); err != nil {
			log.Printf("[places] failed to refresh distances for place %d: %v", place.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"place": place})
}

// Delete removes a favorite place; cached distance rows go with it
func (h *PlaceHandler) Delete(c *gin.Context) {
	userID := auth.UserID(c)

	id, err := parsePlaceID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place ID"})
		return
	}

	if _, err := h.db.GetFavoritePlaceByID(userID, id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite place not found"})
		return
	}

	if err := h.db.DeleteFavoritePlace(userID, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func parsePlaceID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
