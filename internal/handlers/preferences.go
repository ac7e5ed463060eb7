package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentcompare/internal/auth"
	"rentcompare/internal/database"
	"rentcompare/internal/models"
)

// PreferenceHandler handles comparison weight preferences
type PreferenceHandler struct {
	db *database.GormDB
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(db *database.GormDB) *PreferenceHandler {
	return &PreferenceHandler{db: db}
}

// Get returns the user's preferences, creating defaults when absent
func (h *PreferenceHandler) Get(c *gin.Context) {
	prefs, err := h.db.GetOrCreatePreferences(auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// Update replaces the user's comparison weights and discount basis
func (h *PreferenceHandler) Update(c *gin.Context) {
	var req struct {
		PriceWeight        int    `json:"price_weight" binding:"gte=0,lte=100"`
		PricePerSqftWeight int    `json:"price_per_sqft_weight" binding:"gte=0,lte=100"`
		SqftWeight         int    `json:"sqft_weight" binding:"gte=0,lte=100"`
		DistanceWeight     int    `json:"distance_weight" binding:"gte=0,lte=100"`
		DiscountBasis      string `json:"discount_basis" binding:"omitempty,oneof=monthly weekly daily"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs, err := h.db.GetOrCreatePreferences(auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	prefs.PriceWeight = req.PriceWeight
	prefs.PricePerSqftWeight = req.PricePerSqftWeight
	prefs.SqftWeight = req.SqftWeight
	prefs.DistanceWeight = req.DistanceWeight
	if req.DiscountBasis != "" {
		prefs.DiscountBasis = models.DiscountBasis(req.DiscountBasis)
	}

	if err := h.db.SavePreferences(prefs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
