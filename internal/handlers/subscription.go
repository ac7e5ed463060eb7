package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rentcompare/internal/auth"
	"rentcompare/internal/database"
	"rentcompare/internal/models"
	"rentcompare/internal/tier"
)

// SubscriptionHandler handles subscription tier queries and changes
type SubscriptionHandler struct {
	db     *database.GormDB
	limits tier.Limits
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(db *database.GormDB, limits tier.Limits) *SubscriptionHandler {
	return &SubscriptionHandler{db: db, limits: limits}
}

// Get returns the user's subscription record, effective tier, and the
// resource limits that tier grants
func (h *SubscriptionHandler) Get(c *gin.Context) {
	userID := auth.UserID(c)

	sub, err := h.db.GetSubscription(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	effective := sub.EffectiveTier()

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"tier":         effective,
		"limits": gin.H{
			"apartments":      h.limits.ApartmentLimit(effective),
			"favorite_places": h.limits.FavoritePlaceLimit(effective),
		},
	})
}

// Upgrade switches the user to the premium tier. Payment processing lives
// outside this service; this records the resulting subscription state.
func (h *SubscriptionHandler) Upgrade(c *gin.Context) {
	userID := auth.UserID(c)

	periodEnd := time.Now().AddDate(0, 1, 0)
	sub := &models.Subscription{
		UserID:           userID,
		Tier:             models.TierPremium,
		Status:           models.SubscriptionStatusActive,
		CurrentPeriodEnd: &periodEnd,
	}

	if err := h.db.UpsertSubscription(sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"tier":         sub.EffectiveTier(),
	})
}

// Cancel marks the subscription canceled. Premium access continues until the
// current period ends; existing data over the free-tier limits is kept but no
// new resources can be added past them.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID := auth.UserID(c)

	sub, err := h.db.GetSubscription(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No subscription to cancel"})
		return
	}

	sub.Status = models.SubscriptionStatusCanceled
	if err := h.db.UpsertSubscription(sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"tier":         sub.EffectiveTier(),
	})
}
