package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentcompare/internal/database"
	"rentcompare/internal/models"
	"rentcompare/internal/ratelimit"
	"rentcompare/internal/scheduler"
)

// AdminHandler handles operational endpoints: system stats, geocoding
// backlog, and the manual retry trigger
type AdminHandler struct {
	db        *database.GormDB
	scheduler *scheduler.Scheduler
	limiter   *ratelimit.RateLimiter
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *database.GormDB, sched *scheduler.Scheduler, limiter *ratelimit.RateLimiter) *AdminHandler {
	return &AdminHandler{
		db:        db,
		scheduler: sched,
		limiter:   limiter,
	}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})

	var userCount, apartmentCount, placeCount, distanceCount int64
	h.db.DB().Model(&models.User{}).Count(&userCount)
	h.db.DB().Model(&models.Apartment{}).Count(&apartmentCount)
	h.db.DB().Model(&models.FavoritePlace{}).Count(&placeCount)
	h.db.DB().Model(&models.ApartmentDistance{}).Count(&distanceCount)

	stats["entities"] = map[string]interface{}{
		"users":            userCount,
		"apartments":       apartmentCount,
		"favorite_places":  placeCount,
		"cached_distances": distanceCount,
	}

	// Rows with an address but no coordinates are the geocoding backlog
	var apartmentBacklog, placeBacklog int64
	h.db.DB().Model(&models.Apartment{}).
		Where("address != '' AND (latitude IS NULL OR longitude IS NULL)").
		Count(&apartmentBacklog)
	h.db.DB().Model(&models.FavoritePlace{}).
		Where("address != '' AND (latitude IS NULL OR longitude IS NULL)").
		Count(&placeBacklog)

	stats["geocoding_backlog"] = map[string]interface{}{
		"apartments":      apartmentBacklog,
		"favorite_places": placeBacklog,
	}

	var premiumCount int64
	h.db.DB().Model(&models.Subscription{}).
		Where("tier = ? AND status = ?", models.TierPremium, models.SubscriptionStatusActive).
		Count(&premiumCount)
	stats["subscriptions"] = map[string]interface{}{
		"active_premium": premiumCount,
	}

	if h.limiter != nil {
		stats["geocoding_rate_limit"] = h.limiter.GetStats()
	}

	c.JSON(http.StatusOK, stats)
}

// TriggerGeocodeRetry manually triggers the geocoding retry job
func (h *AdminHandler) TriggerGeocodeRetry(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Scheduler not available",
		})
		return
	}

	log.Println("Admin: Manual geocoding retry requested")

	// Run in goroutine to avoid blocking
	go func() {
		if err := h.scheduler.RunNow(); err != nil {
			log.Printf("Admin: Manual geocoding retry failed: %v", err)
		} else {
			log.Println("Admin: Manual geocoding retry completed successfully")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Geocoding retry started",
		"status":  "running",
	})
}
