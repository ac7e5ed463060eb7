package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rentcompare/internal/auth"
	"rentcompare/internal/database"
	"rentcompare/internal/distance"
	"rentcompare/internal/geo"
	"rentcompare/internal/models"
	"rentcompare/internal/scoring"
	"rentcompare/internal/search"
	"rentcompare/internal/tier"
)

// ApartmentHandler handles apartment CRUD and distance queries
type ApartmentHandler struct {
	db        *database.GormDB
	geocoder  *geo.Geocoder
	distances *distance.Service
	search    *search.SearchClient // nil when search is disabled
	limits    tier.Limits
}

// NewApartmentHandler creates a new apartment handler
func NewApartmentHandler(db *database.GormDB, geocoder *geo.Geocoder, distances *distance.Service, searchClient *search.SearchClient, limits tier.Limits) *ApartmentHandler {
	return &ApartmentHandler{
		db:        db,
		geocoder:  geocoder,
		distances: distances,
		search:    searchClient,
		limits:    limits,
	}
}

type apartmentRequest struct {
	Name            string  `json:"name" binding:"required"`
	Rent            float64 `json:"rent" binding:"required,gt=0"`
	SquareFootage   int     `json:"square_footage" binding:"gte=0"`
	LeaseTermMonths int     `json:"lease_term_months" binding:"gte=0"`
	MonthsFree      int     `json:"months_free" binding:"gte=0"`
	WeeksFree       int     `json:"weeks_free" binding:"gte=0"`
	FlatDiscount    float64 `json:"flat_discount" binding:"gte=0"`
	Address         string  `json:"address"`
}

// List returns the user's apartments with derived pricing figures
func (h *ApartmentHandler) List(c *gin.Context) {
	userID := auth.UserID(c)

	apartments, err := h.db.GetApartmentsByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	prefs, err := h.db.GetOrCreatePreferences(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"apartments": h.withPricing(apartments, prefs.DiscountBasis),
		"count":      len(apartments),
	})
}

// Get returns one apartment with derived pricing figures
func (h *ApartmentHandler) Get(c *gin.Context) {
	userID := auth.UserID(c)

	apartment, err := h.db.GetApartmentByID(userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Apartment not found"})
		return
	}

	prefs, err := h.db.GetOrCreatePreferences(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.pricingView(*apartment, prefs.DiscountBasis))
}

// Create adds a new apartment, geocoding its address when present.
// Free-tier users are capped by the apartment limit.
func (h *ApartmentHandler) Create(c *gin.Context) {
	userID := auth.UserID(c)

	var req apartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userTier, err := h.db.EffectiveTier(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	count, err := h.db.CountApartments(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.limits.CheckApartmentCapacity(userTier, int(count)); err != nil {
		var capErr *tier.CapacityError
		if errors.As(err, &capErr) {
			c.JSON(http.StatusForbidden, gin.H{"error": capErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	apartment := &models.Apartment{
		ID:              uuid.NewString(),
		UserID:          userID,
		Name:            req.Name,
		Rent:            req.Rent,
		SquareFootage:   req.SquareFootage,
		LeaseTermMonths: req.LeaseTermMonths,
		MonthsFree:      req.MonthsFree,
		WeeksFree:       req.WeeksFree,
		FlatDiscount:    req.FlatDiscount,
		Address:         req.Address,
	}

	if req.Address != "" {
		result := h.geocoder.Geocode(req.Address)
		apartment.Latitude = result.Latitude
		apartment.Longitude = result.Longitude
	}

	if err := h.db.CreateApartment(apartment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if apartment.HasCoordinates() {
		if err := h.distances.RefreshApartment(apartment); err != nil {
			log.Printf("[apartments] failed to refresh distances for %s: %v", apartment.ID, err)
		}
	}

	h.indexApartment(apartment)

	c.JSON(http.StatusCreated, gin.H{"apartment": apartment})
}

// Update edits an apartment. An address change triggers re-geocoding and a
// distance cache refresh; clearing the address clears cached rows.
func (h *ApartmentHandler) Update(c *gin.Context) {
	userID := auth.UserID(c)

	apartment, err := h.db.GetApartmentByID(userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Apartment not found"})
		return
	}

	var req apartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addressChanged := req.Address != apartment.Address

	apartment.Name = req.Name
	apartment.Rent = req.Rent
	apartment.SquareFootage = req.SquareFootage
	apartment.LeaseTermMonths = req.LeaseTermMonths
	apartment.MonthsFree = req.MonthsFree
	apartment.WeeksFree = req.WeeksFree
	apartment.FlatDiscount = req.FlatDiscount

	if addressChanged {
		apartment.Address = req.Address
		apartment.Latitude = nil
		apartment.Longitude = nil
		if req.Address != "" {
			result := h.geocoder.Geocode(req.Address)
			apartment.Latitude = result.Latitude
			apartment.Longitude = result.Longitude
		}
	}

	if err := h.db.SaveApartment(apartment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if addressChanged {
		if err := h.distances.RefreshApartment(apartment); err != nil {
			log.Printf("[apartments] failed to refresh distances for %s: %v", apartment.ID, err)
		}
	}

	h.indexApartment(apartment)

	c.JSON(http.StatusOK, gin.H{"apartment": apartment})
}

// Delete removes an apartment; cached distance rows go with it
func (h *ApartmentHandler) Delete(c *gin.Context) {
	userID := auth.UserID(c)
	id := c.Param("id")

	if _, err := h.db.GetApartmentByID(userID, id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Apartment not found"})
		return
	}

	if err := h.db.DeleteApartment(userID, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.search != nil {
		if err := h.search.RemoveApartment(id); err != nil {
			log.Printf("[search] failed to remove apartment %s from index: %v", id, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// GetDistances returns an apartment's per-place distances and their average.
// Pairs without coordinates on both ends are reported as null, not errors.
func (h *ApartmentHandler) GetDistances(c *gin.Context) {
	userID := auth.UserID(c)

	apartment, err := h.db.GetApartmentByID(userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Apartment not found"})
		return
	}

	report, err := h.distances.ApartmentReport(apartment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"apartment_id":  apartment.ID,
		"distances":     report.Distances,
		"average_miles": report.AverageMiles,
	})
}

// Search returns the user's apartments matching a name/address query
func (h *ApartmentHandler) Search(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not enabled"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter q"})
		return
	}

	apartments, err := h.search.Search(auth.UserID(c), query, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"apartments": apartments,
		"count":      len(apartments),
	})
}

// apartmentView is an apartment plus its derived pricing figures
type apartmentView struct {
	models.Apartment
	NetEffectiveRent float64  `json:"net_effective_rent"`
	PricePerSqft     *float64 `json:"price_per_sqft"`
}

func (h *ApartmentHandler) pricingView(apt models.Apartment, basis models.DiscountBasis) apartmentView {
	net := scoring.NetEffectiveRentFor(&apt, basis)
	return apartmentView{
		Apartment:        apt,
		NetEffectiveRent: net,
		PricePerSqft:     scoring.PricePerSqft(net, apt.SquareFootage),
	}
}

func (h *ApartmentHandler) withPricing(apartments []models.Apartment, basis models.DiscountBasis) []apartmentView {
	views := make([]apartmentView, 0, len(apartments))
	for _, apt := range apartments {
		views = append(views, h.pricingView(apt, basis))
	}
	return views
}

func (h *ApartmentHandler) indexApartment(apt *models.Apartment) {
	if h.search == nil {
		return
	}
	if err := h.search.IndexApartment(apt); err != nil {
		log.Printf("[search] failed to index apartment %s: %v", apt.ID, err)
	}
}
