package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rentcompare/internal/auth"
	"rentcompare/internal/database"
	"rentcompare/internal/distance"
	"rentcompare/internal/models"
	"rentcompare/internal/scoring"
)

// CompareHandler computes weighted comparison scores across a set of the
// user's apartments. Scores are normalized relative to the compared set and
// recomputed on every request; they are never persisted as a ranking.
type CompareHandler struct {
	db        *database.GormDB
	distances *distance.Service
}

// NewCompareHandler creates a new comparison handler
func NewCompareHandler(db *database.GormDB, distances *distance.Service) *CompareHandler {
	return &CompareHandler{db: db, distances: distances}
}

// comparedApartment is one row of the comparison response
type comparedApartment struct {
	Apartment        models.Apartment `json:"apartment"`
	NetEffectiveRent float64          `json:"net_effective_rent"`
	PricePerSqft     *float64         `json:"price_per_sqft"`
	AverageDistance  *float64         `json:"average_distance_miles"`
	Score            *float64         `json:"score"`
	Factors          []scoring.Factor `json:"factors,omitempty"`
}

// Compare scores the user's apartments (all of them, or the subset named by
// the ids query parameter) against each other
func (h *CompareHandler) Compare(c *gin.Context) {
	userID := auth.UserID(c)

	var apartments []models.Apartment
	var err error

	if idsParam := c.Query("ids"); idsParam != "" {
		apartments, err = h.db.GetApartmentsByIDs(userID, strings.Split(idsParam, ","))
	} else {
		apartments, err = h.db.GetApartmentsByUser(userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	prefs, err := h.db.GetOrCreatePreferences(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ids := make([]string, 0, len(apartments))
	for _, apt := range apartments {
		ids = append(ids, apt.ID)
	}

	averages, err := h.distances.AverageDistances(ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	inputs := make([]scoring.Input, 0, len(apartments))
	for _, apt := range apartments {
		net := scoring.NetEffectiveRentFor(&apt, prefs.DiscountBasis)
		inputs = append(inputs, scoring.Input{
			ID:           apt.ID,
			Rent:         apt.Rent,
			NetRent:      net,
			PricePerSqft: scoring.PricePerSqft(net, apt.SquareFootage),
			Sqft:         apt.SquareFootage,
			AvgDistance:  averages[apt.ID],
		})
	}

	weights := scoring.Weights{
		Price:        prefs.PriceWeight,
		PricePerSqft: prefs.PricePerSqftWeight,
		Sqft:         prefs.SqftWeight,
		Distance:     prefs.DistanceWeight,
	}

	results := scoring.Score(inputs, weights)

	byID := make(map[string]scoring.Result, len(results))
	for _, r := range results {
		byID[r.ID] = r
	}

	compared := make([]comparedApartment, 0, len(apartments))
	for i, apt := range apartments {
		row := comparedApartment{
			Apartment:        apt,
			NetEffectiveRent: inputs[i].NetRent,
			PricePerSqft:     inputs[i].PricePerSqft,
			AverageDistance:  inputs[i].AvgDistance,
		}
		if r, ok := byID[apt.ID]; ok {
			score := r.Score
			row.Score = &score
			row.Factors = r.Factors
		}
		compared = append(compared, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"apartments": compared,
		"count":      len(compared),
		// Scores are relative to this compared set, not a stable scale
		"relative": true,
	})
}
