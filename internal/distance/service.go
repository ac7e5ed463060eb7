package distance

import (
	"log"
	"math"

	"rentcompare/internal/database"
	"rentcompare/internal/geo"
	"rentcompare/internal/models"
)

// Service maintains the ApartmentDistance cache: at most one row per
// (apartment, favorite place) pair belonging to the same user, recomputed when
// either endpoint's coordinates change and deleted when coordinates are lost.
type Service struct {
	db *database.GormDB
}

// NewService creates a distance cache service
func NewService(db *database.GormDB) *Service {
	return &Service{db: db}
}

// RefreshApartment recomputes cached distances from an apartment to every
// favorite place owned by the same user. Called after the apartment's
// coordinates change. An apartment without coordinates gets its stale rows
// deleted rather than left with outdated values.
func (s *Service) RefreshApartment(apt *models.Apartment) error {
	if !apt.HasCoordinates() {
		log.Printf("[distance] apartment %s has no coordinates, clearing cached rows", apt.ID)
		return s.db.DeleteDistancesForApartment(apt.ID)
	}

	places, err := s.db.GetFavoritePlaces(apt.UserID)
	if err != nil {
		return err
	}

	for _, place := range places {
		if err := s.refreshPair(apt, &place); err != nil {
			return err
		}
	}

	return nil
}

// RefreshPlace recomputes cached distances from a favorite place to every
// apartment owned by the same user. Called after the place's coordinates
// change.
func (s *Service) RefreshPlace(place *models.FavoritePlace) error {
	if !place.HasCoordinates() {
		log.Printf("[distance] place %d (%s) has no coordinates, clearing cached rows", place.ID, place.Label)
		return s.db.DeleteDistancesForPlace(place.ID)
	}

	apartments, err := s.db.GetApartmentsByUser(place.UserID)
	if err != nil {
		return err
	}

	for _, apt := range apartments {
		if err := s.refreshPair(&apt, place); err != nil {
			return err
		}
	}

	return nil
}

// refreshPair upserts one (apartment, place) row, or deletes it when either
// endpoint lacks coordinates
func (s *Service) refreshPair(apt *models.Apartment, place *models.FavoritePlace) error {
	if !apt.HasCoordinates() || !place.HasCoordinates() {
		return s.db.DeleteDistance(apt.ID, place.ID)
	}

	miles := geo.Haversine(*apt.Latitude, *apt.Longitude, *place.Latitude, *place.Longitude)

	err := s.db.UpsertDistance(&models.ApartmentDistance{
		ApartmentID:     apt.ID,
		FavoritePlaceID: place.ID,
		DistanceMiles:   miles,
	})
	if err != nil {
		return err
	}

	log.Printf("[distance] cached %s -> %s = %.2f mi", apt.Name, place.Label, miles)
	return nil
}

// PlaceDistance is one favorite place's distance entry for an apartment.
// Miles is nil when no cached row exists (either endpoint not geocoded).
type PlaceDistance struct {
	PlaceID           uint     `json:"place_id"`
	Label             string   `json:"label"`
	Miles             *float64 `json:"distance_miles"`
	TravelTimeMinutes *int     `json:"travel_time_minutes,omitempty"`
}

// Report lists an apartment's per-place distances and their average.
// AverageMiles is nil when no distances are known.
type Report struct {
	Distances    []PlaceDistance `json:"distances"`
	AverageMiles *float64        `json:"average_miles"`
}

// ApartmentReport returns the apartment's distance to each of the user's
// favorite places, with not-yet-computed pairs reported as null, plus the mean
// of the known distances.
func (s *Service) ApartmentReport(apt *models.Apartment) (*Report, error) {
	places, err := s.db.GetFavoritePlaces(apt.UserID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.GetDistancesForApartment(apt.ID)
	if err != nil {
		return nil, err
	}

	byPlace := make(map[uint]models.ApartmentDistance, len(rows))
	for _, row := range rows {
		byPlace[row.FavoritePlaceID] = row
	}

	report := &Report{Distances: make([]PlaceDistance, 0, len(places))}
	var total float64
	var count int

	for _, place := range places {
		entry := PlaceDistance{PlaceID: place.ID, Label: place.Label}
		if row, ok := byPlace[place.ID]; ok {
			miles := row.DistanceMiles
			entry.Miles = &miles
			entry.TravelTimeMinutes = row.TravelTimeMinutes
			total += miles
			count++
		}
		report.Distances = append(report.Distances, entry)
	}

	if count > 0 {
		avg := math.Round(total/float64(count)*100) / 100
		report.AverageMiles = &avg
	}

	return report, nil
}

// AverageDistances batch-computes the mean known distance per apartment for a
// comparison set. Apartments with no known distances are absent from the map.
func (s *Service) AverageDistances(apartmentIDs []string) (map[string]*float64, error) {
	if len(apartmentIDs) == 0 {
		return map[string]*float64{}, nil
	}

	rows, err := s.db.GetDistancesForApartments(apartmentIDs)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, row := range rows {
		totals[row.ApartmentID] += row.DistanceMiles
		counts[row.ApartmentID]++
	}

	averages := make(map[string]*float64, len(totals))
	for id, total := range totals {
		avg := math.Round(total/float64(counts[id])*100) / 100
		averages[id] = &avg
	}

	return averages, nil
}
