package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"rentcompare/internal/config"
	"rentcompare/internal/database"
	"rentcompare/internal/distance"
	"rentcompare/internal/geo"
	"rentcompare/internal/models"
)

// Scheduler retries failed geocoding on a daily cron. Apartments and favorite
// places keep null coordinates after a geocoding failure; this job re-resolves
// them and refreshes the distance cache for any that succeed.
type Scheduler struct {
	cron      *cron.Cron
	db        *database.GormDB
	geocoder  *geo.Geocoder
	distances *distance.Service
	config    *config.Config
	isRunning bool
}

// NewScheduler creates a new scheduler
func NewScheduler(db *database.GormDB, geocoder *geo.Geocoder, distances *distance.Service, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		db:        db,
		geocoder:  geocoder,
		distances: distances,
		config:    cfg,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Scheduler.DailyRunEnabled {
		log.Println("Scheduler: Daily run is disabled in configuration")
		return nil
	}

	cronSpec := s.parseDailyRunTime(s.config.Scheduler.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: Starting geocoding retry job...")
		if err := s.runGeocodeRetry(); err != nil {
			log.Printf("Scheduler: Geocoding retry failed: %v", err)
		} else {
			log.Println("Scheduler: Geocoding retry completed successfully")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started with daily run at %s (cron: %s)", s.config.Scheduler.DailyRunTime, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// runGeocodeRetry re-geocodes rows that have an address but no coordinates
func (s *Scheduler) runGeocodeRetry() error {
	var apartments []models.Apartment
	err := s.db.DB().
		Where("address != '' AND (latitude IS NULL OR longitude IS NULL)").
		Find(&apartments).Error
	if err != nil {
		return err
	}

	var places []models.FavoritePlace
	err = s.db.DB().
		Where("address != '' AND (latitude IS NULL OR longitude IS NULL)").
		Find(&places).Error
	if err != nil {
		return err
	}

	log.Printf("Scheduler: Found %d apartments and %d places awaiting geocoding", len(apartments), len(places))

	resolvedCount := 0
	skippedCount := 0

	for i := range apartments {
		apt := &apartments[i]
		result := s.geocoder.Geocode(apt.Address)
		if !result.Success() {
			skippedCount++
			continue
		}

		apt.Latitude = result.Latitude
		apt.Longitude = result.Longitude
		if err := s.db.SaveApartment(apt); err != nil {
			log.Printf("Scheduler: Failed to save apartment %s: %v", apt.ID, err)
			continue
		}
		if err := s.distances.RefreshApartment(apt); err != nil {
			log.Printf("Scheduler: Failed to refresh distances for apartment %s: %v", apt.ID, err)
		}
		resolvedCount++
	}

	for i := range places {
		place := &places[i]
		result := s.geocoder.Geocode(place.Address)
		if !result.Success() {
			skippedCount++
			continue
		}

		place.Latitude = result.Latitude
		place.Longitude = result.Longitude
		if err := s.db.SaveFavoritePlace(place); err != nil {
			log.Printf("Scheduler: Failed to save place %d: %v", place.ID, err)
			continue
		}
		if err := s.distances.RefreshPlace(place); err != nil {
			log.Printf("Scheduler: Failed to refresh distances for place %d: %v", place.ID, err)
		}
		resolvedCount++
	}

	log.Printf("Scheduler: Geocoding retry completed. Resolved: %d, Still unresolved: %d", resolvedCount, skippedCount)

	return nil
}

// RunNow immediately executes the geocoding retry job (for manual trigger)
func (s *Scheduler) RunNow() error {
	log.Println("Scheduler: Manual trigger - starting geocoding retry job...")
	return s.runGeocodeRetry()
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "03:00" -> "0 3 * * *" (run at 3:00 AM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	// Default to 3:00 AM if parsing fails
	log.Printf("Scheduler: Failed to parse time '%s', using default 03:00", timeStr)
	return "0 3 * * *"
}
