package database

import (
	"errors"

	"rentcompare/internal/models"

	"gorm.io/gorm"
)

// UpsertDistance creates or updates the cached distance for an
// (apartment, favorite place) pair. The composite unique index on the pair
// keeps the at-most-one-row invariant; the upsert itself is idempotent.
func (gdb *GormDB) UpsertDistance(d *models.ApartmentDistance) error {
	var existing models.ApartmentDistance
	result := gdb.db.Where("apartment_id = ? AND favorite_place_id = ?",
		d.ApartmentID, d.FavoritePlaceID).First(&existing)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return gdb.db.Create(d).Error
	} else if result.Error != nil {
		return result.Error
	}

	d.ID = existing.ID
	d.CreatedAt = existing.CreatedAt
	return gdb.db.Save(d).Error
}

// DeleteDistance removes the cached row for one pair, if present
func (gdb *GormDB) DeleteDistance(apartmentID string, placeID uint) error {
	return gdb.db.Where("apartment_id = ? AND favorite_place_id = ?",
		apartmentID, placeID).Delete(&models.ApartmentDistance{}).Error
}

// DeleteDistancesForApartment removes all cached rows for an apartment
func (gdb *GormDB) DeleteDistancesForApartment(apartmentID string) error {
	return gdb.db.Where("apartment_id = ?", apartmentID).Delete(&models.ApartmentDistance{}).Error
}

// DeleteDistancesForPlace removes all cached rows for a favorite place
func (gdb *GormDB) DeleteDistancesForPlace(placeID uint) error {
	return gdb.db.Where("favorite_place_id = ?", placeID).Delete(&models.ApartmentDistance{}).Error
}

// GetDistancesForApartment retrieves all cached rows for one apartment
func (gdb *GormDB) GetDistancesForApartment(apartmentID string) ([]models.ApartmentDistance, error) {
	var distances []models.ApartmentDistance
	err := gdb.db.Where("apartment_id = ?", apartmentID).Find(&distances).Error
	return distances, err
}

// GetDistancesForApartments batch-fetches cached rows for a set of apartments
func (gdb *GormDB) GetDistancesForApartments(apartmentIDs []string) ([]models.ApartmentDistance, error) {
	var distances []models.ApartmentDistance
	err := gdb.db.Where("apartment_id IN ?", apartmentIDs).Find(&distances).Error
	return distances, err
}
