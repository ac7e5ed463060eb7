package database

import (
	"rentcompare/internal/models"

	"gorm.io/gorm"
)

// GetApartmentsByUser retrieves all of a user's apartments, newest first
func (gdb *GormDB) GetApartmentsByUser(userID string) ([]models.Apartment, error) {
	var apartments []models.Apartment
	err := gdb.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&apartments).Error
	return apartments, err
}

// GetApartmentsByIDs retrieves a user's apartments matching the given IDs,
// preserving creation order
func (gdb *GormDB) GetApartmentsByIDs(userID string, ids []string) ([]models.Apartment, error) {
	var apartments []models.Apartment
	err := gdb.db.Where("user_id = ? AND id IN ?", userID, ids).Order("created_at DESC").Find(&apartments).Error
	return apartments, err
}

// GetApartmentByID retrieves one apartment scoped to its owning user
func (gdb *GormDB) GetApartmentByID(userID, id string) (*models.Apartment, error) {
	var apartment models.Apartment
	err := gdb.db.Where("user_id = ? AND id = ?", userID, id).First(&apartment).Error
	if err != nil {
		return nil, err
	}
	return &apartment, nil
}

// CountApartments returns how many apartments the user currently has
func (gdb *GormDB) CountApartments(userID string) (int64, error) {
	var count int64
	err := gdb.db.Model(&models.Apartment{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CreateApartment inserts a new apartment
func (gdb *GormDB) CreateApartment(a *models.Apartment) error {
	return gdb.db.Create(a).Error
}

// SaveApartment persists an updated apartment
func (gdb *GormDB) SaveApartment(a *models.Apartment) error {
	return gdb.db.Save(a).Error
}

// DeleteApartment removes an apartment and its cached distance rows in one
// transaction (cascade per the distance-cache invariant)
func (gdb *GormDB) DeleteApartment(userID, id string) error {
	return gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("apartment_id = ?", id).Delete(&models.ApartmentDistance{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND id = ?", userID, id).Delete(&models.Apartment{}).Error
	})
}
