package database

import (
	"rentcompare/internal/models"

	"gorm.io/gorm"
)

// GetFavoritePlaces retrieves all of a user's favorite places ordered by label
func (gdb *GormDB) GetFavoritePlaces(userID string) ([]models.FavoritePlace, error) {
	var places []models.FavoritePlace
	err := gdb.db.Where("user_id = ?", userID).Order("label ASC").Find(&places).Error
	return places, err
}

// GetFavoritePlaceByID retrieves one favorite place scoped to its owning user
func (gdb *GormDB) GetFavoritePlaceByID(userID string, id uint) (*models.FavoritePlace, error) {
	var place models.FavoritePlace
	err := gdb.db.Where("user_id = ? AND id = ?", userID, id).First(&place).Error
	if err != nil {
		return nil, err
	}
	return &place, nil
}

// CountFavoritePlaces returns how many favorite places the user currently has
func (gdb *GormDB) CountFavoritePlaces(userID string) (int64, error) {
	var count int64
	err := gdb.db.Model(&models.FavoritePlace{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CreateFavoritePlace inserts a new favorite place. Tier capacity must be
// checked by the caller before this insert; the check-then-act window is not
// transactionally guarded (single-user, low-frequency mutation).
func (gdb *GormDB) CreateFavoritePlace(p *models.FavoritePlace) error {
	return gdb.db.Create(p).Error
}

// SaveFavoritePlace persists an updated favorite place
func (gdb *GormDB) SaveFavoritePlace(p *models.FavoritePlace) error {
	return gdb.db.Save(p).Error
}

// DeleteFavoritePlace removes a place and its cached distance rows in one
// transaction
func (gdb *GormDB) DeleteFavoritePlace(userID string, id uint) error {
	return gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("favorite_place_id = ?", id).Delete(&models.ApartmentDistance{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND id = ?", userID, id).Delete(&models.FavoritePlace{}).Error
	})
}
