package database

import (
	"errors"

	"rentcompare/internal/models"

	"gorm.io/gorm"
)

// CreateUser inserts a new user record
func (gdb *GormDB) CreateUser(u *models.User) error {
	return gdb.db.Create(u).Error
}

// GetUserByEmail retrieves a user by email address
func (gdb *GormDB) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := gdb.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (gdb *GormDB) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := gdb.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreatePreferences returns the user's preferences, creating a row with
// default equal weights when absent
func (gdb *GormDB) GetOrCreatePreferences(userID string) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := gdb.db.Where("user_id = ?", userID).First(&prefs).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultPreferences(userID)
		if createErr := gdb.db.Create(defaults).Error; createErr != nil {
			return nil, createErr
		}
		return defaults, nil
	} else if err != nil {
		return nil, err
	}

	return &prefs, nil
}

// SavePreferences persists updated preference weights
func (gdb *GormDB) SavePreferences(p *models.UserPreferences) error {
	return gdb.db.Save(p).Error
}

// GetSubscription returns the user's subscription, or nil when the user has
// never subscribed (effective tier: free)
func (gdb *GormDB) GetSubscription(userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := gdb.db.Where("user_id = ?", userID).First(&sub).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return &sub, nil
}

// UpsertSubscription creates or replaces the user's subscription record
// (find-then-save; one row per user)
func (gdb *GormDB) UpsertSubscription(s *models.Subscription) error {
	var existing models.Subscription
	result := gdb.db.Where("user_id = ?", s.UserID).First(&existing)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return gdb.db.Create(s).Error
	} else if result.Error != nil {
		return result.Error
	}

	s.ID = existing.ID
	s.CreatedAt = existing.CreatedAt
	return gdb.db.Save(s).Error
}

// EffectiveTier resolves the user's current tier from their subscription
func (gdb *GormDB) EffectiveTier(userID string) (models.Tier, error) {
	sub, err := gdb.GetSubscription(userID)
	if err != nil {
		return models.TierFree, err
	}
	return sub.EffectiveTier(), nil
}
