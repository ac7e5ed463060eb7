package models

import "time"

// FavoritePlace is a user-defined point of interest (e.g. "Work") used as a
// distance reference when comparing apartments
type FavoritePlace struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Label  string `gorm:"type:varchar(100);not null" json:"label"`

	Address   string   `gorm:"type:varchar(500);not null" json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (FavoritePlace) TableName() string {
	return "favorite_places"
}

// HasCoordinates reports whether the place has been geocoded
func (p *FavoritePlace) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}
