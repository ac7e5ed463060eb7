package models

import "time"

// ApartmentDistance is a cached distance between an apartment and a favorite
// place. At most one row exists per pair; the row is recomputed whenever either
// endpoint's coordinates change and removed when either endpoint loses them.
type ApartmentDistance struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ApartmentID     string `gorm:"type:varchar(36);not null;uniqueIndex:idx_apartment_place,priority:1" json:"apartment_id"`
	FavoritePlaceID uint   `gorm:"not null;uniqueIndex:idx_apartment_place,priority:2" json:"favorite_place_id"`

	DistanceMiles     float64 `gorm:"not null" json:"distance_miles"`
	TravelTimeMinutes *int    `json:"travel_time_minutes,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (ApartmentDistance) TableName() string {
	return "apartment_distances"
}
