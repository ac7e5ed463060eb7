package models

import "time"

// Apartment is a rental listing entered by a user for comparison
type Apartment struct {
	ID     string `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID string `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_user_name,priority:1" json:"user_id"`
	Name   string `gorm:"type:varchar(200);not null;uniqueIndex:idx_user_name,priority:2" json:"name"`

	// Pricing and lease terms
	Rent            float64 `gorm:"not null" json:"rent"`
	SquareFootage   int     `gorm:"not null;default:0" json:"square_footage"`
	LeaseTermMonths int     `gorm:"not null;default:0" json:"lease_term_months"`

	// Discount terms
	MonthsFree   int     `gorm:"not null;default:0" json:"months_free"`
	WeeksFree    int     `gorm:"not null;default:0" json:"weeks_free"`
	FlatDiscount float64 `gorm:"not null;default:0" json:"flat_discount"`

	// Location; coordinates stay null until geocoding succeeds
	Address   string   `gorm:"type:varchar(500)" json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_apartments_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Apartment) TableName() string {
	return "apartments"
}

// HasCoordinates reports whether the apartment has been geocoded
func (a *Apartment) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}
