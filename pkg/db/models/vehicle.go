package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is a car listing under negotiation. Owned by exactly one user via
// the deal that references it; immutable after creation except through an
// explicit edit.
type Vehicle struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Year          int       `gorm:"not null"`
	Make          string    `gorm:"type:text;not null"`
	Model         string    `gorm:"type:text;not null"`
	Trim          *string   `gorm:"type:text"`
	VIN           *string   `gorm:"column:vin;type:text"`
	StockNumber   *string   `gorm:"column:stock_number;type:text"`
	Mileage       int       `gorm:"not null;default:0"`
	Condition     *string   `gorm:"type:text"`
	ExteriorColor *string   `gorm:"column:exterior_color;type:text"`
	InteriorColor *string   `gorm:"column:interior_color;type:text"`
	ImageURL      *string   `gorm:"column:image_url;type:text"`
	ListingURL    *string   `gorm:"column:listing_url;type:text"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
