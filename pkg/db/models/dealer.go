package models

import (
	"time"

	"github.com/google/uuid"
)

// Dealer is the selling counterparty. Each user owns one distinguished
// fallback dealer that absorbs inbound messages not yet matched to a real
// negotiation.
type Dealer struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:text;not null"`
	Address      *string   `gorm:"type:text"`
	Phone        *string   `gorm:"type:text"`
	Website      *string   `gorm:"type:text"`
	ContactEmail *string   `gorm:"column:contact_email;type:text"`
	SalesRepName *string   `gorm:"column:sales_rep_name;type:text"`
	Rating       *int      `gorm:"check:rating IS NULL OR (rating >= 1 AND rating <= 5)"`
	Notes        *string   `gorm:"type:text"`
	IsFallback   bool      `gorm:"column:is_fallback;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
