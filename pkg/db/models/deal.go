package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	"github.com/hagglehub/hagglehub-backend/pkg/types"
)

// Deal is one negotiation thread for one vehicle with one dealer. Terminal
// statuses stop offer mutation; notes remain editable for record-keeping.
type Deal struct {
	ID                uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID           `gorm:"type:uuid;not null;index"`
	VehicleID         *uuid.UUID          `gorm:"type:uuid;index"`
	DealerID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	AskingPrice       *decimal.Decimal    `gorm:"column:asking_price;type:numeric(12,2)"`
	CurrentOffer      *decimal.Decimal    `gorm:"column:current_offer;type:numeric(12,2)"`
	TargetPrice       *decimal.Decimal    `gorm:"column:target_price;type:numeric(12,2)"`
	FeesBreakdown     types.FeesBreakdown `gorm:"column:fees_breakdown;type:jsonb"`
	PurchaseType      enums.PurchaseType  `gorm:"type:purchase_type;not null;default:'cash'"`
	Status            enums.DealStatus    `gorm:"type:deal_status;not null;default:'quote_requested'"`
	Priority          enums.DealPriority  `gorm:"type:deal_priority;not null;default:'medium'"`
	QuoteExpires      *time.Time          `gorm:"column:quote_expires;type:timestamptz"`
	NegotiationNotes  *string             `gorm:"column:negotiation_notes;type:text"`
	FinalPrice        *decimal.Decimal    `gorm:"column:final_price;type:numeric(12,2)"`
	DurationDays      *int                `gorm:"column:negotiation_duration_days"`
	SharedAnonymously bool                `gorm:"column:shared_anonymously;not null;default:false"`
	IsFallback        bool                `gorm:"column:is_fallback;not null;default:false"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
