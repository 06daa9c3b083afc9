package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hagglehub/hagglehub-backend/pkg/enums"
)

// Message is one communication event within a deal/dealer thread. Inbound
// bodies are scanned on create for a dollar amount to populate
// extracted_price and contains_offer. Never deleted outside account erasure.
type Message struct {
	ID             uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID              `gorm:"type:uuid;not null;index"`
	DealID         uuid.UUID              `gorm:"type:uuid;not null;index"`
	DealerID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	Content        string                 `gorm:"type:text;not null"`
	Subject        *string                `gorm:"type:text"`
	Recipient      *string                `gorm:"type:text"`
	Direction      enums.MessageDirection `gorm:"type:message_direction;not null"`
	Channel        enums.MessageChannel   `gorm:"type:message_channel;not null;default:'app'"`
	IsRead         bool                   `gorm:"column:is_read;not null;default:false"`
	ContainsOffer  bool                   `gorm:"column:contains_offer;not null;default:false"`
	ExtractedPrice *decimal.Decimal       `gorm:"column:extracted_price;type:numeric(12,2)"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
}
