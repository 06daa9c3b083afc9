package messages

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
)

// MessageDTO exposes one communication event in API responses.
type MessageDTO struct {
	ID             uuid.UUID              `json:"id"`
	DealID         uuid.UUID              `json:"deal_id"`
	DealerID       uuid.UUID              `json:"dealer_id"`
	Content        string                 `json:"content"`
	Subject        *string                `json:"subject,omitempty"`
	Recipient      *string                `json:"recipient,omitempty"`
	Direction      enums.MessageDirection `json:"direction"`
	Channel        enums.MessageChannel   `json:"channel"`
	IsRead         bool                   `json:"is_read"`
	ContainsOffer  bool                   `json:"contains_offer"`
	ExtractedPrice *decimal.Decimal       `json:"extracted_price,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

func FromModel(m *models.Message) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:             m.ID,
		DealID:         m.DealID,
		DealerID:       m.DealerID,
		Content:        m.Content,
		Subject:        m.Subject,
		Recipient:      m.Recipient,
		Direction:      m.Direction,
		Channel:        m.Channel,
		IsRead:         m.IsRead,
		ContainsOffer:  m.ContainsOffer,
		ExtractedPrice: m.ExtractedPrice,
		CreatedAt:      m.CreatedAt,
	}
}

func FromModels(rows []models.Message) []MessageDTO {
	dtos := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}

// CreateMessageInput records a message on a deal thread. Outbound messages
// are the user's own; inbound ones are logged dealer replies and get scanned
// for an offer price.
type CreateMessageInput struct {
	DealID    uuid.UUID
	Content   string
	Subject   *string
	Recipient *string
	Direction enums.MessageDirection
	Channel   enums.MessageChannel
}

// Filter matches messages on equality of the named fields.
type Filter struct {
	DealID   *uuid.UUID
	DealerID *uuid.UUID
	IsRead   *bool
}
