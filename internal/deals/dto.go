package deals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	"github.com/hagglehub/hagglehub-backend/pkg/types"
)

// DealDTO exposes a deal in API responses, including the derived pricing the
// dashboard renders.
type DealDTO struct {
	ID                uuid.UUID           `json:"id"`
	VehicleID         *uuid.UUID          `json:"vehicle_id,omitempty"`
	DealerID          uuid.UUID           `json:"dealer_id"`
	AskingPrice       *decimal.Decimal    `json:"asking_price,omitempty"`
	CurrentOffer      *decimal.Decimal    `json:"current_offer,omitempty"`
	TargetPrice       *decimal.Decimal    `json:"target_price,omitempty"`
	FeesBreakdown     types.FeesBreakdown `json:"fees_breakdown,omitempty"`
	PurchaseType      enums.PurchaseType  `json:"purchase_type"`
	Status            enums.DealStatus    `json:"status"`
	Priority          enums.DealPriority  `json:"priority"`
	QuoteExpires      *time.Time          `json:"quote_expires,omitempty"`
	NegotiationNotes  *string             `json:"negotiation_notes,omitempty"`
	FinalPrice        *decimal.Decimal    `json:"final_price,omitempty"`
	DurationDays      *int                `json:"negotiation_duration_days,omitempty"`
	SharedAnonymously bool                `json:"shared_anonymously"`
	IsFallback        bool                `json:"is_fallback"`
	Savings           decimal.Decimal     `json:"savings"`
	OutTheDoorPrice   decimal.Decimal     `json:"out_the_door_price"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// FromModel maps the persisted deal into a DTO.
func FromModel(m *models.Deal) *DealDTO {
	if m == nil {
		return nil
	}
	return &DealDTO{
		ID:                m.ID,
		VehicleID:         m.VehicleID,
		DealerID:          m.DealerID,
		AskingPrice:       m.AskingPrice,
		CurrentOffer:      m.CurrentOffer,
		TargetPrice:       m.TargetPrice,
		FeesBreakdown:     m.FeesBreakdown,
		PurchaseType:      m.PurchaseType,
		Status:            m.Status,
		Priority:          m.Priority,
		QuoteExpires:      m.QuoteExpires,
		NegotiationNotes:  m.NegotiationNotes,
		FinalPrice:        m.FinalPrice,
		DurationDays:      m.DurationDays,
		SharedAnonymously: m.SharedAnonymously,
		IsFallback:        m.IsFallback,
		Savings:           ComputeSavings(m),
		OutTheDoorPrice:   ComputeOutTheDoorPrice(m),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromModels maps a slice of deals.
func FromModels(rows []models.Deal) []DealDTO {
	dtos := make([]DealDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}

// CreateDealInput holds creation-time data for a new deal.
type CreateDealInput struct {
	VehicleID     *uuid.UUID
	DealerID      uuid.UUID
	AskingPrice   *decimal.Decimal
	CurrentOffer  *decimal.Decimal
	TargetPrice   *decimal.Decimal
	FeesBreakdown types.FeesBreakdown
	PurchaseType  enums.PurchaseType
	Priority      enums.DealPriority
	QuoteExpires  *time.Time
	Notes         *string
	IsFallback    bool
}

// UpdateDealInput captures the allowed deal fields for mutation. Nil fields
// are left untouched.
type UpdateDealInput struct {
	AskingPrice   *decimal.Decimal
	CurrentOffer  *decimal.Decimal
	TargetPrice   *decimal.Decimal
	FeesBreakdown *types.FeesBreakdown
	PurchaseType  *enums.PurchaseType
	Status        *enums.DealStatus
	Priority      *enums.DealPriority
	QuoteExpires  *time.Time
	Notes         *string
}

// offerMutation reports whether the update touches negotiation fields that
// terminal deals no longer accept.
func (in UpdateDealInput) offerMutation() bool {
	return in.AskingPrice != nil ||
		in.CurrentOffer != nil ||
		in.TargetPrice != nil ||
		in.FeesBreakdown != nil ||
		in.PurchaseType != nil ||
		in.Status != nil ||
		in.QuoteExpires != nil
}

// Filter matches deals on equality of the named fields.
type Filter struct {
	DealerID   *uuid.UUID
	VehicleID  *uuid.UUID
	Status     *enums.DealStatus
	ActiveOnly bool
}
