package dealers

import (
	"time"

	"github.com/google/uuid"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
)

// DealerDTO exposes a dealer contact in API responses.
type DealerDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      *string   `json:"address,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Website      *string   `json:"website,omitempty"`
	ContactEmail *string   `json:"contact_email,omitempty"`
	SalesRepName *string   `json:"sales_rep_name,omitempty"`
	Rating       *int      `json:"rating,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	IsFallback   bool      `json:"is_fallback"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromModel(m *models.Dealer) *DealerDTO {
	if m == nil {
		return nil
	}
	return &DealerDTO{
		ID:           m.ID,
		Name:         m.Name,
		Address:      m.Address,
		Phone:        m.Phone,
		Website:      m.Website,
		ContactEmail: m.ContactEmail,
		SalesRepName: m.SalesRepName,
		Rating:       m.Rating,
		Notes:        m.Notes,
		IsFallback:   m.IsFallback,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func FromModels(rows []models.Dealer) []DealerDTO {
	dtos := make([]DealerDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}

// CreateDealerInput holds creation-time data for a dealer contact.
type CreateDealerInput struct {
	Name         string
	Address      *string
	Phone        *string
	Website      *string
	ContactEmail *string
	SalesRepName *string
	Rating       *int
	Notes        *string
	IsFallback   bool
}

// UpdateDealerInput captures mutable dealer fields. Nil fields are left
// untouched.
type UpdateDealerInput struct {
	Name         *string
	Address      *string
	Phone        *string
	Website      *string
	ContactEmail *string
	SalesRepName *string
	Rating       *int
	Notes        *string
}
