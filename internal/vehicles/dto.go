package vehicles

import (
	"time"

	"github.com/google/uuid"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
)

// VehicleDTO exposes a tracked vehicle in API responses.
type VehicleDTO struct {
	ID            uuid.UUID `json:"id"`
	Year          int       `json:"year"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	Trim          *string   `json:"trim,omitempty"`
	VIN           *string   `json:"vin,omitempty"`
	StockNumber   *string   `json:"stock_number,omitempty"`
	Mileage       int       `json:"mileage"`
	Condition     *string   `json:"condition,omitempty"`
	ExteriorColor *string   `json:"exterior_color,omitempty"`
	InteriorColor *string   `json:"interior_color,omitempty"`
	ImageURL      *string   `json:"image_url,omitempty"`
	ListingURL    *string   `json:"listing_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromModel(m *models.Vehicle) *VehicleDTO {
	if m == nil {
		return nil
	}
	return &VehicleDTO{
		ID:            m.ID,
		Year:          m.Year,
		Make:          m.Make,
		Model:         m.Model,
		Trim:          m.Trim,
		VIN:           m.VIN,
		StockNumber:   m.StockNumber,
		Mileage:       m.Mileage,
		Condition:     m.Condition,
		ExteriorColor: m.ExteriorColor,
		InteriorColor: m.InteriorColor,
		ImageURL:      m.ImageURL,
		ListingURL:    m.ListingURL,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func FromModels(rows []models.Vehicle) []VehicleDTO {
	dtos := make([]VehicleDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}

// CreateVehicleInput holds creation-time data for a vehicle.
type CreateVehicleInput struct {
	Year          int
	Make          string
	Model         string
	Trim          *string
	VIN           *string
	StockNumber   *string
	Mileage       int
	Condition     *string
	ExteriorColor *string
	InteriorColor *string
	ImageURL      *string
	ListingURL    *string
}

// UpdateVehicleInput captures mutable vehicle fields. Nil fields are left
// untouched.
type UpdateVehicleInput struct {
	Year          *int
	Make          *string
	Model         *string
	Trim          *string
	VIN           *string
	StockNumber   *string
	Mileage       *int
	Condition     *string
	ExteriorColor *string
	InteriorColor *string
	ImageURL      *string
	ListingURL    *string
}
