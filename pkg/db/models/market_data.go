package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hagglehub/hagglehub-backend/pkg/enums"
)

// MarketData is an anonymized record contributed when a deal completes as a
// win and the user opts in. It carries no user, email, or dealer identity;
// mileage is bucketed before storage.
type MarketData struct {
	ID                uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VehicleYear       int                `gorm:"column:vehicle_year;not null"`
	VehicleMake       string             `gorm:"column:vehicle_make;type:text;not null"`
	VehicleModel      string             `gorm:"column:vehicle_model;type:text;not null"`
	VehicleTrim       *string            `gorm:"column:vehicle_trim;type:text"`
	MileageRange      enums.MileageRange `gorm:"column:mileage_range;type:text;not null"`
	PurchaseType      enums.PurchaseType `gorm:"column:purchase_type;type:purchase_type;not null"`
	AskingPrice       decimal.Decimal    `gorm:"column:asking_price;type:numeric(12,2);not null"`
	FinalPrice        decimal.Decimal    `gorm:"column:final_price;type:numeric(12,2);not null"`
	SavingsAmount     decimal.Decimal    `gorm:"column:savings_amount;type:numeric(12,2);not null"`
	SavingsPercentage decimal.Decimal    `gorm:"column:savings_percentage;type:numeric(6,3);not null"`
	DurationDays      int                `gorm:"column:negotiation_duration_days;not null"`
	Region            string             `gorm:"type:text;not null;default:'other'"`
	DealOutcome       enums.DealStatus   `gorm:"column:deal_outcome;type:deal_status;not null"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
}
