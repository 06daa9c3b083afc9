package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

type marketDataRepo interface {
	Create(ctx context.Context, row *models.MarketData) error
	List(ctx context.Context, filter Filter) ([]models.MarketData, error)
}

// RecordDTO exposes one anonymized market outcome.
type RecordDTO struct {
	ID                uuid.UUID          `json:"id"`
	VehicleYear       int                `json:"vehicle_year"`
	VehicleMake       string             `json:"vehicle_make"`
	VehicleModel      string             `json:"vehicle_model"`
	VehicleTrim       *string            `json:"vehicle_trim,omitempty"`
	MileageRange      enums.MileageRange `json:"mileage_range"`
	PurchaseType      enums.PurchaseType `json:"purchase_type"`
	AskingPrice       decimal.Decimal    `json:"asking_price"`
	FinalPrice        decimal.Decimal    `json:"final_price"`
	SavingsAmount     decimal.Decimal    `json:"savings_amount"`
	SavingsPercentage decimal.Decimal    `json:"savings_percentage"`
	DurationDays      int                `json:"negotiation_duration_days"`
	Region            string             `json:"region"`
	CreatedAt         time.Time          `json:"created_at"`
}

// Summary aggregates the matching records for the insights view.
type Summary struct {
	SampleSize        int             `json:"sample_size"`
	AvgSavingsAmount  decimal.Decimal `json:"avg_savings_amount"`
	AvgSavingsPercent decimal.Decimal `json:"avg_savings_percent"`
	AvgDurationDays   decimal.Decimal `json:"avg_duration_days"`
}

// InsightsDTO is the market insights payload: recent comparable outcomes plus
// their aggregate.
type InsightsDTO struct {
	Records []RecordDTO `json:"records"`
	Summary Summary     `json:"summary"`
}

// Service serves the community market insights read model.
type Service struct {
	repo marketDataRepo
}

func NewService(repo marketDataRepo) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("marketdata: repo is required")
	}
	return &Service{repo: repo}, nil
}

// Create records one anonymized outcome. Called from deal completion.
func (s *Service) Create(ctx context.Context, row *models.MarketData) error {
	return s.repo.Create(ctx, row)
}

// Insights returns comparable outcomes and their aggregate for the filter.
func (s *Service) Insights(ctx context.Context, filter Filter) (*InsightsDTO, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to query market data")
	}

	dto := &InsightsDTO{
		Records: make([]RecordDTO, 0, len(rows)),
		Summary: Summarize(rows),
	}
	for i := range rows {
		dto.Records = append(dto.Records, fromModel(&rows[i]))
	}
	return dto, nil
}

// Summarize computes the aggregate over a record set. Empty input produces a
// zeroed summary rather than an error.
func Summarize(rows []models.MarketData) Summary {
	if len(rows) == 0 {
		return Summary{}
	}

	var savings, percent, duration decimal.Decimal
	for i := range rows {
		savings = savings.Add(rows[i].SavingsAmount)
		percent = percent.Add(rows[i].SavingsPercentage)
		duration = duration.Add(decimal.NewFromInt(int64(rows[i].DurationDays)))
	}
	n := decimal.NewFromInt(int64(len(rows)))

	return Summary{
		SampleSize:        len(rows),
		AvgSavingsAmount:  savings.Div(n).Round(2),
		AvgSavingsPercent: percent.Div(n).Round(3),
		AvgDurationDays:   duration.Div(n).Round(1),
	}
}

func fromModel(m *models.MarketData) RecordDTO {
	return RecordDTO{
		ID:                m.ID,
		VehicleYear:       m.VehicleYear,
		VehicleMake:       m.VehicleMake,
		VehicleModel:      m.VehicleModel,
		VehicleTrim:       m.VehicleTrim,
		MileageRange:      m.MileageRange,
		PurchaseType:      m.PurchaseType,
		AskingPrice:       m.AskingPrice,
		FinalPrice:        m.FinalPrice,
		SavingsAmount:     m.SavingsAmount,
		SavingsPercentage: m.SavingsPercentage,
		DurationDays:      m.DurationDays,
		Region:            m.Region,
		CreatedAt:         m.CreatedAt,
	}
}
