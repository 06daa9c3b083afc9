package marketdata

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
)

type stubMarketDataRepo struct {
	rows []models.MarketData
	err  error
}

func (s *stubMarketDataRepo) Create(_ context.Context, _ *models.MarketData) error {
	return s.err
}

func (s *stubMarketDataRepo) List(_ context.Context, _ Filter) ([]models.MarketData, error) {
	return s.rows, s.err
}

func record(savings, percent string, days int) models.MarketData {
	return models.MarketData{
		VehicleYear:       2024,
		VehicleMake:       "Toyota",
		VehicleModel:      "Camry",
		SavingsAmount:     decimal.RequireFromString(savings),
		SavingsPercentage: decimal.RequireFromString(percent),
		DurationDays:      days,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	if got.SampleSize != 0 {
		t.Fatalf("expected empty summary, got %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]models.MarketData{
		record("2000", "8", 5),
		record("3000", "12", 7),
	})
	if got.SampleSize != 2 {
		t.Fatalf("expected sample size 2 got %d", got.SampleSize)
	}
	if !got.AvgSavingsAmount.Equal(decimal.RequireFromString("2500")) {
		t.Fatalf("expected avg savings 2500 got %s", got.AvgSavingsAmount)
	}
	if !got.AvgSavingsPercent.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("expected avg pct 10 got %s", got.AvgSavingsPercent)
	}
	if !got.AvgDurationDays.Equal(decimal.RequireFromString("6")) {
		t.Fatalf("expected avg duration 6 got %s", got.AvgDurationDays)
	}
}

func TestInsights(t *testing.T) {
	repo := &stubMarketDataRepo{rows: []models.MarketData{
		record("2000", "8", 5),
		record("3000", "12", 7),
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Insights(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if len(dto.Records) != 2 {
		t.Fatalf("expected 2 records got %d", len(dto.Records))
	}
	if dto.Summary.SampleSize != 2 {
		t.Fatalf("expected sample size 2 got %d", dto.Summary.SampleSize)
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error without repo")
	}
}
