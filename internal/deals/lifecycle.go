package deals

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

// ComputeSavings returns asking price minus the effective price. With no
// current offer the effective price is the asking price itself, so savings
// collapse to zero; with no asking price there is nothing to save against.
func ComputeSavings(deal *models.Deal) decimal.Decimal {
	if deal == nil || deal.AskingPrice == nil {
		return decimal.Zero
	}
	effective := *deal.AskingPrice
	if deal.CurrentOffer != nil {
		effective = *deal.CurrentOffer
	}
	return deal.AskingPrice.Sub(effective)
}

// ComputeOutTheDoorPrice returns the effective price plus every itemized fee.
func ComputeOutTheDoorPrice(deal *models.Deal) decimal.Decimal {
	if deal == nil {
		return decimal.Zero
	}
	base := decimal.Zero
	switch {
	case deal.CurrentOffer != nil:
		base = *deal.CurrentOffer
	case deal.AskingPrice != nil:
		base = *deal.AskingPrice
	}
	return base.Add(deal.FeesBreakdown.Total())
}

// IsActive reports whether the deal still permits negotiation.
func IsActive(deal *models.Deal) bool {
	return deal != nil && deal.Status.IsActive()
}

// Outcome is the user-reported result of a completed negotiation.
type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// CompletionInput carries the explicit complete-deal action.
type CompletionInput struct {
	Outcome          Outcome
	FinalPrice       *decimal.Decimal
	Notes            *string
	ShareAnonymously bool
}

// Completion is the pure result of applying a completion: the mutated deal
// plus the market-data contribution when the user opted in on a win.
type Completion struct {
	Deal       *models.Deal
	MarketData *models.MarketData
}

// ApplyCompletion validates and applies the completion to a copy of the deal.
// Completing an already-terminal deal is rejected; a win requires a final
// price. The market-data record is only produced for shared wins and carries
// bucketed mileage, never user or dealer identity.
func ApplyCompletion(deal *models.Deal, vehicle *models.Vehicle, input CompletionInput, now time.Time) (*Completion, error) {
	if deal == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deal is required")
	}
	if deal.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "deal is already completed").
			WithDetails(map[string]any{"status": string(deal.Status)})
	}

	var status enums.DealStatus
	switch input.Outcome {
	case OutcomeWon:
		status = enums.DealStatusWon
	case OutcomeLost:
		status = enums.DealStatusLost
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outcome must be won or lost")
	}

	if input.Outcome == OutcomeWon && input.FinalPrice == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "final price is required to complete a won deal")
	}
	if input.FinalPrice != nil && input.FinalPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "final price must not be negative")
	}

	updated := *deal
	updated.Status = status
	duration := durationDays(deal.CreatedAt, now)
	updated.DurationDays = &duration
	updated.SharedAnonymously = input.ShareAnonymously
	if input.Outcome == OutcomeWon {
		updated.FinalPrice = input.FinalPrice
	}
	if input.Notes != nil && *input.Notes != "" {
		updated.NegotiationNotes = input.Notes
	}

	completion := &Completion{Deal: &updated}

	if input.ShareAnonymously && input.Outcome == OutcomeWon && vehicle != nil && deal.AskingPrice != nil {
		asking := *deal.AskingPrice
		final := *input.FinalPrice
		savings := asking.Sub(final)
		percentage := decimal.Zero
		if !asking.IsZero() {
			percentage = savings.Div(asking).Mul(decimal.NewFromInt(100)).Round(3)
		}

		var trim *string
		if vehicle.Trim != nil && *vehicle.Trim != "" {
			trim = vehicle.Trim
		}

		completion.MarketData = &models.MarketData{
			VehicleYear:       vehicle.Year,
			VehicleMake:       vehicle.Make,
			VehicleModel:      vehicle.Model,
			VehicleTrim:       trim,
			MileageRange:      enums.BucketMileage(vehicle.Mileage),
			PurchaseType:      deal.PurchaseType,
			AskingPrice:       asking,
			FinalPrice:        final,
			SavingsAmount:     savings,
			SavingsPercentage: percentage,
			DurationDays:      duration,
			Region:            "other",
			DealOutcome:       status,
		}
	}

	return completion, nil
}

func durationDays(created, now time.Time) int {
	elapsed := now.Sub(created)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Ceil(elapsed.Hours() / 24))
}
