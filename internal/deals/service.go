package deals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/internal/plans"
	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

type dealRepo interface {
	Create(ctx context.Context, deal *models.Deal) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Deal, error)
	List(ctx context.Context, userID uuid.UUID, filter Filter) ([]models.Deal, error)
	Update(ctx context.Context, deal *models.Deal) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CountActive(ctx context.Context, userID uuid.UUID) (int64, error)
	SaveCompletion(ctx context.Context, deal *models.Deal, contribution *models.MarketData) error
}

type vehicleReader interface {
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Vehicle, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Service owns deal lifecycle rules: creation against plan limits, guarded
// mutation, and completion.
type Service struct {
	repo     dealRepo
	vehicles vehicleReader
	now      func() time.Time
}

func NewService(repo dealRepo, vehicles vehicleReader) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deals: repo is required")
	}
	if vehicles == nil {
		return nil, fmt.Errorf("deals: vehicle reader is required")
	}
	return &Service{repo: repo, vehicles: vehicles, now: time.Now}, nil
}

// List returns the user's deals, optionally filtered.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter Filter) ([]DealDTO, error) {
	rows, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list deals")
	}
	return FromModels(rows), nil
}

// Get loads one deal owned by the user.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*DealDTO, error) {
	deal, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(deal), nil
}

// Create opens a new negotiation, enforcing the user's plan limit. Fallback
// deals created during onboarding bypass the limit and never count against it.
func (s *Service) Create(ctx context.Context, user *models.User, in CreateDealInput) (*DealDTO, error) {
	if in.DealerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer_id is required")
	}
	if err := checkNonNegative("asking_price", in.AskingPrice); err != nil {
		return nil, err
	}
	if err := checkNonNegative("current_offer", in.CurrentOffer); err != nil {
		return nil, err
	}
	if err := checkNonNegative("target_price", in.TargetPrice); err != nil {
		return nil, err
	}
	if !in.IsFallback {
		if err := s.checkPlanLimit(ctx, user); err != nil {
			return nil, err
		}
	}

	deal := &models.Deal{
		UserID:        user.ID,
		VehicleID:     in.VehicleID,
		DealerID:      in.DealerID,
		AskingPrice:   in.AskingPrice,
		CurrentOffer:  in.CurrentOffer,
		TargetPrice:   in.TargetPrice,
		FeesBreakdown: in.FeesBreakdown,
		PurchaseType:  in.PurchaseType,
		Status:        enums.DealStatusQuoteRequested,
		Priority:      in.Priority,
		QuoteExpires:  in.QuoteExpires,
		IsFallback:    in.IsFallback,
	}
	if deal.PurchaseType == "" {
		deal.PurchaseType = enums.PurchaseTypeCash
	}
	if deal.Priority == "" {
		deal.Priority = enums.DealPriorityMedium
	}
	if in.Notes != nil {
		deal.NegotiationNotes = in.Notes
	}

	if err := s.repo.Create(ctx, deal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create deal")
	}
	return FromModel(deal), nil
}

// Update applies the provided fields. Terminal deals only accept note edits;
// status changes must follow the allowed transitions.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, in UpdateDealInput) (*DealDTO, error) {
	if err := checkNonNegative("asking_price", in.AskingPrice); err != nil {
		return nil, err
	}
	if err := checkNonNegative("current_offer", in.CurrentOffer); err != nil {
		return nil, err
	}
	if err := checkNonNegative("target_price", in.TargetPrice); err != nil {
		return nil, err
	}

	deal, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if deal.Status.IsTerminal() && in.offerMutation() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			"deal is closed and no longer accepts offer changes").
			WithDetails(map[string]any{"status": deal.Status})
	}

	if in.Status != nil && *in.Status != deal.Status {
		if !deal.Status.CanTransition(*in.Status) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				"status transition is not allowed").
				WithDetails(map[string]any{"from": deal.Status, "to": *in.Status})
		}
		deal.Status = *in.Status
	}
	if in.AskingPrice != nil {
		deal.AskingPrice = in.AskingPrice
	}
	if in.CurrentOffer != nil {
		deal.CurrentOffer = in.CurrentOffer
	}
	if in.TargetPrice != nil {
		deal.TargetPrice = in.TargetPrice
	}
	if in.FeesBreakdown != nil {
		deal.FeesBreakdown = *in.FeesBreakdown
	}
	if in.PurchaseType != nil {
		deal.PurchaseType = *in.PurchaseType
	}
	if in.Priority != nil {
		deal.Priority = *in.Priority
	}
	if in.QuoteExpires != nil {
		deal.QuoteExpires = in.QuoteExpires
	}
	if in.Notes != nil {
		deal.NegotiationNotes = in.Notes
	}

	if err := s.repo.Update(ctx, deal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update deal")
	}
	return FromModel(deal), nil
}

// Complete finalizes a deal as won or lost and records the anonymized market
// outcome when the user opted into sharing.
func (s *Service) Complete(ctx context.Context, userID, id uuid.UUID, in CompletionInput) (*DealDTO, error) {
	deal, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var vehicle *models.Vehicle
	if deal.VehicleID != nil {
		vehicle, err = s.vehicles.FindByID(ctx, userID, *deal.VehicleID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load vehicle")
		}
	}

	result, err := ApplyCompletion(deal, vehicle, in, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveCompletion(ctx, result.Deal, result.MarketData); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save completed deal")
	}
	return FromModel(result.Deal), nil
}

// Delete removes a deal owned by the user.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete deal")
	}
	return nil
}

func (s *Service) load(ctx context.Context, userID, id uuid.UUID) (*models.Deal, error) {
	deal, err := s.repo.FindByID(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load deal")
	}
	return deal, nil
}

// checkNonNegative rejects negative money values before they reach the row.
// The DB carries matching CHECK constraints, but the caller deserves a coded
// validation error, not a driver error.
func checkNonNegative(field string, value *decimal.Decimal) error {
	if value == nil || !value.IsNegative() {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("%s must not be negative", field)).
		WithDetails(map[string]any{"field": field, "value": value.String()})
}

func (s *Service) checkPlanLimit(ctx context.Context, user *models.User) error {
	vehicles, err := s.vehicles.CountByUser(ctx, user.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to count vehicles")
	}
	active, err := s.repo.CountActive(ctx, user.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to count active deals")
	}
	return plans.CheckCanCreate(user.SubscriptionTier, plans.Holdings{
		TotalVehicles: int(vehicles),
		ActiveDeals:   int(active),
	})
}
