package dealers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

type dealerRepo interface {
	Create(ctx context.Context, dealer *models.Dealer) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Dealer, error)
	FindFallback(ctx context.Context, userID uuid.UUID) (*models.Dealer, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Dealer, error)
	Update(ctx context.Context, dealer *models.Dealer) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Service manages the user's dealer contacts. The fallback dealer is
// system-owned: it absorbs unmatched inbound messages and cannot be deleted.
type Service struct {
	repo dealerRepo
}

func NewService(repo dealerRepo) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dealers: repo is required")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]DealerDTO, error) {
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list dealers")
	}
	return FromModels(rows), nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*DealerDTO, error) {
	dealer, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(dealer), nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateDealerInput) (*DealerDTO, error) {
	if in.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}

	dealer := &models.Dealer{
		UserID:       userID,
		Name:         in.Name,
		Address:      in.Address,
		Phone:        in.Phone,
		Website:      in.Website,
		ContactEmail: in.ContactEmail,
		SalesRepName: in.SalesRepName,
		Rating:       in.Rating,
		Notes:        in.Notes,
		IsFallback:   in.IsFallback,
	}
	if err := s.repo.Create(ctx, dealer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create dealer")
	}
	return FromModel(dealer), nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, in UpdateDealerInput) (*DealerDTO, error) {
	dealer, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		dealer.Name = *in.Name
	}
	if in.Address != nil {
		dealer.Address = in.Address
	}
	if in.Phone != nil {
		dealer.Phone = in.Phone
	}
	if in.Website != nil {
		dealer.Website = in.Website
	}
	if in.ContactEmail != nil {
		dealer.ContactEmail = in.ContactEmail
	}
	if in.SalesRepName != nil {
		dealer.SalesRepName = in.SalesRepName
	}
	if in.Rating != nil {
		dealer.Rating = in.Rating
	}
	if in.Notes != nil {
		dealer.Notes = in.Notes
	}

	if err := s.repo.Update(ctx, dealer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update dealer")
	}
	return FromModel(dealer), nil
}

// Delete removes a dealer contact. The fallback dealer is protected.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	dealer, err := s.load(ctx, userID, id)
	if err != nil {
		return err
	}
	if dealer.IsFallback {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "the fallback dealer cannot be deleted")
	}

	err = s.repo.Delete(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "dealer not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete dealer")
	}
	return nil
}

func (s *Service) load(ctx context.Context, userID, id uuid.UUID) (*models.Dealer, error) {
	dealer, err := s.repo.FindByID(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dealer not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load dealer")
	}
	return dealer, nil
}

func validateRating(rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	return nil
}
