package vehicles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

type vehicleRepo interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Vehicle, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Service manages the user's tracked vehicles.
type Service struct {
	repo vehicleRepo
}

func NewService(repo vehicleRepo) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicles: repo is required")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]VehicleDTO, error) {
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list vehicles")
	}
	return FromModels(rows), nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*VehicleDTO, error) {
	vehicle, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(vehicle), nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateVehicleInput) (*VehicleDTO, error) {
	if in.Make == "" || in.Model == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "make and model are required")
	}
	if in.Year < 1900 || in.Year > time.Now().Year()+2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "year is out of range")
	}
	if in.Mileage < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mileage must not be negative")
	}

	vehicle := &models.Vehicle{
		UserID:        userID,
		Year:          in.Year,
		Make:          in.Make,
		Model:         in.Model,
		Trim:          in.Trim,
		VIN:           in.VIN,
		StockNumber:   in.StockNumber,
		Mileage:       in.Mileage,
		Condition:     in.Condition,
		ExteriorColor: in.ExteriorColor,
		InteriorColor: in.InteriorColor,
		ImageURL:      in.ImageURL,
		ListingURL:    in.ListingURL,
	}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create vehicle")
	}
	return FromModel(vehicle), nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, in UpdateVehicleInput) (*VehicleDTO, error) {
	vehicle, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Year != nil {
		vehicle.Year = *in.Year
	}
	if in.Make != nil {
		vehicle.Make = *in.Make
	}
	if in.Model != nil {
		vehicle.Model = *in.Model
	}
	if in.Trim != nil {
		vehicle.Trim = in.Trim
	}
	if in.VIN != nil {
		vehicle.VIN = in.VIN
	}
	if in.StockNumber != nil {
		vehicle.StockNumber = in.StockNumber
	}
	if in.Mileage != nil {
		if *in.Mileage < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "mileage must not be negative")
		}
		vehicle.Mileage = *in.Mileage
	}
	if in.Condition != nil {
		vehicle.Condition = in.Condition
	}
	if in.ExteriorColor != nil {
		vehicle.ExteriorColor = in.ExteriorColor
	}
	if in.InteriorColor != nil {
		vehicle.InteriorColor = in.InteriorColor
	}
	if in.ImageURL != nil {
		vehicle.ImageURL = in.ImageURL
	}
	if in.ListingURL != nil {
		vehicle.ListingURL = in.ListingURL
	}

	if err := s.repo.Update(ctx, vehicle); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update vehicle")
	}
	return FromModel(vehicle), nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete vehicle")
	}
	return nil
}

func (s *Service) load(ctx context.Context, userID, id uuid.UUID) (*models.Vehicle, error) {
	vehicle, err := s.repo.FindByID(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load vehicle")
	}
	return vehicle, nil
}
