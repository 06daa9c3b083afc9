package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hagglehub/hagglehub-backend/api/responses"
	"github.com/hagglehub/hagglehub-backend/api/validators"
	"github.com/hagglehub/hagglehub-backend/internal/vehicles"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
)

type vehicleService interface {
	List(ctx context.Context, userID uuid.UUID) ([]vehicles.VehicleDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*vehicles.VehicleDTO, error)
	Create(ctx context.Context, userID uuid.UUID, in vehicles.CreateVehicleInput) (*vehicles.VehicleDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, in vehicles.UpdateVehicleInput) (*vehicles.VehicleDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// VehicleList returns the user's tracked vehicles.
func VehicleList(svc vehicleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// VehicleGet returns one tracked vehicle by id.
func VehicleGet(svc vehicleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "vehicleId"), "vehicle id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.Get(r.Context(), userID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vehicle)
	}
}

type vehicleCreateRequest struct {
	Year          int     `json:"year" validate:"required"`
	Make          string  `json:"make" validate:"required"`
	Model         string  `json:"model" validate:"required"`
	Trim          *string `json:"trim,omitempty"`
	VIN           *string `json:"vin,omitempty"`
	StockNumber   *string `json:"stock_number,omitempty"`
	Mileage       int     `json:"mileage,omitempty" validate:"gte=0"`
	Condition     *string `json:"condition,omitempty"`
	ExteriorColor *string `json:"exterior_color,omitempty"`
	InteriorColor *string `json:"interior_color,omitempty"`
	ImageURL      *string `json:"image_url,omitempty"`
	ListingURL    *string `json:"listing_url,omitempty"`
}

func (r vehicleCreateRequest) toInput() vehicles.CreateVehicleInput {
	return vehicles.CreateVehicleInput{
		Year:          r.Year,
		Make:          r.Make,
		Model:         r.Model,
		Trim:          r.Trim,
		VIN:           r.VIN,
		StockNumber:   r.StockNumber,
		Mileage:       r.Mileage,
		Condition:     r.Condition,
		ExteriorColor: r.ExteriorColor,
		InteriorColor: r.InteriorColor,
		ImageURL:      r.ImageURL,
		ListingURL:    r.ListingURL,
	}
}

// VehicleCreate adds a vehicle to the user's garage.
func VehicleCreate(svc vehicleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload vehicleCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.Create(r.Context(), userID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, vehicle)
	}
}

type vehicleUpdateRequest struct {
	Year          *int    `json:"year,omitempty"`
	Make          *string `json:"make,omitempty" validate:"omitempty,min=1"`
	Model         *string `json:"model,omitempty" validate:"omitempty,min=1"`
	Trim          *string `json:"trim,omitempty"`
	VIN           *string `json:"vin,omitempty"`
	StockNumber   *string `json:"stock_number,omitempty"`
	Mileage       *int    `json:"mileage,omitempty" validate:"omitempty,gte=0"`
	Condition     *string `json:"condition,omitempty"`
	ExteriorColor *string `json:"exterior_color,omitempty"`
	InteriorColor *string `json:"interior_color,omitempty"`
	ImageURL      *string `json:"image_url,omitempty"`
	ListingURL    *string `json:"listing_url,omitempty"`
}

func (r vehicleUpdateRequest) toInput() vehicles.UpdateVehicleInput {
	return vehicles.UpdateVehicleInput{
		Year:          r.Year,
		Make:          r.Make,
		Model:         r.Model,
		Trim:          r.Trim,
		VIN:           r.VIN,
		StockNumber:   r.StockNumber,
		Mileage:       r.Mileage,
		Condition:     r.Condition,
		ExteriorColor: r.ExteriorColor,
		InteriorColor: r.InteriorColor,
		ImageURL:      r.ImageURL,
		ListingURL:    r.ListingURL,
	}
}

// VehicleUpdate adjusts the mutable vehicle fields.
func VehicleUpdate(svc vehicleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "vehicleId"), "vehicle id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload vehicleUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.Update(r.Context(), userID, id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vehicle)
	}
}

// VehicleDelete removes a vehicle from the garage.
func VehicleDelete(svc vehicleService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "vehicleId"), "vehicle id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
