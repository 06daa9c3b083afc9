package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hagglehub/hagglehub-backend/api/responses"
	"github.com/hagglehub/hagglehub-backend/api/validators"
	"github.com/hagglehub/hagglehub-backend/internal/dealers"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
)

type dealerService interface {
	List(ctx context.Context, userID uuid.UUID) ([]dealers.DealerDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*dealers.DealerDTO, error)
	Create(ctx context.Context, userID uuid.UUID, in dealers.CreateDealerInput) (*dealers.DealerDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, in dealers.UpdateDealerInput) (*dealers.DealerDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// DealerList returns the user's dealer contacts.
func DealerList(svc dealerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dealer service unavailable"))
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

// DealerGet returns one dealer contact by id.
func DealerGet(svc dealerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dealer service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "dealerId"), "dealer id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dealer, err := svc.Get(r.Context(), userID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dealer)
	}
}

type dealerCreateRequest struct {
	Name         string  `json:"name" validate:"required,min=1"`
	Address      *string `json:"address,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Website      *string `json:"website,omitempty" validate:"omitempty,url"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	SalesRepName *string `json:"sales_rep_name,omitempty"`
	Rating       *int    `json:"rating,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func (r dealerCreateRequest) toInput() dealers.CreateDealerInput {
	return dealers.CreateDealerInput{
		Name:         r.Name,
		Address:      r.Address,
		Phone:        r.Phone,
		Website:      r.Website,
		ContactEmail: r.ContactEmail,
		SalesRepName: r.SalesRepName,
		Rating:       r.Rating,
		Notes:        r.Notes,
	}
}

// DealerCreate adds a dealer contact.
func DealerCreate(svc dealerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dealer service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload dealerCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dealer, err := svc.Create(r.Context(), userID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dealer)
	}
}

type dealerUpdateRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Address      *string `json:"address,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Website      *string `json:"website,omitempty" validate:"omitempty,url"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	SalesRepName *string `json:"sales_rep_name,omitempty"`
	Rating       *int    `json:"rating,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func (r dealerUpdateRequest) toInput() dealers.UpdateDealerInput {
	return dealers.UpdateDealerInput{
		Name:         r.Name,
		Address:      r.Address,
		Phone:        r.Phone,
		Website:      r.Website,
		ContactEmail: r.ContactEmail,
		SalesRepName: r.SalesRepName,
		Rating:       r.Rating,
		Notes:        r.Notes,
	}
}

// DealerUpdate adjusts the mutable dealer fields.
func DealerUpdate(svc dealerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dealer service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "dealerId"), "dealer id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload dealerUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dealer, err := svc.Update(r.Context(), userID, id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dealer)
	}
}

// DealerDelete removes a dealer contact. The fallback dealer is protected.
func DealerDelete(svc dealerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dealer service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "dealerId"), "dealer id")
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
