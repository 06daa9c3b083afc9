package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hagglehub/hagglehub-backend/api/responses"
	"github.com/hagglehub/hagglehub-backend/api/validators"
	"github.com/hagglehub/hagglehub-backend/internal/deals"
	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
	"github.com/hagglehub/hagglehub-backend/pkg/types"
)

type dealService interface {
	List(ctx context.Context, userID uuid.UUID, filter deals.Filter) ([]deals.DealDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*deals.DealDTO, error)
	Create(ctx context.Context, user *models.User, in deals.CreateDealInput) (*deals.DealDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, in deals.UpdateDealInput) (*deals.DealDTO, error)
	Complete(ctx context.Context, userID, id uuid.UUID, in deals.CompletionInput) (*deals.DealDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type accountLoader interface {
	GetModel(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// DealList returns the user's deals, newest first, with optional filters.
func DealList(svc dealService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deal service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter, err := dealFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), userID, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func dealFilterFromQuery(r *http.Request) (deals.Filter, error) {
	var filter deals.Filter

	if id, ok, err := validators.QueryUUID(r, "dealer_id"); err != nil {
		return filter, err
	} else if ok {
		filter.DealerID = &id
	}

	if id, ok, err := validators.QueryUUID(r, "vehicle_id"); err != nil {
		return filter, err
	} else if ok {
		filter.VehicleID = &id
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status := enums.DealStatus(raw)
		if !status.IsValid() {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		filter.Status = &status
	}

	if active, ok, err := validators.QueryBool(r, "active"); err != nil {
		return filter, err
	} else if ok {
		filter.ActiveOnly = active
	}

	return filter, nil
}

// DealGet returns one deal by id.
func DealGet(svc dealService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deal service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "dealId"), "deal id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithDealID(r.Context(), id.String())

		deal, err := svc.Get(ctx, userID, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, deal)
	}
}

type dealCreateRequest struct {
	VehicleID    *uuid.UUID          `json:"vehicle_id,omitempty"`
	DealerID     uuid.UUID           `json:"dealer_id" validate:"required"`
	AskingPrice  *decimal.Decimal    `json:"asking_price,omitempty"`
	CurrentOffer *decimal.Decimal    `json:"current_offer,omitempty"`
	TargetPrice  *decimal.Decimal    `json:"target_price,omitempty"`
	Fees         types.FeesBreakdown `json:"fees_breakdown,omitempty"`
	PurchaseType string              `json:"purchase_type,omitempty"`
	Priority     string              `json:"priority,omitempty"`
	QuoteExpires *time.Time          `json:"quote_expires,omitempty"`
	Notes        *string             `json:"notes,omitempty"`
}

func (r dealCreateRequest) toInput() deals.CreateDealInput {
	return deals.CreateDealInput{
		VehicleID:     r.VehicleID,
		DealerID:      r.DealerID,
		AskingPrice:   r.AskingPrice,
		CurrentOffer:  r.CurrentOffer,
		TargetPrice:   r.TargetPrice,
		FeesBreakdown: r.Fees,
		PurchaseType:  enums.PurchaseType(r.PurchaseType),
		Priority:      enums.DealPriority(r.Priority),
		QuoteExpires:  r.QuoteExpires,
		Notes:         r.Notes,
	}
}

// DealCreate opens a negotiation against a dealer, subject to the plan limit.
func DealCreate(svc dealService, accounts accountLoader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || accounts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deal service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload dealCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := accounts.GetModel(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deal, err := svc.Create(r.Context(), user, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, deal)
	}
}

type dealUpdateRequest struct {
	AskingPrice  *decimal.Decimal     `json:"asking_price,omitempty"`
	CurrentOffer *decimal.Decimal     `json:"current_offer,omitempty"`
	TargetPrice  *decimal.Decimal     `json:"target_price,omitempty"`
	Fees         *types.FeesBreakdown `json:"fees_breakdown,omitempty"`
	PurchaseType *string              `json:"purchase_type,omitempty"`
	Status       *string              `json:"status,omitempty"`
	Priority     *string              `json:"priority,omitempty"`
	QuoteExpires *time.Time           `json:"quote_expires,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
}

func (r dealUpdateRequest) toInput() deals.UpdateDealInput {
	in := deals.UpdateDealInput{
		AskingPrice:   r.AskingPrice,
		CurrentOffer:  r.CurrentOffer,
		TargetPrice:   r.TargetPrice,
		FeesBreakdown: r.Fees,
		QuoteExpires:  r.QuoteExpires,
		Notes:         r.Notes,
	}
	if r.PurchaseType != nil {
		pt := enums.PurchaseType(*r.PurchaseType)
		in.PurchaseType = &pt
	}
	if r.Status != nil {
		st := enums.DealStatus(*r.Status)
		in.Status = &st
	}
	if r.Priority != nil {
		pr := enums.DealPriority(*r.Priority)
		in.Priority = &pr
	}
	return in
}

// DealUpdate mutates the allowed deal fields, enforcing the status machine.
func DealUpdate(svc dealService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deal service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "dealId"), "deal id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithDealID(r.Context(), id.String())

		var payload dealUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		deal, err := svc.Update(ctx, userID, id, payload.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, deal)
	}
}

type dealCompleteRequest struct {
	Outcome          string           `json:"outcome" validate:"required,oneof=won lost"`
	FinalPrice       *decimal.Decimal `json:"final_price,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
	ShareAnonymously bool             `json:"share_anonymously,omitempty"`
}

// DealComplete closes a negotiation as won or lost. Shared wins contribute an
// anonymized row to the market outcome pool.
func DealComplete(svc dealService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deal service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "dealId"), "deal id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithDealID(r.Context(), id.String())

		var payload dealCompleteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		deal, err := svc.Complete(ctx, userID, id, deals.CompletionInput{
			Outcome:          deals.Outcome(payload.Outcome),
			FinalPrice:       payload.FinalPrice,
			Notes:            payload.Notes,
			ShareAnonymously: payload.ShareAnonymously,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, deal)
	}
}

// DealDelete removes a deal and its messages.
func DealDelete(svc dealService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deal service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "dealId"), "deal id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithDealID(r.Context(), id.String())
		if err := svc.Delete(ctx, userID, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
