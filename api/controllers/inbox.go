package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hagglehub/hagglehub-backend/api/responses"
	"github.com/hagglehub/hagglehub-backend/api/validators"
	"github.com/hagglehub/hagglehub-backend/internal/deals"
	"github.com/hagglehub/hagglehub-backend/internal/inbox"
	"github.com/hagglehub/hagglehub-backend/internal/messages"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
	"github.com/hagglehub/hagglehub-backend/pkg/types"
)

type inboxService interface {
	ListUnmatched(ctx context.Context, userID uuid.UUID) ([]messages.MessageDTO, error)
	Attach(ctx context.Context, userID, messageID, dealID uuid.UUID) (*messages.MessageDTO, error)
	CreateDeal(ctx context.Context, userID, messageID uuid.UUID, in inbox.CreateDealInput) (*deals.DealDTO, error)
}

// InboxList returns the unmatched messages parked on the fallback deal.
func InboxList(svc inboxService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inbox service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListUnmatched(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

type inboxAttachRequest struct {
	DealID uuid.UUID `json:"deal_id" validate:"required"`
}

// InboxAttach moves an unmatched message onto an existing deal's thread.
func InboxAttach(svc inboxService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inbox service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		messageID, err := validators.PathUUID(chi.URLParam(r, "messageId"), "message id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload inboxAttachRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Attach(r.Context(), userID, messageID, payload.DealID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, message)
	}
}

type inboxCreateDealRequest struct {
	DealerID      *uuid.UUID       `json:"dealer_id,omitempty"`
	NewDealerName string           `json:"new_dealer_name,omitempty"`
	VehicleID     *uuid.UUID       `json:"vehicle_id,omitempty"`
	AskingPrice   *decimal.Decimal `json:"asking_price,omitempty"`
	TargetPrice   *decimal.Decimal `json:"target_price,omitempty"`
	PurchaseType  string           `json:"purchase_type,omitempty"`
	Priority      string           `json:"priority,omitempty"`
	QuoteExpires  *time.Time       `json:"quote_expires,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

func (r inboxCreateDealRequest) toInput() inbox.CreateDealInput {
	return inbox.CreateDealInput{
		DealerID:      r.DealerID,
		NewDealerName: r.NewDealerName,
		Deal: deals.CreateDealInput{
			VehicleID:     r.VehicleID,
			AskingPrice:   r.AskingPrice,
			TargetPrice:   r.TargetPrice,
			FeesBreakdown: types.FeesBreakdown{},
			PurchaseType:  enums.PurchaseType(r.PurchaseType),
			Priority:      enums.DealPriority(r.Priority),
			QuoteExpires:  r.QuoteExpires,
			Notes:         r.Notes,
		},
	}
}

// InboxCreateDeal spins an unmatched message into a fresh negotiation,
// creating the dealer contact when only a name was supplied.
func InboxCreateDeal(svc inboxService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inbox service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		messageID, err := validators.PathUUID(chi.URLParam(r, "messageId"), "message id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload inboxCreateDealRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deal, err := svc.CreateDeal(r.Context(), userID, messageID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, deal)
	}
}
