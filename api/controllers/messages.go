package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hagglehub/hagglehub-backend/api/responses"
	"github.com/hagglehub/hagglehub-backend/api/validators"
	"github.com/hagglehub/hagglehub-backend/internal/messages"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
)

type messageService interface {
	List(ctx context.Context, userID uuid.UUID, filter messages.Filter) ([]messages.MessageDTO, error)
	ListPage(ctx context.Context, userID uuid.UUID, filter messages.Filter, cursor string, limit int) (*messages.Page, error)
	Create(ctx context.Context, userID uuid.UUID, in messages.CreateMessageInput) (*messages.MessageDTO, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkThreadRead(ctx context.Context, userID, dealID uuid.UUID) (int64, error)
}

// MessageList returns one cursor page of messages, optionally scoped by deal,
// dealer, or read state.
func MessageList(svc messageService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "message service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filter messages.Filter
		if id, ok, err := validators.QueryUUID(r, "deal_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if ok {
			filter.DealID = &id
		}
		if id, ok, err := validators.QueryUUID(r, "dealer_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if ok {
			filter.DealerID = &id
		}
		if read, ok, err := validators.QueryBool(r, "is_read"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if ok {
			filter.IsRead = &read
		}

		limit, err := validators.QueryLimit(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := r.URL.Query().Get("cursor")

		page, err := svc.ListPage(r.Context(), userID, filter, cursor, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// DealMessageList returns the conversation thread for one deal.
func DealMessageList(svc messageService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "message service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dealID, err := validators.PathUUID(chi.URLParam(r, "dealId"), "deal id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), userID, messages.Filter{DealID: &dealID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

type messageCreateRequest struct {
	Content   string  `json:"content" validate:"required,min=1"`
	Subject   *string `json:"subject,omitempty"`
	Recipient *string `json:"recipient,omitempty"`
	Direction string  `json:"direction" validate:"required,oneof=inbound outbound"`
	Channel   string  `json:"channel,omitempty" validate:"omitempty,oneof=app email text"`
}

// DealMessageCreate logs a message on a deal's thread. Inbound messages are
// scanned for a quoted price and may advance the deal to negotiating.
func DealMessageCreate(svc messageService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "message service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dealID, err := validators.PathUUID(chi.URLParam(r, "dealId"), "deal id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload messageCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Create(r.Context(), userID, messages.CreateMessageInput{
			DealID:    dealID,
			Content:   payload.Content,
			Subject:   payload.Subject,
			Recipient: payload.Recipient,
			Direction: enums.MessageDirection(payload.Direction),
			Channel:   enums.MessageChannel(payload.Channel),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// MessageMarkRead flags a single message as read.
func MessageMarkRead(svc messageService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "message service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.PathUUID(chi.URLParam(r, "messageId"), "message id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkRead(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "read"})
	}
}

// DealMessagesMarkRead flags a deal's whole thread as read and reports how
// many messages flipped.
func DealMessagesMarkRead(svc messageService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "message service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dealID, err := validators.PathUUID(chi.URLParam(r, "dealId"), "deal id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.MarkThreadRead(r.Context(), userID, dealID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"updated": updated})
	}
}
