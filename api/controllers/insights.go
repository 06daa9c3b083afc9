package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hagglehub/hagglehub-backend/api/responses"
	"github.com/hagglehub/hagglehub-backend/api/validators"
	"github.com/hagglehub/hagglehub-backend/internal/insights"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
)

type insightsService interface {
	Coach(ctx context.Context, userID, dealID uuid.UUID, question string) (*insights.CoachingDTO, error)
	Portfolio(ctx context.Context, userID uuid.UUID) (*insights.PortfolioDTO, error)
}

type coachRequest struct {
	Question string `json:"question,omitempty"`
}

// DealCoach asks the model for negotiation advice grounded in the deal's
// thread and numbers.
func DealCoach(svc insightsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insights service unavailable"))
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

		var payload coachRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coaching, err := svc.Coach(r.Context(), userID, dealID, payload.Question)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, coaching)
	}
}

// PortfolioInsights summarizes the user's active negotiations and suggests
// next steps.
func PortfolioInsights(svc insightsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insights service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		portfolio, err := svc.Portfolio(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, portfolio)
	}
}
