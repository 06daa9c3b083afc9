package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/hagglehub/hagglehub-backend/api/responses"
	"github.com/hagglehub/hagglehub-backend/api/validators"
	"github.com/hagglehub/hagglehub-backend/internal/marketdata"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
)

type marketDataService interface {
	Insights(ctx context.Context, filter marketdata.Filter) (*marketdata.InsightsDTO, error)
}

// MarketDataInsights returns anonymized outcome rows plus the aggregate
// savings summary for the requested slice of the pool.
func MarketDataInsights(svc marketDataService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "market data service unavailable"))
			return
		}

		if _, err := authedUserID(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter, err := marketDataFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		insights, err := svc.Insights(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, insights)
	}
}

func marketDataFilterFromQuery(r *http.Request) (marketdata.Filter, error) {
	var filter marketdata.Filter
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("make")); raw != "" {
		filter.Make = &raw
	}
	if raw := strings.TrimSpace(query.Get("model")); raw != "" {
		filter.Model = &raw
	}
	if raw := strings.TrimSpace(query.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "year must be an integer")
		}
		filter.Year = &year
	}
	if raw := strings.TrimSpace(query.Get("mileage_range")); raw != "" {
		bucket := enums.MileageRange(raw)
		if !bucket.IsValid() {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid mileage_range")
		}
		filter.MileageRange = &bucket
	}

	limit, err := validators.QueryLimit(r)
	if err != nil {
		return filter, err
	}
	filter.Limit = limit

	return filter, nil
}
