package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/hagglehub/hagglehub-backend/api/responses"
	"github.com/hagglehub/hagglehub-backend/pkg/config"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
	"github.com/hagglehub/hagglehub-backend/pkg/redis"
)

// RateLimit applies a fixed-window per-user request limit. On a Redis outage
// the limiter fails open: dropping traffic over a cache hiccup would be worse
// than letting it through unmetered.
func RateLimit(cfg config.RateLimitConfig, client *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || cfg.RequestLimit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			scope := UserIDFromContext(r.Context())
			if scope == "" {
				scope = r.RemoteAddr
			}

			allowed, _, err := client.FixedWindowAllow(r.Context(), scope, int64(cfg.RequestLimit), cfg.Window)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "rate limiter unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeRateLimit, fmt.Sprintf("limit of %d requests per %s exceeded", cfg.RequestLimit, cfg.Window)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
