package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hagglehub/hagglehub-backend/api/controllers"
	"github.com/hagglehub/hagglehub-backend/api/middleware"
	"github.com/hagglehub/hagglehub-backend/internal/auth"
	"github.com/hagglehub/hagglehub-backend/internal/dealers"
	"github.com/hagglehub/hagglehub-backend/internal/deals"
	"github.com/hagglehub/hagglehub-backend/internal/inbox"
	"github.com/hagglehub/hagglehub-backend/internal/insights"
	"github.com/hagglehub/hagglehub-backend/internal/marketdata"
	"github.com/hagglehub/hagglehub-backend/internal/messages"
	"github.com/hagglehub/hagglehub-backend/internal/notifications"
	"github.com/hagglehub/hagglehub-backend/internal/users"
	"github.com/hagglehub/hagglehub-backend/internal/vehicles"
	"github.com/hagglehub/hagglehub-backend/pkg/auth/session"
	"github.com/hagglehub/hagglehub-backend/pkg/config"
	"github.com/hagglehub/hagglehub-backend/pkg/db"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
	"github.com/hagglehub/hagglehub-backend/pkg/redis"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Auth          *auth.Service
	Users         *users.Service
	Vehicles      *vehicles.Service
	Dealers       *dealers.Service
	Deals         *deals.Service
	Messages      *messages.Service
	MarketData    *marketdata.Service
	Notifications *notifications.Service
	Inbox         *inbox.Service
	Insights      *insights.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	cache *redis.Client,
	sessions *session.Manager,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, database, cache))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Get("/google/login", controllers.AuthGoogleLogin(svcs.Auth, logg))
		r.Get("/google/callback", controllers.AuthGoogleCallback(svcs.Auth, cfg.App, logg))
		r.Post("/logout", controllers.AuthLogout(sessions, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RateLimit(cfg.RateLimit, cache, logg))

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", controllers.UserProfile(svcs.Users, logg))
			r.Patch("/", controllers.UserUpdate(svcs.Users, logg))
			r.Put("/tier", controllers.UserUpdateTier(svcs.Users, logg))
			r.Post("/onboarding", controllers.UserCompleteOnboarding(svcs.Users, logg))
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", controllers.VehicleList(svcs.Vehicles, logg))
			r.Post("/", controllers.VehicleCreate(svcs.Vehicles, logg))
			r.Get("/{vehicleId}", controllers.VehicleGet(svcs.Vehicles, logg))
			r.Patch("/{vehicleId}", controllers.VehicleUpdate(svcs.Vehicles, logg))
			r.Delete("/{vehicleId}", controllers.VehicleDelete(svcs.Vehicles, logg))
		})

		r.Route("/dealers", func(r chi.Router) {
			r.Get("/", controllers.DealerList(svcs.Dealers, logg))
			r.Post("/", controllers.DealerCreate(svcs.Dealers, logg))
			r.Get("/{dealerId}", controllers.DealerGet(svcs.Dealers, logg))
			r.Patch("/{dealerId}", controllers.DealerUpdate(svcs.Dealers, logg))
			r.Delete("/{dealerId}", controllers.DealerDelete(svcs.Dealers, logg))
		})

		r.Route("/deals", func(r chi.Router) {
			r.Get("/", controllers.DealList(svcs.Deals, logg))
			r.Post("/", controllers.DealCreate(svcs.Deals, svcs.Users, logg))
			r.Get("/{dealId}", controllers.DealGet(svcs.Deals, logg))
			r.Patch("/{dealId}", controllers.DealUpdate(svcs.Deals, logg))
			r.Delete("/{dealId}", controllers.DealDelete(svcs.Deals, logg))
			r.Post("/{dealId}/complete", controllers.DealComplete(svcs.Deals, logg))
			r.Post("/{dealId}/coach", controllers.DealCoach(svcs.Insights, logg))

			r.Route("/{dealId}/messages", func(r chi.Router) {
				r.Get("/", controllers.DealMessageList(svcs.Messages, logg))
				r.Post("/", controllers.DealMessageCreate(svcs.Messages, logg))
				r.Post("/read", controllers.DealMessagesMarkRead(svcs.Messages, logg))
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", controllers.MessageList(svcs.Messages, logg))
			r.Post("/{messageId}/read", controllers.MessageMarkRead(svcs.Messages, logg))
		})

		r.Route("/inbox", func(r chi.Router) {
			r.Get("/", controllers.InboxList(svcs.Inbox, logg))
			r.Post("/{messageId}/attach", controllers.InboxAttach(svcs.Inbox, logg))
			r.Post("/{messageId}/deal", controllers.InboxCreateDeal(svcs.Inbox, logg))
		})

		r.Get("/market-data", controllers.MarketDataInsights(svcs.MarketData, logg))
		r.Get("/notifications", controllers.NotificationList(svcs.Notifications, logg))
		r.Get("/insights/portfolio", controllers.PortfolioInsights(svcs.Insights, logg))
	})

	return r
}
