package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hagglehub/hagglehub-backend/api/routes"
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
	"github.com/hagglehub/hagglehub-backend/pkg/ai"
	"github.com/hagglehub/hagglehub-backend/pkg/auth/session"
	"github.com/hagglehub/hagglehub-backend/pkg/config"
	"github.com/hagglehub/hagglehub-backend/pkg/db"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
	"github.com/hagglehub/hagglehub-backend/pkg/migrate"
	"github.com/hagglehub/hagglehub-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.Flags.MemoryStore, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	svcs, err := buildServices(cfg, dbClient, redisClient, sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, svcs),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func buildServices(cfg *config.Config, dbClient *db.Client, redisClient *redis.Client, sessions *session.Manager) (routes.Services, error) {
	conn := dbClient.DB()

	userRepo, err := users.NewRepo(conn)
	if err != nil {
		return routes.Services{}, err
	}
	vehicleRepo, err := vehicles.NewRepo(conn)
	if err != nil {
		return routes.Services{}, err
	}
	dealerRepo, err := dealers.NewRepo(conn)
	if err != nil {
		return routes.Services{}, err
	}
	dealRepo, err := deals.NewRepo(conn)
	if err != nil {
		return routes.Services{}, err
	}
	messageRepo, err := messages.NewRepo(conn)
	if err != nil {
		return routes.Services{}, err
	}
	marketDataRepo, err := marketdata.NewRepo(conn)
	if err != nil {
		return routes.Services{}, err
	}

	userService, err := users.NewService(userRepo)
	if err != nil {
		return routes.Services{}, err
	}
	vehicleService, err := vehicles.NewService(vehicleRepo)
	if err != nil {
		return routes.Services{}, err
	}
	dealerService, err := dealers.NewService(dealerRepo)
	if err != nil {
		return routes.Services{}, err
	}
	marketDataService, err := marketdata.NewService(marketDataRepo)
	if err != nil {
		return routes.Services{}, err
	}
	dealService, err := deals.NewService(dealRepo, vehicleRepo)
	if err != nil {
		return routes.Services{}, err
	}
	messageService, err := messages.NewService(messageRepo, dealRepo)
	if err != nil {
		return routes.Services{}, err
	}
	notificationService, err := notifications.NewService(dealRepo, messageRepo, dealerRepo, userService)
	if err != nil {
		return routes.Services{}, err
	}
	inboxService, err := inbox.NewService(messageRepo, dealRepo, dealService, dealerService, userService)
	if err != nil {
		return routes.Services{}, err
	}

	aiClient, err := ai.NewClient(cfg.AI)
	if err != nil {
		return routes.Services{}, err
	}
	insightsService, err := insights.NewService(aiClient, dealRepo, messageRepo, dealerRepo)
	if err != nil {
		return routes.Services{}, err
	}

	provider, err := auth.NewGoogleProvider(cfg.Google)
	if err != nil {
		return routes.Services{}, err
	}
	authService, err := auth.NewService(provider, redisClient, sessions, userService, cfg.JWT)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:          authService,
		Users:         userService,
		Vehicles:      vehicleService,
		Dealers:       dealerService,
		Deals:         dealService,
		Messages:      messageService,
		MarketData:    marketDataService,
		Notifications: notificationService,
		Inbox:         inboxService,
		Insights:      insightsService,
	}, nil
}
