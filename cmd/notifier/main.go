package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hagglehub/hagglehub-backend/internal/dealers"
	"github.com/hagglehub/hagglehub-backend/internal/deals"
	"github.com/hagglehub/hagglehub-backend/internal/messages"
	"github.com/hagglehub/hagglehub-backend/internal/notifications"
	"github.com/hagglehub/hagglehub-backend/internal/users"
	"github.com/hagglehub/hagglehub-backend/pkg/config"
	"github.com/hagglehub/hagglehub-backend/pkg/db"
	"github.com/hagglehub/hagglehub-backend/pkg/logger"
	"github.com/hagglehub/hagglehub-backend/pkg/metrics"
	"github.com/hagglehub/hagglehub-backend/pkg/migrate"
	"github.com/hagglehub/hagglehub-backend/pkg/redis"
)

const lockKeyFormat = "hh:notifier:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "notifier"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "notifier",
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

	conn := dbClient.DB()
	userRepo, err := users.NewRepo(conn)
	if err != nil {
		logg.Error(context.Background(), "failed to create user repo", err)
		os.Exit(1)
	}
	dealRepo, err := deals.NewRepo(conn)
	if err != nil {
		logg.Error(context.Background(), "failed to create deal repo", err)
		os.Exit(1)
	}
	dealerRepo, err := dealers.NewRepo(conn)
	if err != nil {
		logg.Error(context.Background(), "failed to create dealer repo", err)
		os.Exit(1)
	}
	messageRepo, err := messages.NewRepo(conn)
	if err != nil {
		logg.Error(context.Background(), "failed to create message repo", err)
		os.Exit(1)
	}
	userService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	alertService, err := notifications.NewService(dealRepo, messageRepo, dealerRepo, userService)
	if err != nil {
		logg.Error(context.Background(), "failed to create alert service", err)
		os.Exit(1)
	}

	lock, err := notifications.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create poller lock", err)
		os.Exit(1)
	}

	pollerMetrics := metrics.NewPollerMetrics(prometheus.DefaultRegisterer)
	poller, err := notifications.NewPoller(notifications.PollerParams{
		Logger:      logg,
		Accounts:    userRepo,
		Alerts:      alertService,
		Lock:        lock,
		Metrics:     pollerMetrics,
		Interval:    cfg.Notifier.Interval,
		BackoffBase: cfg.Notifier.BackoffBase,
		BackoffCap:  cfg.Notifier.BackoffCap,
		MaxTries:    uint64(cfg.Notifier.BackoffMaxTries),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create poller", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Notifier.Interval.String(),
	})
	logg.Info(ctx, "starting notifier")

	metricsServer := &http.Server{
		Addr:    ":" + cfg.Notifier.MetricsPort,
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()
	defer metricsServer.Close()

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "notifier stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "notifier shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
