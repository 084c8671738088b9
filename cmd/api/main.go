package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sooyeonjun/giftpool-backend/api/routes"
	"github.com/sooyeonjun/giftpool-backend/internal/auth"
	"github.com/sooyeonjun/giftpool-backend/internal/campaigns"
	"github.com/sooyeonjun/giftpool-backend/internal/follows"
	"github.com/sooyeonjun/giftpool-backend/internal/funding"
	"github.com/sooyeonjun/giftpool-backend/internal/notifications"
	"github.com/sooyeonjun/giftpool-backend/internal/users"
	"github.com/sooyeonjun/giftpool-backend/pkg/config"
	"github.com/sooyeonjun/giftpool-backend/pkg/db"
	"github.com/sooyeonjun/giftpool-backend/pkg/logger"
	"github.com/sooyeonjun/giftpool-backend/pkg/metrics"
	"github.com/sooyeonjun/giftpool-backend/pkg/migrate"
	"github.com/sooyeonjun/giftpool-backend/pkg/push"
	"github.com/sooyeonjun/giftpool-backend/pkg/redis"
)

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
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pushClient, err := push.NewClient(cfg.Push, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create push client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	fundingMetrics := metrics.NewFundingMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	campaignsRepo := campaigns.NewRepository(dbClient.DB())
	pledgesRepo := funding.NewRepository(dbClient.DB())
	followsRepo := follows.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())

	dispatcher, err := notifications.NewDispatcher(notifications.DispatcherParams{
		Users:  usersRepo,
		Tokens: redisClient,
		Sender: pushClient,
		Repo:   notificationsRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Users:    usersRepo,
		JWT:      cfg.JWT,
		Password: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	campaignsService, err := campaigns.NewService(campaigns.ServiceParams{
		Repo:       campaignsRepo,
		Followings: followsRepo,
		Funding:    cfg.Funding,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create campaigns service", err)
		os.Exit(1)
	}

	fundingService, err := funding.NewService(funding.ServiceParams{
		Tx:         dbClient,
		Pledges:    pledgesRepo,
		Campaigns:  campaignsRepo,
		Backers:    usersRepo,
		Dispatcher: dispatcher,
		Metrics:    fundingMetrics,
		Logger:     logg,
		Funding:    cfg.Funding,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create funding service", err)
		os.Exit(1)
	}

	followsService, err := follows.NewService(follows.ServiceParams{
		Repo:       followsRepo,
		Users:      usersRepo,
		Dispatcher: dispatcher,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create follows service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
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
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Registry:      registry,
			Auth:          authService,
			Users:         usersService,
			Campaigns:     campaignsService,
			Funding:       fundingService,
			Follows:       followsService,
			Notifications: notificationsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
