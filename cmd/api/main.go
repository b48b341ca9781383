package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agrilinkhq/agrilink-backend/api/routes"
	"github.com/agrilinkhq/agrilink-backend/internal/auth"
	"github.com/agrilinkhq/agrilink-backend/internal/fertilizers"
	"github.com/agrilinkhq/agrilink-backend/internal/orders"
	"github.com/agrilinkhq/agrilink-backend/internal/users"
	"github.com/agrilinkhq/agrilink-backend/pkg/config"
	"github.com/agrilinkhq/agrilink-backend/pkg/db"
	"github.com/agrilinkhq/agrilink-backend/pkg/logger"
	"github.com/agrilinkhq/agrilink-backend/pkg/metrics"
	"github.com/agrilinkhq/agrilink-backend/pkg/migrate"
	"github.com/agrilinkhq/agrilink-backend/pkg/redis"
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
		WarnStack:   cfg.App.LogWarnStack,
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

	usersRepo := users.NewRepository(dbClient.DB())
	fertilizersRepo := fertilizers.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:    usersRepo,
		Sender:      auth.NewLogSender(logg),
		JWTConfig:   cfg.JWT,
		OTPConfig:   cfg.OTP,
		AdminConfig: cfg.Admin,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := fertilizers.NewService(fertilizersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create fertilizers service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		OrderRepo:      ordersRepo,
		FarmerRepo:     usersRepo,
		FertilizerRepo: fertilizersRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	requestMetrics := metrics.NewRequestMetrics(promRegistry)

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
			Config:         cfg,
			Logger:         logg,
			DBPinger:       dbClient,
			RedisClient:    redisClient,
			AuthService:    authService,
			OrdersService:  ordersService,
			CatalogService: catalogService,
			UsersRepo:      usersRepo,
			Registry:       promRegistry,
			RequestMetrics: requestMetrics,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
