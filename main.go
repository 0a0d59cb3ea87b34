package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"isletmenum/app/auth"
	"isletmenum/app/business"
	"isletmenum/app/menu"
	"isletmenum/infra/httpserver"
	"isletmenum/infra/postgres"
	"isletmenum/infra/rabbitmq"
	redisstore "isletmenum/infra/redis"
	"isletmenum/pkg/config"
	"isletmenum/pkg/events"
	"isletmenum/pkg/logger"
	"isletmenum/pkg/media"
	"isletmenum/pkg/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	flush := logger.Init(appConfig.IsDevelopment())
	defer flush()

	zap.L().Info("app starting...",
		zap.String("env", appConfig.AppEnv),
		zap.String("mediaDriver", appConfig.MediaDriver),
	)

	if err := appConfig.Validate(); err != nil {
		zap.L().Fatal("Invalid configuration", zap.Error(err))
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgRepository, err := postgres.NewPgRepository(startCtx, appConfig.PostgresDSN())
	if err != nil {
		zap.L().Fatal("Failed to connect to postgres", zap.Error(err))
	}
	defer pgRepository.Close()

	if err := pgRepository.Migrate(startCtx); err != nil {
		zap.L().Fatal("Failed to migrate database", zap.Error(err))
	}

	redisClient, err := redisstore.NewClient(startCtx, appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)
	if err != nil {
		zap.L().Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	storage, err := media.NewBackend(appConfig)
	if err != nil {
		zap.L().Fatal("Failed to create media backend", zap.Error(err))
	}
	mediaStore := media.NewStore(storage, media.PublicBaseURL(appConfig))
	defer mediaStore.Close()

	healthChecks := map[string]httpserver.HealthCheck{
		"postgres": pgRepository.Ping,
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	}

	// A nil publisher disables events; deletions then clean up media inline.
	var eventPublisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(startCtx, appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Warn("RabbitMQ unavailable, continuing without events", zap.Error(err))
		} else {
			eventPublisher = publisher
			defer publisher.Close()
			healthChecks["rabbitmq"] = func(context.Context) error {
				if !publisher.IsHealthy() {
					return errors.New("connection closed")
				}
				return nil
			}
		}
	}

	tokens := token.NewManager(appConfig.JWTSecret, appConfig.TokenTTL, appConfig.ServiceName)
	sessions := redisstore.NewSessionStore(redisClient)

	app := httpserver.NewApp(httpserver.Options{
		Handlers: httpserver.Handlers{
			Login:  auth.NewLoginHandler(pgRepository, sessions, redisstore.NewLoginThrottle(redisClient), tokens),
			Logout: auth.NewLogoutHandler(sessions),
			Me:     auth.NewMeHandler(pgRepository),

			CreateBusiness:    business.NewCreateBusinessHandler(pgRepository, mediaStore, eventPublisher),
			GetBusinesses:     business.NewGetBusinessesHandler(pgRepository, mediaStore),
			GetUserBusinesses: business.NewGetUserBusinessesHandler(pgRepository, mediaStore),
			GetBusiness:       business.NewGetBusinessHandler(pgRepository, mediaStore),
			DeleteBusiness:    business.NewDeleteBusinessHandler(pgRepository, mediaStore, eventPublisher),

			CreateCategory: menu.NewCreateCategoryHandler(pgRepository, eventPublisher),
			GetCategories:  menu.NewGetCategoriesHandler(pgRepository),
			CreateItem:     menu.NewCreateItemHandler(pgRepository, mediaStore, eventPublisher),
			GetItems:       menu.NewGetItemsHandler(pgRepository, mediaStore),
		},
		Authenticator: auth.NewAuthenticator(tokens, sessions),
		Media:         mediaStore,
		HealthChecks:  healthChecks,
	})

	go func() {
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	go monitorPool(monitorCtx, pgRepository)

	gracefulShutdown(app)
	stopMonitor()
}

func monitorPool(ctx context.Context, pgRepository *postgres.PgRepository) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := pgRepository.GetPoolStats()
			zap.L().Info("Connection pool stats",
				zap.Int("max_open", stats["max_open_connections"].(int)),
				zap.Int("open", stats["open_connections"].(int)),
				zap.Int("in_use", stats["in_use"].(int)),
				zap.Int("idle", stats["idle"].(int)),
				zap.Int64("wait_count", stats["wait_count"].(int64)),
				zap.Int64("wait_duration_ms", stats["wait_duration_ms"].(int64)),
			)
		}
	}
}

func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
