package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"isletmenum/infra/rabbitmq"
	"isletmenum/internal/consumers"
	"isletmenum/pkg/config"
	"isletmenum/pkg/events"
	"isletmenum/pkg/logger"
	"isletmenum/pkg/media"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	flush := logger.Init(appConfig.IsDevelopment())
	defer flush()

	zap.L().Info("Media cleanup worker starting...",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("mediaDriver", appConfig.MediaDriver),
	)

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for the worker")
	}

	storage, err := media.NewBackend(appConfig)
	if err != nil {
		zap.L().Fatal("Failed to create media backend", zap.Error(err))
	}
	mediaStore := media.NewStore(storage, media.PublicBaseURL(appConfig))
	defer mediaStore.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	routingKey := events.BusinessDeletedEvent + "." + events.EventVersionV1
	consumer, err := rabbitmq.NewConsumer(ctx, appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:      events.CatalogExchange,
		QueueName:     appConfig.ServiceName + ".media-cleanup." + routingKey,
		RoutingKeys:   []string{routingKey},
		ConsumerTag:   appConfig.ServiceName + "-media-cleanup",
		PrefetchCount: 10,
	})
	if err != nil {
		zap.L().Fatal("Failed to create consumer", zap.Error(err))
	}
	defer consumer.Close()

	handler := consumers.NewMediaCleanupHandler(mediaStore)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
			zap.L().Error("Consumer stopped", zap.Error(err))
		}
	}()

	zap.L().Info("Worker started, waiting for events",
		zap.String("exchange", events.CatalogExchange),
		zap.String("routingKey", routingKey),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		zap.L().Info("Shutdown signal received, stopping worker...")
	case <-done:
		zap.L().Warn("Consumer exited, stopping worker...")
	}
	cancel()
	<-done

	zap.L().Info("Worker stopped gracefully")
}
