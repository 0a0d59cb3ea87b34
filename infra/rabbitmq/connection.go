package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const dialAttempts = 5

// dial connects to the broker, backing off linearly between attempts.
// The broker often starts after the API in docker-compose.
func dial(ctx context.Context, url string) (*amqp.Connection, error) {
	var lastErr error
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		conn, err := amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		lastErr = err

		zap.L().Warn("Failed to connect to RabbitMQ, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return nil, fmt.Errorf("connect to RabbitMQ after %d attempts: %w", dialAttempts, lastErr)
}

func declareTopicExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
}

// closeAll closes the channel and connection, logging failures.
func closeAll(ch *amqp.Channel, conn *amqp.Connection) error {
	if ch != nil {
		if err := ch.Close(); err != nil && err != amqp.ErrClosed {
			zap.L().Error("Failed to close RabbitMQ channel", zap.Error(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil && err != amqp.ErrClosed {
			zap.L().Error("Failed to close RabbitMQ connection", zap.Error(err))
			return err
		}
	}
	return nil
}
