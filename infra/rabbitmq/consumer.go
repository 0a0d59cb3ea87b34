package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"isletmenum/pkg/events"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	defaultPrefetch = 10
	handleTimeout   = 30 * time.Second
)

// EventHandler processes one decoded event. A returned error dead-letters
// the message.
type EventHandler func(ctx context.Context, event *events.Event) error

type Consumer struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	queueName   string
	consumerTag string
}

type ConsumerConfig struct {
	Exchange      string   // e.g. "isletmenum.catalog"
	QueueName     string   // e.g. "media-cleanup.business.deleted.v1"
	RoutingKeys   []string // e.g. ["business.deleted.v1"]
	ConsumerTag   string
	PrefetchCount int // 0 uses the default
}

// DeadLetterExchange and DeadLetterQueue name the DLX/DLQ pair derived from
// the consumer's exchange and queue.
func (c ConsumerConfig) DeadLetterExchange() string { return c.Exchange + ".dlx" }

func (c ConsumerConfig) DeadLetterQueue() string { return c.QueueName + ".dlq" }

func NewConsumer(ctx context.Context, url string, config ConsumerConfig) (*Consumer, error) {
	if config.Exchange == "" || config.QueueName == "" || len(config.RoutingKeys) == 0 {
		return nil, errors.New("consumer needs an exchange, a queue and at least one routing key")
	}

	conn, err := dial(ctx, url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		closeAll(nil, conn)
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(channel, config); err != nil {
		closeAll(channel, conn)
		return nil, err
	}

	zap.L().Info("RabbitMQ consumer ready",
		zap.String("queue", config.QueueName),
		zap.String("exchange", config.Exchange),
		zap.Strings("routingKeys", config.RoutingKeys),
	)

	return &Consumer{
		conn:        conn,
		channel:     channel,
		queueName:   config.QueueName,
		consumerTag: config.ConsumerTag,
	}, nil
}

// declareTopology sets QoS and declares the exchange, its DLX, the queue
// (dead-lettering into the DLX) and the DLQ, then binds both queues.
func declareTopology(ch *amqp.Channel, config ConsumerConfig) error {
	prefetch := config.PrefetchCount
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}

	dlx := config.DeadLetterExchange()
	for _, exchange := range []string{config.Exchange, dlx} {
		if err := declareTopicExchange(ch, exchange); err != nil {
			return fmt.Errorf("declare exchange %s: %w", exchange, err)
		}
	}

	if _, err := ch.QueueDeclare(config.QueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": dlx,
	}); err != nil {
		return fmt.Errorf("declare queue %s: %w", config.QueueName, err)
	}

	dlq := config.DeadLetterQueue()
	if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", dlq, err)
	}

	for _, key := range config.RoutingKeys {
		if err := ch.QueueBind(config.QueueName, key, config.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s to %s: %w", config.QueueName, key, err)
		}
		if err := ch.QueueBind(dlq, key, dlx, false, nil); err != nil {
			return fmt.Errorf("bind %s to %s: %w", dlq, key, err)
		}
	}
	return nil
}

// Consume blocks, dispatching deliveries to handler until ctx is cancelled
// or the broker closes the channel.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	deliveries, err := c.channel.Consume(c.queueName, c.consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	zap.L().Info("Started consuming", zap.String("queue", c.queueName))

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Consumer stopping", zap.String("queue", c.queueName))
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.dispatch(ctx, d, handler)
		}
	}
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery, handler EventHandler) {
	process(ctx, d.Body, d.Headers, d, handler)
}

// process decodes body and runs handler; malformed bodies and handler
// failures are nacked without requeue so they land in the DLQ.
func process(ctx context.Context, body []byte, headers amqp.Table, ack acknowledger, handler EventHandler) {
	traceID, _ := headers["x-trace-id"].(string)
	log := zap.L().With(zap.String("traceId", traceID))

	event, err := decodeEvent(body)
	if err != nil {
		log.Error("Dropping malformed message", zap.Error(err))
		if err := ack.Nack(false, false); err != nil {
			log.Error("Failed to nack message", zap.Error(err))
		}
		return
	}

	handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	if err := handler(handleCtx, event); err != nil {
		log.Error("Failed to process event", zap.String("event", event.Event), zap.Error(err))
		if err := ack.Nack(false, false); err != nil {
			log.Error("Failed to nack message", zap.Error(err))
		}
		return
	}

	if err := ack.Ack(false); err != nil {
		log.Error("Failed to ack message", zap.Error(err))
		return
	}
	log.Info("Event processed", zap.String("event", event.Event))
}

func decodeEvent(body []byte) (*events.Event, error) {
	var event events.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if event.Event == "" || event.Version == "" {
		return nil, errors.New("decode event: missing name or version")
	}
	return &event, nil
}

func (c *Consumer) Close() error {
	err := closeAll(c.channel, c.conn)
	zap.L().Info("RabbitMQ consumer closed", zap.String("queue", c.queueName))
	return err
}
