package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"isletmenum/pkg/events"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	publishTimeout = 5 * time.Second
	confirmBuffer  = 16
)

var errNotAcked = errors.New("message was not acknowledged by broker")

// Publisher implements events.Publisher on a single confirm-mode channel.
// Publishes are serialized and confirmations are matched by delivery tag.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	confirms chan amqp.Confirmation
	declared map[string]bool
	service  string
}

var _ events.Publisher = (*Publisher)(nil)

func NewPublisher(ctx context.Context, url, service string) (*Publisher, error) {
	conn, err := dial(ctx, url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		closeAll(nil, conn)
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		closeAll(channel, conn)
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	zap.L().Info("RabbitMQ publisher connected", zap.String("service", service))

	return &Publisher{
		conn:     conn,
		channel:  channel,
		confirms: channel.NotifyPublish(make(chan amqp.Confirmation, confirmBuffer)),
		declared: make(map[string]bool),
		service:  service,
	}, nil
}

// Publish sends event to exchange with the event's routing key and waits
// for the broker confirmation.
func (p *Publisher) Publish(ctx context.Context, exchange string, event *events.Event, headers events.Headers) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		DeliveryMode:  amqp.Persistent,
		Timestamp:     event.Timestamp,
		CorrelationId: headers.CorrelationID,
		Headers: amqp.Table{
			"x-trace-id":       headers.TraceID,
			"x-correlation-id": headers.CorrelationID,
			"x-service":        p.service,
		},
	}
	routingKey := event.GetRoutingKey()

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.declared[exchange] {
		if err := declareTopicExchange(p.channel, exchange); err != nil {
			return fmt.Errorf("declare exchange %s: %w", exchange, err)
		}
		p.declared[exchange] = true
	}

	tag := p.channel.GetNextPublishSeqNo()
	if err := p.channel.PublishWithContext(publishCtx, exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	if err := awaitConfirm(publishCtx, p.confirms, tag); err != nil {
		return fmt.Errorf("confirm %s: %w", routingKey, err)
	}

	zap.L().Info("Event published",
		zap.String("exchange", exchange),
		zap.String("routingKey", routingKey),
		zap.String("traceId", headers.TraceID),
	)
	return nil
}

// awaitConfirm waits for the confirmation of tag. Confirmations of earlier
// publishes that timed out arrive late and are discarded.
func awaitConfirm(ctx context.Context, confirms <-chan amqp.Confirmation, tag uint64) error {
	for {
		select {
		case confirm, ok := <-confirms:
			if !ok {
				return amqp.ErrClosed
			}
			if confirm.DeliveryTag < tag {
				continue
			}
			if !confirm.Ack {
				return errNotAcked
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Publisher) IsHealthy() bool {
	if p == nil || p.conn == nil || p.channel == nil {
		return false
	}
	return !p.conn.IsClosed() && !p.channel.IsClosed()
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := closeAll(p.channel, p.conn)
	zap.L().Info("RabbitMQ publisher closed")
	return err
}
