package events

import (
	"context"

	"go.uber.org/zap"
)

// Publisher defines the interface for publishing domain events
type Publisher interface {
	// Publish publishes an event to the message broker
	Publish(ctx context.Context, exchange string, event *Event, headers Headers) error

	// Close closes the publisher connection
	Close() error
}

// Emit wraps payload in a v1 event and publishes it on the catalog
// exchange. A nil publisher is a no-op. Failures are logged and returned
// so callers that depend on delivery can fall back.
func Emit(ctx context.Context, publisher Publisher, eventName string, payload interface{}) error {
	if publisher == nil {
		return nil
	}

	headers := Headers{
		TraceID:       GenerateTraceID(),
		CorrelationID: GenerateCorrelationID(),
		Service:       ServiceName,
	}

	event := NewEvent(eventName, EventVersionV1, payload, headers)

	if err := publisher.Publish(ctx, CatalogExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish event",
			zap.String("event", eventName),
			zap.String("traceId", headers.TraceID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
