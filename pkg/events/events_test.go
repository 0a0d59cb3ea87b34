package events

import (
	"context"
	"errors"
	"testing"
)

type recordingPublisher struct {
	exchange string
	event    *Event
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, exchange string, event *Event, _ Headers) error {
	p.exchange = exchange
	p.event = event
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func TestEmit(t *testing.T) {
	p := &recordingPublisher{}

	err := Emit(context.Background(), p, BusinessDeletedEvent, BusinessDeletedPayload{ID: 3, MediaPaths: []string{"a.jpg"}})
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if p.exchange != CatalogExchange {
		t.Errorf("exchange = %q, want %q", p.exchange, CatalogExchange)
	}
	if got := p.event.GetRoutingKey(); got != "business.deleted.v1" {
		t.Errorf("routing key = %q, want business.deleted.v1", got)
	}
	if p.event.TraceID == "" {
		t.Errorf("trace id is empty")
	}
}

func TestEmitNilPublisher(t *testing.T) {
	if err := Emit(context.Background(), nil, BusinessCreatedEvent, nil); err != nil {
		t.Errorf("Emit(nil publisher) error = %v, want nil", err)
	}
}

func TestEmitReturnsPublishError(t *testing.T) {
	p := &recordingPublisher{err: errors.New("broker down")}
	if err := Emit(context.Background(), p, BusinessCreatedEvent, nil); err == nil {
		t.Errorf("Emit() error = nil, want broker error")
	}
}

func TestDecodePayload(t *testing.T) {
	event := NewEvent(BusinessDeletedEvent, EventVersionV1, map[string]any{
		"id":         float64(9),
		"mediaPaths": []any{"x.png", "y.jpg"},
	}, Headers{})

	var payload BusinessDeletedPayload
	if err := event.DecodePayload(&payload); err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	if payload.ID != 9 || len(payload.MediaPaths) != 2 {
		t.Errorf("DecodePayload() = %+v", payload)
	}
}
