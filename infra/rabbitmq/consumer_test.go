package rabbitmq

import (
	"context"
	"errors"
	"testing"

	"isletmenum/pkg/events"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeAck struct {
	acked, nacked, requeued bool
}

func (a *fakeAck) Ack(bool) error { a.acked = true; return nil }

func (a *fakeAck) Nack(_ bool, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

func TestProcess(t *testing.T) {
	valid := `{"event":"business.deleted","version":"v1","payload":{"id":7}}`

	tests := []struct {
		name       string
		body       string
		handlerErr error
		wantAck    bool
		wantCalled bool
	}{
		{"handled", valid, nil, true, true},
		{"handler fails", valid, errors.New("boom"), false, true},
		{"not json", `{oops`, nil, false, false},
		{"missing version", `{"event":"business.deleted"}`, nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAck{}
			called := false
			handler := func(_ context.Context, e *events.Event) error {
				called = true
				if e.GetRoutingKey() != "business.deleted.v1" {
					t.Errorf("routing key = %q", e.GetRoutingKey())
				}
				return tt.handlerErr
			}

			process(context.Background(), []byte(tt.body), amqp.Table{"x-trace-id": "t-1"}, ack, handler)

			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
			if ack.acked != tt.wantAck || ack.nacked == tt.wantAck {
				t.Errorf("acked = %v nacked = %v, want ack %v", ack.acked, ack.nacked, tt.wantAck)
			}
			if ack.requeued {
				t.Errorf("message requeued, want dead-lettered")
			}
		})
	}
}

func TestConsumerConfigDeadLetterNames(t *testing.T) {
	cfg := ConsumerConfig{Exchange: events.CatalogExchange, QueueName: "media-cleanup"}
	if got := cfg.DeadLetterExchange(); got != "isletmenum.catalog.dlx" {
		t.Errorf("DeadLetterExchange() = %q", got)
	}
	if got := cfg.DeadLetterQueue(); got != "media-cleanup.dlq" {
		t.Errorf("DeadLetterQueue() = %q", got)
	}
}

func TestNewConsumerRejectsIncompleteConfig(t *testing.T) {
	_, err := NewConsumer(context.Background(), "amqp://unused", ConsumerConfig{Exchange: "x"})
	if err == nil {
		t.Fatal("NewConsumer() error = nil, want config error")
	}
}
