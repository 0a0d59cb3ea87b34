package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"isletmenum/pkg/events"
	"isletmenum/pkg/media"

	"github.com/gofiber/storage/memory/v2"
)

// roundTrip serializes the event the way the publisher does and decodes it
// the way the consumer does, so the payload arrives as a generic map.
func roundTrip(t *testing.T, e *events.Event) *events.Event {
	t.Helper()
	body, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	var out events.Event
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return &out
}

func TestMediaCleanupDeletesEveryPath(t *testing.T) {
	ctx := context.Background()
	store := media.NewStore(memory.New(), "http://cdn.test")

	var paths []string
	for _, prefix := range []string{"businesses/cafe/logo", "menus/1/items/latte"} {
		p, err := store.Save(ctx, prefix, &media.Upload{ContentType: "image/png", Data: []byte("png")})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		paths = append(paths, p)
	}
	// Already gone: must not fail the event.
	paths = append(paths, "menus/1/items/missing.png")

	event := roundTrip(t, events.NewEvent(events.BusinessDeletedEvent, events.EventVersionV1,
		events.BusinessDeletedPayload{ID: 1, OwnerUserID: 2, MediaPaths: paths}, events.Headers{TraceID: "t"}))

	if err := NewMediaCleanupHandler(store).HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	for _, p := range paths {
		if _, err := store.Open(ctx, p); !errors.Is(err, media.ErrNotFound) {
			t.Errorf("Open(%q) error = %v, want ErrNotFound", p, err)
		}
	}
}

type failingDeleter struct{}

func (failingDeleter) Delete(context.Context, string) error { return errors.New("bucket unavailable") }

func TestMediaCleanupErrors(t *testing.T) {
	tests := []struct {
		name    string
		event   *events.Event
		deleter MediaDeleter
		wantErr bool
	}{
		{
			name:    "malformed payload",
			event:   &events.Event{Event: events.BusinessDeletedEvent, Version: "v1", Payload: "not an object"},
			deleter: failingDeleter{},
			wantErr: true,
		},
		{
			name:    "missing id",
			event:   &events.Event{Event: events.BusinessDeletedEvent, Version: "v1", Payload: map[string]any{"mediaPaths": []string{}}},
			deleter: failingDeleter{},
			wantErr: true,
		},
		{
			name:    "storage failure",
			event:   &events.Event{Event: events.BusinessDeletedEvent, Version: "v1", Payload: events.BusinessDeletedPayload{ID: 1, MediaPaths: []string{"a.png"}}},
			deleter: failingDeleter{},
			wantErr: true,
		},
		{
			name:    "other event ignored",
			event:   &events.Event{Event: events.BusinessCreatedEvent, Version: "v1"},
			deleter: failingDeleter{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewMediaCleanupHandler(tt.deleter).HandleEvent(context.Background(), tt.event)
			if (err != nil) != tt.wantErr {
				t.Errorf("HandleEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
