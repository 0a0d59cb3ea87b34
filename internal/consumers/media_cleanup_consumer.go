package consumers

import (
	"context"
	"errors"
	"fmt"

	"isletmenum/pkg/events"

	"go.uber.org/zap"
)

// MediaDeleter removes one stored object. Deleting a missing object is
// not an error.
type MediaDeleter interface {
	Delete(ctx context.Context, path string) error
}

// MediaCleanupHandler removes the blobs of deleted businesses.
type MediaCleanupHandler struct {
	media MediaDeleter
}

func NewMediaCleanupHandler(media MediaDeleter) *MediaCleanupHandler {
	return &MediaCleanupHandler{media: media}
}

func (h *MediaCleanupHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	switch event.Event {
	case events.BusinessDeletedEvent:
		return h.handleBusinessDeleted(ctx, event)
	default:
		zap.L().Warn("Ignoring unexpected event", zap.String("event", event.Event))
		return nil
	}
}

func (h *MediaCleanupHandler) handleBusinessDeleted(ctx context.Context, event *events.Event) error {
	var payload events.BusinessDeletedPayload
	if err := event.DecodePayload(&payload); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	if payload.ID == 0 {
		return errors.New("malformed payload: business id missing")
	}

	var errs []error
	for _, path := range payload.MediaPaths {
		if err := h.media.Delete(ctx, path); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("clean up media of business %d: %w", payload.ID, err)
	}

	zap.L().Info("Removed media of deleted business",
		zap.Int64("businessId", payload.ID),
		zap.Int("objects", len(payload.MediaPaths)),
		zap.String("traceId", event.TraceID),
	)
	return nil
}
