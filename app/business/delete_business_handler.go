package business

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"isletmenum/app/auth"
	"isletmenum/pkg/apperror"
	"isletmenum/pkg/events"

	"go.uber.org/zap"
)

type DeleteBusinessHandler struct {
	repository     Repository
	media          MediaStore
	eventPublisher events.Publisher
}

func NewDeleteBusinessHandler(repository Repository, mediaStore MediaStore, eventPublisher events.Publisher) *DeleteBusinessHandler {
	return &DeleteBusinessHandler{
		repository:     repository,
		media:          mediaStore,
		eventPublisher: eventPublisher,
	}
}

type DeleteBusinessRequest struct {
	BusinessID int64 `params:"id"`
}

type DeleteBusinessResponse struct {
	Message string `json:"message"`
}

// Handle deletes a business together with its categories and items. The
// media blobs are removed afterwards: by the worker when events are
// enabled, inline otherwise.
func (h DeleteBusinessHandler) Handle(ctx context.Context, req *DeleteBusinessRequest) (*DeleteBusinessResponse, error) {
	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return nil, apperror.Unauthorized("auth.unauthorized", "Missing bearer token", nil)
	}

	business, err := h.repository.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("business.destroy.not_found", "Business not found", nil)
		}
		return nil, apperror.Internal("business.destroy.failed", "Failed to retrieve business", nil).WithCause(err)
	}
	if business.OwnerUserID != principal.UserID {
		return nil, apperror.Forbidden("business.destroy.forbidden", "You are not authorized to delete this business", nil)
	}

	paths, err := h.repository.DeleteBusiness(ctx, business.ID, principal.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("business.destroy.not_found", "Business not found", nil)
		}
		return nil, apperror.Internal("business.destroy.failed", "Failed to delete business", nil).WithCause(err)
	}

	err = events.Emit(ctx, h.eventPublisher, events.BusinessDeletedEvent, events.BusinessDeletedPayload{
		ID:          business.ID,
		OwnerUserID: business.OwnerUserID,
		MediaPaths:  paths,
		DeletedAt:   time.Now().UTC(),
	})
	if h.eventPublisher == nil || err != nil {
		h.deleteMedia(ctx, paths)
	}

	return &DeleteBusinessResponse{Message: "Business deleted successfully"}, nil
}

func (h DeleteBusinessHandler) deleteMedia(ctx context.Context, paths []string) {
	for _, path := range paths {
		if err := h.media.Delete(ctx, path); err != nil {
			zap.L().Error("Failed to delete media of deleted business", zap.String("path", path), zap.Error(err))
		}
	}
}
