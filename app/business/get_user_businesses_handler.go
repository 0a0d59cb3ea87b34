package business

import (
	"context"

	"isletmenum/app/auth"
	"isletmenum/pkg/apperror"
)

type GetUserBusinessesHandler struct {
	repository Repository
	media      MediaStore
}

func NewGetUserBusinessesHandler(repository Repository, mediaStore MediaStore) *GetUserBusinessesHandler {
	return &GetUserBusinessesHandler{
		repository: repository,
		media:      mediaStore,
	}
}

type GetUserBusinessesRequest struct{}

// Handle lists the caller's own businesses. An empty list means the caller
// has not onboarded yet.
func (h GetUserBusinessesHandler) Handle(ctx context.Context, _ *GetUserBusinessesRequest) (*GetBusinessesResponse, error) {
	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return nil, apperror.Unauthorized("auth.unauthorized", "Missing bearer token", nil)
	}

	businesses, err := h.repository.GetUserBusinesses(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.Internal("business.user_index.failed", "Failed to retrieve businesses", nil).WithCause(err)
	}

	return &GetBusinessesResponse{
		Message:    "Businesses retrieved successfully",
		Businesses: withLogoURLs(h.media, businesses),
	}, nil
}
