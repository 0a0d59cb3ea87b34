package business

import (
	"context"

	"isletmenum/domain"
	"isletmenum/pkg/apperror"
)

type GetBusinessesHandler struct {
	repository Repository
	media      MediaStore
}

func NewGetBusinessesHandler(repository Repository, mediaStore MediaStore) *GetBusinessesHandler {
	return &GetBusinessesHandler{
		repository: repository,
		media:      mediaStore,
	}
}

type GetBusinessesRequest struct{}

type GetBusinessesResponse struct {
	Message    string            `json:"message"`
	Businesses []domain.Business `json:"businesses"`
}

// Handle lists every business regardless of owner, for browsing.
func (h GetBusinessesHandler) Handle(ctx context.Context, _ *GetBusinessesRequest) (*GetBusinessesResponse, error) {
	businesses, err := h.repository.GetBusinesses(ctx)
	if err != nil {
		return nil, apperror.Internal("business.index.failed", "Failed to retrieve businesses", nil).WithCause(err)
	}

	return &GetBusinessesResponse{
		Message:    "Businesses retrieved successfully",
		Businesses: withLogoURLs(h.media, businesses),
	}, nil
}
