package business

import (
	"context"
	"database/sql"
	"errors"

	"isletmenum/domain"
	"isletmenum/pkg/apperror"
)

type GetBusinessHandler struct {
	repository Repository
	media      MediaStore
}

func NewGetBusinessHandler(repository Repository, mediaStore MediaStore) *GetBusinessHandler {
	return &GetBusinessHandler{
		repository: repository,
		media:      mediaStore,
	}
}

type GetBusinessRequest struct {
	BusinessID int64 `params:"id"`
}

type GetBusinessResponse struct {
	Message  string          `json:"message"`
	Business domain.Business `json:"business"`
}

func (h GetBusinessHandler) Handle(ctx context.Context, req *GetBusinessRequest) (*GetBusinessResponse, error) {
	business, err := h.repository.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("business.show.not_found", "Business not found", nil)
		}
		return nil, apperror.Internal("business.show.failed", "Failed to retrieve business", nil).WithCause(err)
	}

	return &GetBusinessResponse{
		Message:  "Business retrieved successfully",
		Business: withLogoURL(h.media, business),
	}, nil
}
