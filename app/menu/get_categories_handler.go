package menu

import (
	"context"

	"isletmenum/app"
	"isletmenum/domain"
	"isletmenum/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type GetCategoriesHandler struct {
	repository Repository
	validate   *validator.Validate
}

func NewGetCategoriesHandler(repository Repository) *GetCategoriesHandler {
	return &GetCategoriesHandler{
		repository: repository,
		validate:   app.NewValidator(),
	}
}

// GetCategoriesRequest accepts menuId from a JSON body, a form or the
// query string; the mobile client has used all three.
type GetCategoriesRequest struct {
	MenuID int64 `json:"menuId" form:"menuId" query:"menuId" validate:"required,gt=0"`
}

type GetCategoriesResponse struct {
	Message    string                `json:"message"`
	Categories []domain.MenuCategory `json:"categories"`
}

func (h GetCategoriesHandler) Handle(ctx context.Context, req *GetCategoriesRequest) (*GetCategoriesResponse, error) {
	if err := app.ValidateStruct(h.validate, "menu.category.index.validation_failed", req); err != nil {
		return nil, err
	}

	if err := existingMenu(ctx, h.repository, req.MenuID, "menu.category.index"); err != nil {
		return nil, err
	}

	categories, err := h.repository.GetMenuCategories(ctx, req.MenuID)
	if err != nil {
		return nil, apperror.Internal("menu.category.index.failed", "Failed to retrieve categories", nil).WithCause(err)
	}

	return &GetCategoriesResponse{
		Message:    "Categories retrieved successfully",
		Categories: nonNilCategories(categories),
	}, nil
}
