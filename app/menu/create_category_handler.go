package menu

import (
	"context"
	"strings"

	"isletmenum/app"
	"isletmenum/domain"
	"isletmenum/pkg/apperror"
	"isletmenum/pkg/events"

	"github.com/go-playground/validator/v10"
)

type CreateCategoryHandler struct {
	repository     Repository
	eventPublisher events.Publisher
	validate       *validator.Validate
}

func NewCreateCategoryHandler(repository Repository, eventPublisher events.Publisher) *CreateCategoryHandler {
	return &CreateCategoryHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
		validate:       app.NewValidator(),
	}
}

type CreateCategoryRequest struct {
	Name   string `json:"name" form:"name" validate:"required,max=255"`
	MenuID int64  `json:"menuId" form:"menuId" validate:"required,gt=0"`
}

type CreateCategoryResponse struct {
	Message    string                `json:"message"`
	Category   domain.MenuCategory   `json:"category"`
	Categories []domain.MenuCategory `json:"categories"`
}

func (h *CreateCategoryHandler) Handle(ctx context.Context, req *CreateCategoryRequest) (*CreateCategoryResponse, error) {
	req.Name = strings.TrimSpace(req.Name)

	if err := app.ValidateStruct(h.validate, "menu.category.create.validation_failed", req); err != nil {
		return nil, err
	}

	business, err := ownedMenu(ctx, h.repository, req.MenuID, "menu.category.create")
	if err != nil {
		return nil, err
	}

	category, err := h.repository.CreateMenuCategory(ctx, domain.MenuCategory{
		Name:   req.Name,
		MenuID: business.MenuID(),
	})
	if err != nil {
		return nil, apperror.Internal("menu.category.create.create_failed", "An error occurred while creating the category", nil).WithCause(err)
	}

	categories, err := h.repository.GetMenuCategories(ctx, category.MenuID)
	if err != nil {
		return nil, apperror.Internal("menu.category.create.list_failed", "Category created but the list could not be loaded", nil).WithCause(err)
	}

	_ = events.Emit(ctx, h.eventPublisher, events.MenuCategoryCreatedEvent, events.MenuCategoryCreatedPayload{
		ID:        category.ID,
		MenuID:    category.MenuID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
	})

	return &CreateCategoryResponse{
		Message:    "Category created successfully",
		Category:   category,
		Categories: nonNilCategories(categories),
	}, nil
}
