package menu

import (
	"context"

	"isletmenum/domain"
	"isletmenum/pkg/apperror"
)

type GetItemsHandler struct {
	repository Repository
	media      MediaStore
}

func NewGetItemsHandler(repository Repository, mediaStore MediaStore) *GetItemsHandler {
	return &GetItemsHandler{
		repository: repository,
		media:      mediaStore,
	}
}

type GetItemsRequest struct {
	MenuID int64 `params:"menuId"`
}

// GetItemsResponse carries both collections so clients can group items by
// category without a second call.
type GetItemsResponse struct {
	Message    string                `json:"message"`
	MenuItems  []domain.MenuItem     `json:"menuItems"`
	Categories []domain.MenuCategory `json:"categories"`
}

func (h GetItemsHandler) Handle(ctx context.Context, req *GetItemsRequest) (*GetItemsResponse, error) {
	if err := existingMenu(ctx, h.repository, req.MenuID, "menu.item.index"); err != nil {
		return nil, err
	}

	items, err := h.repository.GetMenuItems(ctx, req.MenuID)
	if err != nil {
		return nil, apperror.Internal("menu.item.index.failed", "Failed to retrieve menu items", nil).WithCause(err)
	}

	categories, err := h.repository.GetMenuCategories(ctx, req.MenuID)
	if err != nil {
		return nil, apperror.Internal("menu.item.index.failed", "Failed to retrieve categories", nil).WithCause(err)
	}

	return &GetItemsResponse{
		Message:    "Menu items retrieved successfully",
		MenuItems:  withImageURLs(h.media, items),
		Categories: nonNilCategories(categories),
	}, nil
}
