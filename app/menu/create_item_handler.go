package menu

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"isletmenum/app"
	"isletmenum/domain"
	"isletmenum/pkg/apperror"
	"isletmenum/pkg/events"
	"isletmenum/pkg/media"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxPrice is the first value that no longer fits NUMERIC(12,2).
var maxPrice = decimal.New(1, 10)

type CreateItemHandler struct {
	repository     Repository
	media          MediaStore
	eventPublisher events.Publisher
	validate       *validator.Validate
}

func NewCreateItemHandler(repository Repository, mediaStore MediaStore, eventPublisher events.Publisher) *CreateItemHandler {
	return &CreateItemHandler{
		repository:     repository,
		media:          mediaStore,
		eventPublisher: eventPublisher,
		validate:       app.NewValidator(),
	}
}

type CreateItemRequest struct {
	Name        string        `json:"name" form:"name" validate:"required,max=255"`
	Description string        `json:"description" form:"description" validate:"max=2000"`
	Price       json.Number   `json:"price" form:"price" validate:"required"`
	Volume      string        `json:"volume" form:"volume" validate:"max=100"`
	Ingredients string        `json:"ingredients" form:"ingredients" validate:"max=2000"`
	MenuID      int64         `json:"menuId" form:"menuId" validate:"required,gt=0"`
	CategoryID  int64         `json:"categoryId" form:"categoryId" validate:"required,gt=0"`
	Image       *media.Upload `json:"-" form:"-"`
}

func (r *CreateItemRequest) FileField() string { return "image" }

func (r *CreateItemRequest) AttachFile(upload *media.Upload) { r.Image = upload }

type CreateItemResponse struct {
	Message    string                `json:"message"`
	MenuItem   domain.MenuItem       `json:"menuItem"`
	MenuItems  []domain.MenuItem     `json:"menuItems"`
	Categories []domain.MenuCategory `json:"categories"`
}

// Handle runs every check before the image is written, so a rejected
// request never leaves a blob behind.
func (h *CreateItemHandler) Handle(ctx context.Context, req *CreateItemRequest) (*CreateItemResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)

	if err := app.ValidateStruct(h.validate, "menu.item.create.validation_failed", req); err != nil {
		return nil, err
	}

	price, err := ParsePrice(string(req.Price))
	if err != nil {
		return nil, err
	}

	if req.Image != nil {
		if err := req.Image.Validate(); err != nil {
			return nil, err
		}
	}

	business, err := ownedMenu(ctx, h.repository, req.MenuID, "menu.item.create")
	if err != nil {
		return nil, err
	}

	category, err := h.repository.GetMenuCategory(ctx, req.CategoryID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.Internal("menu.item.create.failed", "Failed to retrieve category", nil).WithCause(err)
	}
	if err != nil || category.MenuID != business.MenuID() {
		return nil, categoryMismatch()
	}

	item := domain.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Volume:      optional(req.Volume),
		Ingredients: optional(req.Ingredients),
		MenuID:      business.MenuID(),
		CategoryID:  category.ID,
	}

	if req.Image != nil {
		prefix := media.Key("menus", strconv.FormatInt(item.MenuID, 10), "items", req.Name)
		path, err := h.media.Save(ctx, prefix, req.Image)
		if err != nil {
			return nil, err
		}
		item.ImagePath = &path
	}

	created, err := h.repository.CreateMenuItem(ctx, item)
	if err != nil {
		h.discardImage(ctx, item.ImagePath)
		if errors.Is(err, domain.ErrInvalidReference) {
			return nil, categoryMismatch()
		}
		return nil, apperror.Internal("menu.item.create.create_failed", "An error occurred while creating the menu item", nil).WithCause(err)
	}

	items, err := h.repository.GetMenuItems(ctx, created.MenuID)
	if err != nil {
		return nil, apperror.Internal("menu.item.create.list_failed", "Menu item created but the list could not be loaded", nil).WithCause(err)
	}
	categories, err := h.repository.GetMenuCategories(ctx, created.MenuID)
	if err != nil {
		return nil, apperror.Internal("menu.item.create.list_failed", "Menu item created but the list could not be loaded", nil).WithCause(err)
	}

	_ = events.Emit(ctx, h.eventPublisher, events.MenuItemCreatedEvent, events.MenuItemCreatedPayload{
		ID:         created.ID,
		MenuID:     created.MenuID,
		CategoryID: created.CategoryID,
		Name:       created.Name,
		Price:      created.Price,
		ImagePath:  created.ImagePath,
		CreatedAt:  created.CreatedAt,
	})

	created.ImageURL = h.media.ResolveURL(created.ImagePath)

	return &CreateItemResponse{
		Message:    "Menu item created successfully",
		MenuItem:   created,
		MenuItems:  withImageURLs(h.media, items),
		Categories: nonNilCategories(categories),
	}, nil
}

func (h *CreateItemHandler) discardImage(ctx context.Context, path *string) {
	if path == nil {
		return
	}
	if err := h.media.Delete(ctx, *path); err != nil {
		zap.L().Error("Failed to remove image of unsaved menu item", zap.String("path", *path), zap.Error(err))
	}
}

// ParsePrice accepts a non-negative decimal below 10^10 and rounds it to
// two fraction digits.
func ParsePrice(raw string) (decimal.Decimal, error) {
	invalid := apperror.Validation("menu.item.create.invalid_price", "Price must be a non-negative number", map[string]string{"price": "decimal"})

	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, invalid.WithCause(err)
	}
	if price.IsNegative() {
		return decimal.Decimal{}, invalid
	}
	price = price.Round(2)
	if price.GreaterThanOrEqual(maxPrice) {
		return decimal.Decimal{}, invalid
	}

	return price, nil
}

func categoryMismatch() error {
	return apperror.Validation("menu.item.create.invalid_category", "Category does not belong to this menu", map[string]string{"categoryId": "menu"})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
