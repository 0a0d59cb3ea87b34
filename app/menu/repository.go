package menu

import (
	"context"
	"database/sql"
	"errors"

	"isletmenum/app/auth"
	"isletmenum/domain"
	"isletmenum/pkg/apperror"
	"isletmenum/pkg/media"
)

type Repository interface {
	GetBusiness(ctx context.Context, id int64) (domain.Business, error)

	CreateMenuCategory(ctx context.Context, category domain.MenuCategory) (domain.MenuCategory, error)
	GetMenuCategories(ctx context.Context, menuID int64) ([]domain.MenuCategory, error)
	GetMenuCategory(ctx context.Context, id int64) (domain.MenuCategory, error)

	CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	GetMenuItems(ctx context.Context, menuID int64) ([]domain.MenuItem, error)
}

type MediaStore interface {
	Save(ctx context.Context, prefix string, upload *media.Upload) (string, error)
	Delete(ctx context.Context, path string) error
	ResolveURL(path *string) *string
}

// ownedMenu loads the business behind menuID for a write and checks that
// the caller owns it. A missing menu is a validation failure here, not a
// 404, because the id came from the request body.
func ownedMenu(ctx context.Context, repository Repository, menuID int64, op string) (domain.Business, error) {
	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return domain.Business{}, apperror.Unauthorized("auth.unauthorized", "Missing bearer token", nil)
	}

	business, err := repository.GetBusiness(ctx, menuID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Business{}, apperror.Validation(op+".menu_not_found", "Menu does not exist", map[string]string{"menuId": "exists"})
		}
		return domain.Business{}, apperror.Internal(op+".failed", "Failed to retrieve menu", nil).WithCause(err)
	}
	if business.OwnerUserID != principal.UserID {
		return domain.Business{}, apperror.Forbidden(op+".forbidden", "You are not authorized to modify this menu", nil)
	}

	return business, nil
}

// existingMenu is the read-side check: a missing menu is a 404.
func existingMenu(ctx context.Context, repository Repository, menuID int64, op string) error {
	if _, err := repository.GetBusiness(ctx, menuID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound(op+".not_found", "Menu not found", nil)
		}
		return apperror.Internal(op+".failed", "Failed to retrieve menu", nil).WithCause(err)
	}
	return nil
}

func withImageURLs(store MediaStore, items []domain.MenuItem) []domain.MenuItem {
	out := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		item.ImageURL = store.ResolveURL(item.ImagePath)
		out = append(out, item)
	}
	return out
}

func nonNilCategories(categories []domain.MenuCategory) []domain.MenuCategory {
	if categories == nil {
		return []domain.MenuCategory{}
	}
	return categories
}
