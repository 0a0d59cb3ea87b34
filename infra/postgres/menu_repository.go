package postgres

import (
	"context"

	"isletmenum/domain"
)

func (r *PgRepository) CreateMenuCategory(ctx context.Context, category domain.MenuCategory) (domain.MenuCategory, error) {
	var c domain.MenuCategory
	query := `
		INSERT INTO menu_categories (name, menu_id)
		VALUES (:name, :menu_id)
		RETURNING *`

	err := r.insertReturning(ctx, query, category, &c)
	return c, err
}

func (r *PgRepository) GetMenuCategories(ctx context.Context, menuID int64) ([]domain.MenuCategory, error) {
	categories := make([]domain.MenuCategory, 0)
	query := `SELECT * FROM menu_categories WHERE menu_id = $1 ORDER BY created_at, id`

	if err := r.db.SelectContext(ctx, &categories, query, menuID); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PgRepository) GetMenuCategory(ctx context.Context, id int64) (domain.MenuCategory, error) {
	var c domain.MenuCategory
	query := `SELECT * FROM menu_categories WHERE id = $1`

	err := r.db.GetContext(ctx, &c, query, id)
	return c, err
}

func (r *PgRepository) CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	var i domain.MenuItem
	query := `
		INSERT INTO menu_items (
			name, description, price, image_path,
			volume, ingredients, menu_id, category_id
		) VALUES (
			:name, :description, :price, :image_path,
			:volume, :ingredients, :menu_id, :category_id
		) RETURNING *`

	err := r.insertReturning(ctx, query, item, &i)
	return i, err
}

func (r *PgRepository) GetMenuItems(ctx context.Context, menuID int64) ([]domain.MenuItem, error) {
	items := make([]domain.MenuItem, 0)
	query := `SELECT * FROM menu_items WHERE menu_id = $1 ORDER BY created_at, id`

	if err := r.db.SelectContext(ctx, &items, query, menuID); err != nil {
		return nil, err
	}
	return items, nil
}
