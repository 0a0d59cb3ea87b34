package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"isletmenum/domain"
)

func (r *PgRepository) CreateBusiness(ctx context.Context, business domain.Business) (domain.Business, error) {
	var b domain.Business
	query := `
		INSERT INTO businesses (name, description, type, logo, owner_user_id)
		VALUES (:name, :description, :type, :logo, :owner_user_id)
		RETURNING *`

	err := r.insertReturning(ctx, query, business, &b)
	return b, err
}

func (r *PgRepository) GetBusinesses(ctx context.Context) ([]domain.Business, error) {
	businesses := make([]domain.Business, 0)
	query := `SELECT * FROM businesses ORDER BY created_at DESC, id DESC`

	if err := r.db.SelectContext(ctx, &businesses, query); err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *PgRepository) GetUserBusinesses(ctx context.Context, ownerID int64) ([]domain.Business, error) {
	businesses := make([]domain.Business, 0)
	query := `SELECT * FROM businesses WHERE owner_user_id = $1 ORDER BY created_at DESC, id DESC`

	if err := r.db.SelectContext(ctx, &businesses, query, ownerID); err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *PgRepository) GetBusiness(ctx context.Context, id int64) (domain.Business, error) {
	var b domain.Business
	query := `SELECT * FROM businesses WHERE id = $1`

	err := r.db.GetContext(ctx, &b, query, id)
	return b, err
}

// DeleteBusiness deletes the business and, through ON DELETE CASCADE, its
// categories and items. The media paths referenced by the removed rows are
// collected in the same transaction and returned.
func (r *PgRepository) DeleteBusiness(ctx context.Context, id int64, ownerID int64) ([]string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var logo sql.NullString
	err = tx.GetContext(ctx, &logo, `SELECT logo FROM businesses WHERE id = $1 AND owner_user_id = $2 FOR UPDATE`, id, ownerID)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0)
	if err := tx.SelectContext(ctx, &paths, `SELECT image_path FROM menu_items WHERE menu_id = $1 AND image_path IS NOT NULL ORDER BY id`, id); err != nil {
		return nil, fmt.Errorf("collect item images: %w", err)
	}
	if logo.Valid && logo.String != "" {
		paths = append(paths, logo.String)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM businesses WHERE id = $1 AND owner_user_id = $2`, id, ownerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return paths, nil
}
