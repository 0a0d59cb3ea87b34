package postgres

import (
	"context"

	"isletmenum/domain"
)

func (r *PgRepository) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	var u domain.User
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES (:email, :password_hash, :first_name, :last_name)
		RETURNING *`

	err := r.insertReturning(ctx, query, user, &u)
	return u, err
}

func (r *PgRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	query := `SELECT * FROM users WHERE lower(email) = lower($1)`

	err := r.db.GetContext(ctx, &u, query, email)
	return u, err
}

func (r *PgRepository) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &u, query, id)
	return u, err
}
