package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"isletmenum/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// foreignKeyViolation is the Postgres SQLSTATE for a failed foreign key.
const foreignKeyViolation = "23503"

type PgRepository struct {
	db *sqlx.DB
}

func NewPgRepository(ctx context.Context, dsn string) (*PgRepository, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	// With 3 replicas × 15 conns = 45 connections, below the default max_connections=100.
	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PgRepository{db: db}, nil
}

func (r *PgRepository) Close() error {
	return r.db.Close()
}

func (r *PgRepository) Migrate(ctx context.Context) error {
	return Migrate(ctx, r.db)
}

func (r *PgRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// GetPoolStats returns current connection pool statistics
func (r *PgRepository) GetPoolStats() map[string]interface{} {
	stats := r.db.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}
}

// insertReturning runs a named INSERT ... RETURNING * and scans the row into dest.
func (r *PgRepository) insertReturning(ctx context.Context, query string, arg, dest interface{}) error {
	rows, err := r.db.NamedQueryContext(ctx, query, arg)
	if err != nil {
		return translate(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return translate(err)
		}
		return sql.ErrNoRows
	}
	return rows.StructScan(dest)
}

func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return fmt.Errorf("%w: %s", domain.ErrInvalidReference, pqErr.Constraint)
	}
	return err
}
