package auth

import (
	"context"

	"isletmenum/domain"
)

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, id string) (domain.Session, error)
	Revoke(ctx context.Context, id string) error
}

// LoginThrottle slows down repeated failed logins for one key built by
// ThrottleKey.
type LoginThrottle interface {
	WaitSeconds(ctx context.Context, key string) (int, error)
	RecordFailure(ctx context.Context, key string) error
	RecordSuccess(ctx context.Context, key string) error
}
