package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"isletmenum/app/auth"
	"isletmenum/domain"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps sessions until their token expires. Revoking a
// session deletes the key, so revocation is visible to every instance.
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{
		client: client,
		now:    time.Now,
	}
}

func (s *SessionStore) Create(ctx context.Context, session domain.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}

	value, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.client.Set(ctx, sessionKeyPrefix+session.ID, value, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	var session domain.Session

	value, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session, auth.ErrSessionNotFound
		}
		return session, err
	}

	if err := json.Unmarshal(value, &session); err != nil {
		return session, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return session, nil
}

func (s *SessionStore) Revoke(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}
