package auth

import (
	"context"
	"errors"

	"isletmenum/pkg/apperror"
	"isletmenum/pkg/token"

	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// Authenticator validates bearer tokens. A token is accepted only when its
// signature and expiry are valid and its session has not been revoked.
type Authenticator struct {
	tokens   *token.Manager
	sessions SessionStore
}

func NewAuthenticator(tokens *token.Manager, sessions SessionStore) *Authenticator {
	return &Authenticator{
		tokens:   tokens,
		sessions: sessions,
	}
}

func (a *Authenticator) Validate(ctx context.Context, bearer string) (Principal, error) {
	if bearer == "" {
		return Principal{}, unauthorized("Missing bearer token")
	}

	claims, err := a.tokens.Parse(bearer)
	if err != nil {
		return Principal{}, unauthorized("Invalid or expired token").WithCause(err)
	}

	session, err := a.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Principal{}, unauthorized("Session has ended")
		}
		zap.L().Error("Failed to load session", zap.String("sessionId", claims.ID), zap.Error(err))
		return Principal{}, apperror.Internal("auth.session_lookup_failed", "Failed to validate session", nil).WithCause(err)
	}

	if session.UserID != claims.UserID {
		return Principal{}, unauthorized("Invalid or expired token")
	}

	return Principal{UserID: claims.UserID, SessionID: claims.ID}, nil
}

// Identify checks only the token's signature and expiry. It accepts tokens
// whose session has already ended, which keeps logout idempotent.
func (a *Authenticator) Identify(_ context.Context, bearer string) (Principal, error) {
	if bearer == "" {
		return Principal{}, unauthorized("Missing bearer token")
	}

	claims, err := a.tokens.Parse(bearer)
	if err != nil {
		return Principal{}, unauthorized("Invalid or expired token").WithCause(err)
	}

	return Principal{UserID: claims.UserID, SessionID: claims.ID}, nil
}

func unauthorized(message string) *apperror.Error {
	return apperror.Unauthorized("auth.unauthorized", message, nil)
}
