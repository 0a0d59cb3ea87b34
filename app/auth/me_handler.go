package auth

import (
	"context"
	"database/sql"
	"errors"

	"isletmenum/domain"
	"isletmenum/pkg/apperror"
)

type MeHandler struct {
	users UserRepository
}

type MeRequest struct{}

type MeResponse struct {
	User domain.User `json:"user"`
}

func NewMeHandler(users UserRepository) *MeHandler {
	return &MeHandler{
		users: users,
	}
}

func (h *MeHandler) Handle(ctx context.Context, _ *MeRequest) (*MeResponse, error) {
	principal, ok := PrincipalFrom(ctx)
	if !ok {
		return nil, unauthorized("Missing bearer token")
	}

	user, err := h.users.GetUserByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The account was removed while the session was alive.
			return nil, unauthorized("User no longer exists")
		}
		return nil, apperror.Internal("auth.me.failed", "Failed to load user", nil).WithCause(err)
	}

	return &MeResponse{User: user}, nil
}
