package auth

import (
	"context"

	"isletmenum/pkg/apperror"

	"go.uber.org/zap"
)

type LogoutHandler struct {
	sessions SessionStore
}

type LogoutRequest struct{}

type LogoutResponse struct {
	Message string `json:"message"`
}

func NewLogoutHandler(sessions SessionStore) *LogoutHandler {
	return &LogoutHandler{
		sessions: sessions,
	}
}

func (h *LogoutHandler) Handle(ctx context.Context, _ *LogoutRequest) (*LogoutResponse, error) {
	principal, ok := PrincipalFrom(ctx)
	if !ok {
		return nil, unauthorized("Missing bearer token")
	}

	if err := h.sessions.Revoke(ctx, principal.SessionID); err != nil {
		return nil, apperror.Internal("auth.logout.failed", "Failed to end session", nil).WithCause(err)
	}

	zap.L().Info("User logged out", zap.Int64("userId", principal.UserID))

	return &LogoutResponse{Message: "Logout successful"}, nil
}
