package middleware

import (
	"context"
	"strings"

	"isletmenum/app/auth"

	"github.com/gofiber/fiber/v2"
)

type TokenValidator interface {
	Validate(ctx context.Context, bearer string) (auth.Principal, error)
}

type TokenIdentifier interface {
	Identify(ctx context.Context, bearer string) (auth.Principal, error)
}

// NewAuthMiddleware rejects requests without a valid bearer token before
// any handler runs and stores the caller's principal in the user context.
// Rejections are returned to the app's error handler.
func NewAuthMiddleware(validator TokenValidator) fiber.Handler {
	return authenticate(validator.Validate)
}

// NewTokenMiddleware is NewAuthMiddleware without the session check: a
// signed, unexpired token is enough even after its session has ended.
func NewTokenMiddleware(identifier TokenIdentifier) fiber.Handler {
	return authenticate(identifier.Identify)
}

func authenticate(check func(ctx context.Context, bearer string) (auth.Principal, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}

		principal, err := check(userCtx, BearerToken(c.Get(fiber.HeaderAuthorization)))
		if err != nil {
			return err
		}

		c.SetUserContext(auth.WithPrincipal(userCtx, principal))
		return c.Next()
	}
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively; anything else yields "".
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
