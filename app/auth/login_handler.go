package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"isletmenum/app"
	"isletmenum/domain"
	"isletmenum/pkg/apperror"
	"isletmenum/pkg/token"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// dummyPasswordHash is compared against when the email is unknown so both
// failure paths cost one bcrypt comparison.
var dummyPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("isletmenum-no-such-user"), bcrypt.DefaultCost)

type LoginHandler struct {
	users    UserRepository
	sessions SessionStore
	throttle LoginThrottle
	tokens   *token.Manager
	validate *validator.Validate
	compare  func(hash, password []byte) error
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	ClientIP string `json:"-" form:"-" query:"-" params:"-" reqHeader:"-"`
}

// SetClientIP records the caller's address for throttling.
func (r *LoginRequest) SetClientIP(ip string) {
	r.ClientIP = ip
}

type LoginResponse struct {
	Message   string      `json:"message"`
	User      domain.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func NewLoginHandler(users UserRepository, sessions SessionStore, throttle LoginThrottle, tokens *token.Manager) *LoginHandler {
	return &LoginHandler{
		users:    users,
		sessions: sessions,
		throttle: throttle,
		tokens:   tokens,
		validate: app.NewValidator(),
		compare:  bcrypt.CompareHashAndPassword,
	}
}

func (h *LoginHandler) Handle(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	req.Email = NormalizeEmail(req.Email)

	if err := app.ValidateStruct(h.validate, "auth.login.validation_failed", req); err != nil {
		return nil, err
	}

	throttleKey := ThrottleKey(req.Email, req.ClientIP)

	if h.throttle != nil {
		wait, err := h.throttle.WaitSeconds(ctx, throttleKey)
		if err != nil {
			zap.L().Warn("Login throttle lookup failed", zap.Error(err))
		}
		if wait > 0 {
			return nil, apperror.TooManyRequests(
				"auth.login.throttled",
				"Too many failed attempts, try again later",
				map[string]int{"retryAfterSeconds": wait},
			)
		}
	}

	user, err := h.users.GetUserByEmail(ctx, req.Email)
	found := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.Internal("auth.login.failed", "Failed to log in", nil).WithCause(err)
	}

	hash := dummyPasswordHash
	if found {
		hash = []byte(user.PasswordHash)
	}
	if h.compare(hash, []byte(req.Password)) != nil || !found {
		h.recordFailure(ctx, throttleKey)
		return nil, apperror.InvalidCredentials("auth.login.invalid_credentials", "Invalid credentials", nil)
	}

	signed, claims, err := h.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.Internal("auth.login.token_failed", "Failed to issue token", nil).WithCause(err)
	}

	session := domain.Session{
		ID:        claims.ID,
		UserID:    user.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := h.sessions.Create(ctx, session); err != nil {
		return nil, apperror.Internal("auth.login.session_failed", "Failed to start session", nil).WithCause(err)
	}

	if h.throttle != nil {
		if err := h.throttle.RecordSuccess(ctx, throttleKey); err != nil {
			zap.L().Warn("Failed to reset login throttle", zap.Error(err))
		}
	}

	zap.L().Info("User logged in", zap.Int64("userId", user.ID))

	return &LoginResponse{
		Message:   "Login successful",
		User:      user,
		Token:     signed,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (h *LoginHandler) recordFailure(ctx context.Context, key string) {
	if h.throttle == nil {
		return
	}
	if err := h.throttle.RecordFailure(ctx, key); err != nil {
		zap.L().Warn("Failed to record failed login", zap.Error(err))
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ThrottleKey scopes failed login tracking to one email from one client
// address, so failures from elsewhere cannot lock the owner out.
func ThrottleKey(email, clientIP string) string {
	return email + "|" + clientIP
}
