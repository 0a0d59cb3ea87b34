package auth

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"isletmenum/domain"
	"isletmenum/pkg/apperror"
	"isletmenum/pkg/token"

	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	users map[string]domain.User
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := f.users[email]
	if !ok {
		return domain.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id int64) (domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, sql.ErrNoRows
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]domain.Session)}
}

func (f *fakeSessions) Create(_ context.Context, s domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessions) Get(_ context.Context, id string) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessions) Revoke(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

type fakeThrottle struct {
	failures map[string]int
	locked   map[string]bool
}

func newFakeThrottle() *fakeThrottle {
	return &fakeThrottle{failures: make(map[string]int), locked: make(map[string]bool)}
}

func (f *fakeThrottle) WaitSeconds(_ context.Context, key string) (int, error) {
	if f.locked[key] {
		return 5, nil
	}
	return 0, nil
}

func (f *fakeThrottle) RecordFailure(_ context.Context, key string) error {
	f.failures[key]++
	f.locked[key] = true
	return nil
}

func (f *fakeThrottle) RecordSuccess(_ context.Context, key string) error {
	delete(f.failures, key)
	delete(f.locked, key)
	return nil
}

func newTestUsers(t *testing.T) *fakeUsers {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return &fakeUsers{users: map[string]domain.User{
		"a@b.com": {ID: 7, Email: "a@b.com", PasswordHash: string(hash), FirstName: "Ayşe", LastName: "Kaya"},
	}}
}

func TestLoginThenValidate(t *testing.T) {
	ctx := context.Background()
	sessions := newFakeSessions()
	tokens := token.NewManager("secret", time.Hour, "test")
	login := NewLoginHandler(newTestUsers(t), sessions, newFakeThrottle(), tokens)
	authn := NewAuthenticator(tokens, sessions)

	res, err := login.Handle(ctx, &LoginRequest{Email: " A@B.com ", Password: "pw"})
	if err != nil {
		t.Fatalf("Login error = %v", err)
	}
	if res.User.ID != 7 || res.Token == "" {
		t.Fatalf("Login response = %+v", res)
	}

	principal, err := authn.Validate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if principal.UserID != 7 {
		t.Errorf("Validate() user = %d, want 7", principal.UserID)
	}
}

func TestLoginInvalidCredentialsDoNotLeak(t *testing.T) {
	ctx := context.Background()
	throttle := newFakeThrottle()
	login := NewLoginHandler(newTestUsers(t), newFakeSessions(), throttle, token.NewManager("secret", time.Hour, "test"))

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong password", LoginRequest{Email: "a@b.com", Password: "nope"}},
		{"unknown email", LoginRequest{Email: "x@y.com", Password: "pw"}},
	}

	var codes []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := login.Handle(ctx, &tt.req)
			var appErr *apperror.Error
			if !errors.As(err, &appErr) || appErr.Kind != apperror.KindInvalidCredentials {
				t.Fatalf("Login error = %v, want invalid credentials", err)
			}
			codes = append(codes, appErr.Code+"|"+appErr.Message)
		})
	}

	if len(codes) == 2 && codes[0] != codes[1] {
		t.Errorf("failure responses differ: %q vs %q", codes[0], codes[1])
	}
	if throttle.failures[ThrottleKey("a@b.com", "")] != 1 || throttle.failures[ThrottleKey("x@y.com", "")] != 1 {
		t.Errorf("failures = %v, want one per email", throttle.failures)
	}
}

func TestLoginValidation(t *testing.T) {
	login := NewLoginHandler(newTestUsers(t), newFakeSessions(), nil, token.NewManager("secret", time.Hour, "test"))

	_, err := login.Handle(context.Background(), &LoginRequest{Email: "not-an-email"})
	if !apperror.Is(err, apperror.KindValidation) {
		t.Errorf("Login error = %v, want validation error", err)
	}
}

func TestLoginThrottled(t *testing.T) {
	throttle := newFakeThrottle()
	throttle.locked[ThrottleKey("a@b.com", "")] = true
	login := NewLoginHandler(newTestUsers(t), newFakeSessions(), throttle, token.NewManager("secret", time.Hour, "test"))

	_, err := login.Handle(context.Background(), &LoginRequest{Email: "a@b.com", Password: "pw"})
	if !apperror.Is(err, apperror.KindTooManyRequests) {
		t.Errorf("Login error = %v, want too many requests", err)
	}
}

func TestLoginFailureFromAnotherClientDoesNotLockOwner(t *testing.T) {
	ctx := context.Background()
	throttle := newFakeThrottle()
	login := NewLoginHandler(newTestUsers(t), newFakeSessions(), throttle, token.NewManager("secret", time.Hour, "test"))

	if _, err := login.Handle(ctx, &LoginRequest{Email: "a@b.com", Password: "guess", ClientIP: "203.0.113.9"}); !apperror.Is(err, apperror.KindInvalidCredentials) {
		t.Fatalf("wrong password error = %v, want invalid credentials", err)
	}

	res, err := login.Handle(ctx, &LoginRequest{Email: "a@b.com", Password: "pw", ClientIP: "198.51.100.7"})
	if err != nil {
		t.Fatalf("owner login error = %v, want success", err)
	}
	if res.Token == "" {
		t.Errorf("owner login returned no token")
	}

	if _, err := login.Handle(ctx, &LoginRequest{Email: "a@b.com", Password: "pw", ClientIP: "203.0.113.9"}); !apperror.Is(err, apperror.KindTooManyRequests) {
		t.Errorf("retry from failing client error = %v, want too many requests", err)
	}
}

func TestLoginComparesPasswordForUnknownEmail(t *testing.T) {
	login := NewLoginHandler(newTestUsers(t), newFakeSessions(), nil, token.NewManager("secret", time.Hour, "test"))

	var hashes [][]byte
	login.compare = func(hash, password []byte) error {
		hashes = append(hashes, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	for _, req := range []LoginRequest{
		{Email: "a@b.com", Password: "nope"},
		{Email: "x@y.com", Password: "pw"},
	} {
		if _, err := login.Handle(context.Background(), &req); !apperror.Is(err, apperror.KindInvalidCredentials) {
			t.Fatalf("Login(%s) error = %v, want invalid credentials", req.Email, err)
		}
	}

	if len(hashes) != 2 {
		t.Fatalf("compare calls = %d, want one per attempt", len(hashes))
	}
	cost, err := bcrypt.Cost(hashes[1])
	if err != nil || cost != bcrypt.DefaultCost {
		t.Errorf("unknown email compared against cost %d (%v), want %d", cost, err, bcrypt.DefaultCost)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	sessions := newFakeSessions()
	tokens := token.NewManager("secret", time.Hour, "test")
	login := NewLoginHandler(newTestUsers(t), sessions, nil, tokens)
	authn := NewAuthenticator(tokens, sessions)
	logout := NewLogoutHandler(sessions)

	res, err := login.Handle(ctx, &LoginRequest{Email: "a@b.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login error = %v", err)
	}
	principal, err := authn.Validate(ctx, res.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if _, err := logout.Handle(WithPrincipal(ctx, principal), &LogoutRequest{}); err != nil {
		t.Fatalf("Logout error = %v", err)
	}

	if _, err := authn.Validate(ctx, res.Token); !apperror.Is(err, apperror.KindUnauthorized) {
		t.Errorf("Validate() after logout error = %v, want unauthorized", err)
	}

	// Logging out twice is harmless.
	again, err := authn.Identify(ctx, res.Token)
	if err != nil {
		t.Fatalf("Identify() after logout error = %v", err)
	}
	if again != principal {
		t.Errorf("Identify() = %+v, want %+v", again, principal)
	}
	if _, err := logout.Handle(WithPrincipal(ctx, again), &LogoutRequest{}); err != nil {
		t.Errorf("second Logout error = %v, want nil", err)
	}
}

func TestValidateRejectsMalformed(t *testing.T) {
	authn := NewAuthenticator(token.NewManager("secret", time.Hour, "test"), newFakeSessions())

	for _, bearer := range []string{"", "abc", "a.b.c"} {
		if _, err := authn.Validate(context.Background(), bearer); !apperror.Is(err, apperror.KindUnauthorized) {
			t.Errorf("Validate(%q) error = %v, want unauthorized", bearer, err)
		}
		if _, err := authn.Identify(context.Background(), bearer); !apperror.Is(err, apperror.KindUnauthorized) {
			t.Errorf("Identify(%q) error = %v, want unauthorized", bearer, err)
		}
	}
}

func TestMeHandler(t *testing.T) {
	me := NewMeHandler(newTestUsers(t))

	res, err := me.Handle(WithPrincipal(context.Background(), Principal{UserID: 7, SessionID: "s"}), &MeRequest{})
	if err != nil {
		t.Fatalf("Me error = %v", err)
	}
	if res.User.Email != "a@b.com" {
		t.Errorf("Me user = %+v", res.User)
	}

	if _, err := me.Handle(context.Background(), &MeRequest{}); !apperror.Is(err, apperror.KindUnauthorized) {
		t.Errorf("Me without principal error = %v, want unauthorized", err)
	}
}
