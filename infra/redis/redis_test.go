package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"isletmenum/app/auth"
	"isletmenum/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSessionStoreLifecycle(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	session := domain.Session{ID: "jti-1", UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Get(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.UserID != 7 {
		t.Errorf("Get() user = %d, want 7", got.UserID)
	}

	if ttl := mr.TTL(sessionKeyPrefix + "jti-1"); ttl <= 0 || ttl > time.Hour {
		t.Errorf("session ttl = %s, want (0, 1h]", ttl)
	}

	if err := store.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if _, err := store.Get(ctx, "jti-1"); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Errorf("Get() after revoke error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStoreExpires(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	if err := store.Create(ctx, domain.Session{ID: "jti-2", UserID: 1, ExpiresAt: time.Now().Add(time.Minute)}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, "jti-2"); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Errorf("Get() after expiry error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStoreRejectsExpired(t *testing.T) {
	_, client := newTestClient(t)
	store := NewSessionStore(client)

	err := store.Create(context.Background(), domain.Session{ID: "old", UserID: 1, ExpiresAt: time.Now().Add(-time.Second)})
	if err == nil {
		t.Errorf("Create() with past expiry error = nil, want error")
	}
}

func TestCooldownSecondsForFailCount(t *testing.T) {
	tests := []struct {
		failCount int
		want      int
	}{
		{0, 1},
		{1, 2},
		{2, 4},
		{3, 8},
		{4, 16},
		{5, 30},
		{6, 30},
		{64, 30},
	}
	for _, tt := range tests {
		got := CooldownSecondsForFailCount(tt.failCount)
		if got != tt.want {
			t.Errorf("CooldownSecondsForFailCount(%d) = %d, want %d", tt.failCount, got, tt.want)
		}
	}
}

func TestLoginThrottle(t *testing.T) {
	mr, client := newTestClient(t)
	throttle := NewLoginThrottle(client)
	ctx := context.Background()
	const email = "a@b.com"

	wait, err := throttle.WaitSeconds(ctx, email)
	if err != nil || wait != 0 {
		t.Fatalf("WaitSeconds() = %d, %v; want 0, nil", wait, err)
	}

	if err := throttle.RecordFailure(ctx, email); err != nil {
		t.Fatalf("RecordFailure() error = %v", err)
	}
	wait, _ = throttle.WaitSeconds(ctx, email)
	if wait != 2 {
		t.Errorf("after one fail: wait = %d, want 2", wait)
	}

	mr.FastForward(3 * time.Second)
	wait, _ = throttle.WaitSeconds(ctx, email)
	if wait != 0 {
		t.Errorf("after cooldown: wait = %d, want 0", wait)
	}

	for i := 0; i < 8; i++ {
		_ = throttle.RecordFailure(ctx, email)
	}
	wait, _ = throttle.WaitSeconds(ctx, email)
	if wait != ThrottleCooldownCapSeconds {
		t.Errorf("after many fails: wait = %d, want %d", wait, ThrottleCooldownCapSeconds)
	}

	if err := throttle.RecordSuccess(ctx, email); err != nil {
		t.Fatalf("RecordSuccess() error = %v", err)
	}
	wait, _ = throttle.WaitSeconds(ctx, email)
	if wait != 0 {
		t.Errorf("after success: wait = %d, want 0", wait)
	}
}

func TestLoginThrottleKeysAreIndependent(t *testing.T) {
	_, client := newTestClient(t)
	throttle := NewLoginThrottle(client)
	ctx := context.Background()

	attacker := auth.ThrottleKey("a@b.com", "203.0.113.9")
	owner := auth.ThrottleKey("a@b.com", "198.51.100.7")

	if err := throttle.RecordFailure(ctx, attacker); err != nil {
		t.Fatalf("RecordFailure() error = %v", err)
	}

	if wait, _ := throttle.WaitSeconds(ctx, attacker); wait == 0 {
		t.Errorf("failing client wait = 0, want cooldown")
	}
	if wait, err := throttle.WaitSeconds(ctx, owner); err != nil || wait != 0 {
		t.Errorf("other client wait = %d, %v; want 0, nil", wait, err)
	}
}
