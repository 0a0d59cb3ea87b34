package redis

import (
	"context"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ThrottleCooldownCapSeconds = 30

	failKeyPrefix = "login:fails:"
	lockKeyPrefix = "login:lock:"

	// Failure counters are forgotten after an hour without new failures.
	failWindow = time.Hour
)

type LoginThrottle struct {
	client *redis.Client
}

func NewLoginThrottle(client *redis.Client) *LoginThrottle {
	return &LoginThrottle{
		client: client,
	}
}

// WaitSeconds returns how many seconds key must wait before trying again
// (0 if no cooldown).
func (t *LoginThrottle) WaitSeconds(ctx context.Context, key string) (int, error) {
	ttl, err := t.client.PTTL(ctx, lockKeyPrefix+key).Result()
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		return 0, nil
	}
	return int(math.Ceil(ttl.Seconds())), nil
}

// RecordFailure increments the failure count and locks key for
// min(30, 2^failCount) seconds.
func (t *LoginThrottle) RecordFailure(ctx context.Context, key string) error {
	var incr *redis.IntCmd
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, failKeyPrefix+key)
		pipe.Expire(ctx, failKeyPrefix+key, failWindow)
		return nil
	})
	if err != nil {
		return err
	}

	cooldown := time.Duration(CooldownSecondsForFailCount(int(incr.Val()))) * time.Second
	return t.client.Set(ctx, lockKeyPrefix+key, incr.Val(), cooldown).Err()
}

// RecordSuccess resets the failure count and cooldown.
func (t *LoginThrottle) RecordSuccess(ctx context.Context, key string) error {
	return t.client.Del(ctx, failKeyPrefix+key, lockKeyPrefix+key).Err()
}

func CooldownSecondsForFailCount(failCount int) int {
	if failCount >= 5 {
		return ThrottleCooldownCapSeconds
	}
	s := int(math.Pow(2, float64(failCount)))
	if s > ThrottleCooldownCapSeconds {
		return ThrottleCooldownCapSeconds
	}
	return s
}
