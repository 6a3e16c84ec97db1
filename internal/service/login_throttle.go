package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginThrottle bounds consecutive failed logins per email. Implementations
// fail open: a broken backend must never lock everyone out.
type LoginThrottle interface {
	Allow(ctx context.Context, email string) bool
	RecordFailure(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
}

const loginFailurePrefix = "login:fail:"

type redisLoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
	logger      *zap.Logger
}

// NewRedisLoginThrottle builds a fixed-window throttle on Redis counters.
func NewRedisLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration, logger *zap.Logger) LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &redisLoginThrottle{client: client, maxAttempts: maxAttempts, window: window, logger: logger}
}

func (t *redisLoginThrottle) Allow(ctx context.Context, email string) bool {
	count, err := t.client.Get(ctx, loginFailurePrefix+email).Int()
	if err != nil {
		if err != redis.Nil {
			t.logger.Warn("login throttle lookup failed", zap.Error(err))
		}
		return true
	}
	return count < t.maxAttempts
}

func (t *redisLoginThrottle) RecordFailure(ctx context.Context, email string) {
	key := loginFailurePrefix + email
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		t.logger.Warn("login throttle increment failed", zap.Error(err))
		return
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			t.logger.Warn("login throttle expire failed", zap.Error(err))
		}
	}
}

func (t *redisLoginThrottle) Reset(ctx context.Context, email string) {
	if err := t.client.Del(ctx, loginFailurePrefix+email).Err(); err != nil {
		t.logger.Warn("login throttle reset failed", zap.Error(err))
	}
}
