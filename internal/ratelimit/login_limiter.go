package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrTooManyAttempts is returned once an account exceeds the window budget.
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// LoginLimiter tracks failed login attempts per email in Redis. It fails
// open: a nil client or an unreachable Redis never blocks a login.
type LoginLimiter struct {
	client      *redis.Client
	logger      *zap.Logger
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter builds a limiter; client may be nil when Redis is not
// configured.
func NewLoginLimiter(client *redis.Client, logger *zap.Logger, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{client: client, logger: logger, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether a login attempt for the email may proceed.
func (l *LoginLimiter) Allow(ctx context.Context, email string) error {
	if l.client == nil {
		return nil
	}
	count, err := l.client.Get(ctx, attemptKey(email)).Int64()
	if err != nil {
		if err != redis.Nil {
			l.logger.Warn("login limiter unavailable", zap.Error(err))
		}
		return nil
	}
	if count >= int64(l.maxAttempts) {
		return ErrTooManyAttempts
	}
	return nil
}

// RecordFailure increments the failed-attempt counter, starting the window
// on the first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) {
	if l.client == nil {
		return
	}
	key := attemptKey(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("failed to record login attempt", zap.Error(err))
		return
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("failed to set attempt window", zap.Error(err))
		}
	}
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if l.client == nil {
		return
	}
	if err := l.client.Del(ctx, attemptKey(email)).Err(); err != nil {
		l.logger.Warn("failed to reset login attempts", zap.Error(err))
	}
}

func attemptKey(email string) string {
	return "login:fail:" + email
}
