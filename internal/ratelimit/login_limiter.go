// Package ratelimit throttles login attempts with a Redis fixed window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const loginAttemptPrefix = "login_attempts:"

// LoginLimiter counts failed-login windows per key (email plus client IP).
// A nil client disables limiting entirely. Redis outages fail open: an
// unreachable limiter must not lock every admin out.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter constructs a LoginLimiter. client may be nil.
func NewLoginLimiter(client *redis.Client, maxAttempts int64, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow records an attempt for the key and reports whether it is within the
// window budget.
func (l *LoginLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}

	redisKey := loginAttemptPrefix + key
	count, errIncr := l.client.Incr(ctx, redisKey).Result()
	if errIncr != nil {
		log.WithError(errIncr).Warn("login limiter unavailable, allowing attempt")
		return true
	}
	if count == 1 {
		if errExpire := l.client.Expire(ctx, redisKey, l.window).Err(); errExpire != nil {
			log.WithError(errExpire).Warn("login limiter expire failed")
		}
	}
	return count <= l.maxAttempts
}

// Reset clears the attempt counter for the key after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) {
	if l == nil || l.client == nil {
		return
	}
	if errDel := l.client.Del(ctx, loginAttemptPrefix+key).Err(); errDel != nil {
		log.WithError(errDel).Warn("login limiter reset failed")
	}
}

// Key builds the counter key for an email and client IP pair.
func Key(email, clientIP string) string {
	return fmt.Sprintf("%s:%s", email, clientIP)
}
