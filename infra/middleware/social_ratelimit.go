package middleware

import (
	"fmt"
	"time"

	"social_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// SlidingWindowLimiter is a per-IP sliding window rate limiter backed by
// Redis. With no Redis client configured it degrades to allow-all.
type SlidingWindowLimiter struct {
	redis  *redis.Client
	rate   int
	burst  int
	window time.Duration
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(redisClient *redis.Client, requestsPerSecond, burst int) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		redis:  redisClient,
		rate:   requestsPerSecond,
		burst:  burst,
		window: time.Second,
	}
}

// Lua script for an atomic sliding window check.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local max_requests = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)
	if count < max_requests then
		redis.call('ZADD', key, now, now .. '-' .. math.random())
		redis.call('PEXPIRE', key, window_ms * 2)
		return 1
	end
	return 0
`)

// Allow checks whether a request under the given key may proceed.
func (l *SlidingWindowLimiter) Allow(c *fiber.Ctx, key string) (bool, error) {
	if l.redis == nil {
		return true, nil
	}

	now := time.Now()
	windowStart := now.Add(-l.window)
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	result, err := slidingWindowScript.Run(c.Context(), l.redis, []string{redisKey},
		now.UnixMilli(),
		windowStart.UnixMilli(),
		l.rate+l.burst,
		l.window.Milliseconds(),
	).Int()
	if err != nil {
		// Rate limiting must not take the API down with it.
		return true, err
	}
	return result == 1, nil
}

// Handler returns the fiber middleware.
func (l *SlidingWindowLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, _ := l.Allow(c, c.IP())
		if !allowed {
			return apperr.ErrRateLimited
		}
		return c.Next()
	}
}
