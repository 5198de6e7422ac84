// Package ratelimit throttles pickup code attempts with a Redis sliding window.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// KEYS[1]=window key, ARGV: now(ms), window start(ms), window seconds, member, limit.
// Returns the count including this call, or -1 when the window is full.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowSec = tonumber(ARGV[3])
local member = ARGV[4]
local limit = tonumber(ARGV[5])

redis.call('ZREMRANGEBYSCORE', key, '0', windowStart)

local count = redis.call('ZCARD', key)
if count < limit then
  redis.call('ZADD', key, now, member)
  redis.call('EXPIRE', key, windowSec)
  return count + 1
end
return -1
`

const keyPrefix = "rate_limit:pickup:"

type Limiter interface {
	// Allow reports whether one more attempt under key fits the window.
	Allow(ctx context.Context, key string) bool
}

// Scripter is the part of *redis.Client the limiter uses.
type Scripter interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type RedisLimiter struct {
	rdb    Scripter
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(rdb Scripter, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, window: window, now: time.Now}
}

// Allow fails open: a Redis error never blocks a pickup at the counter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l.limit <= 0 {
		return true
	}

	now := l.now()
	nowMs := now.UnixMilli()
	windowSec := int64(l.window.Seconds())
	if windowSec < 1 {
		windowSec = 1
	}
	windowStart := nowMs - l.window.Milliseconds()
	member := fmt.Sprintf("%d-%d", nowMs, now.UnixNano())

	res, err := l.rdb.Eval(ctx, slidingWindowScript, []string{keyPrefix + key},
		nowMs, windowStart, windowSec, member, l.limit).Int()
	if err != nil {
		slog.WarnContext(ctx, "rate limiter unavailable, allowing request",
			slog.String("key", key), slog.String("error", err.Error()))
		return true
	}
	return res >= 0
}

type NoopLimiter struct{}

func (NoopLimiter) Allow(context.Context, string) bool { return true }
