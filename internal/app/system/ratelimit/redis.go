// internal/app/system/ratelimit/redis.go
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisLimiter is a fixed-window counter shared by every server that talks
// to the same Redis. Redis errors let the request through.
type RedisLimiter struct {
	c        *redis.Client
	prefix   string
	limit    int64
	duration time.Duration
	logger   *zap.Logger
}

// NewRedis creates a limiter whose keys live under prefix.
func NewRedis(c *redis.Client, prefix string, limit int, duration time.Duration, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		c:        c,
		prefix:   prefix,
		limit:    int64(limit),
		duration: duration,
		logger:   logger,
	}
}

// Allow increments the key's counter, starting the window on the first hit.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	k := l.prefix + key

	n, err := l.c.Incr(ctx, k).Result()
	if err == nil && n == 1 {
		err = l.c.PExpire(ctx, k, l.duration).Err()
	} else if err == nil {
		// A counter left without expiry would block key forever.
		var ttl time.Duration
		if ttl, err = l.c.PTTL(ctx, k).Result(); err == nil && ttl < 0 {
			err = l.c.PExpire(ctx, k, l.duration).Err()
		}
	}
	if err != nil {
		l.logger.Warn("rate limit check failed; allowing request",
			zap.String("key", k), zap.Error(err))
		return true
	}
	return n <= l.limit
}

// Reset clears the counter for key.
func (l *RedisLimiter) Reset(ctx context.Context, key string) {
	if err := l.c.Del(ctx, l.prefix+key).Err(); err != nil {
		l.logger.Warn("rate limit reset failed", zap.String("key", key), zap.Error(err))
	}
}

// Backend hands out counters on one store: Redis when a client is
// configured, otherwise process memory.
type Backend struct {
	redis  *redis.Client
	logger *zap.Logger

	mu     sync.Mutex
	memory []*Limiter
}

// NewBackend returns a Backend. client may be nil.
func NewBackend(client *redis.Client, logger *zap.Logger) *Backend {
	return &Backend{redis: client, logger: logger}
}

// Shared reports whether counters are shared through Redis.
func (b *Backend) Shared() bool { return b.redis != nil }

// Counter returns a counter named name allowing limit hits per duration.
func (b *Backend) Counter(name string, limit int, duration time.Duration) Counter {
	if b.redis != nil {
		return NewRedis(b.redis, "orkestra:rl:"+name+":", limit, duration, b.logger)
	}
	l := New(limit, duration)
	b.mu.Lock()
	b.memory = append(b.memory, l)
	b.mu.Unlock()
	return l
}

// Stop ends the cleanup goroutines of every in-memory counter.
func (b *Backend) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, l := range b.memory {
		l.Stop()
	}
	b.memory = nil
}
