package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements a fixed-window request counter backed by Redis.
// Key format: ratelimit:<source>. The counter expires when the window rolls
// over, so a source's budget resets at most window after its first request.
type RateLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewRateLimiter creates a RateLimiter allowing max requests per window for
// each source.
func NewRateLimiter(client *redis.Client, max int, window time.Duration) *RateLimiter {
	if max <= 0 {
		max = 100
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RateLimiter{client: client, max: max, window: window}
}

// Allow reports whether source still has budget in the current window.
func (l *RateLimiter) Allow(ctx context.Context, source string) (bool, error) {
	key := l.key(source)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	// First hit of the window starts the clock.
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= int64(l.max), nil
}

func (l *RateLimiter) key(source string) string {
	return "ratelimit:" + source
}
