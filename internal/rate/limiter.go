// Package rate implementa rate limiting de ventana fija para los endpoints
// de autenticación. Hay dos backends: Redis (compartido entre réplicas) y
// memoria (go-cache, un solo proceso).
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Result struct {
	Allowed     bool
	Limit       int64
	Remaining   int64
	RetryAfter  time.Duration // > 0 sólo si !Allowed
	CurrentHits int64
}

// Limiter cuenta un hit para key y decide si pasa.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

func newResult(hits, max int64, untilReset time.Duration) Result {
	res := Result{
		Allowed:     hits <= max,
		Limit:       max,
		Remaining:   max - hits,
		CurrentHits: hits,
	}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfter = untilReset
	}
	return res
}

// RedisLimiter: fixed window con INCR + EXPIRE.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{client: client, prefix: prefix, max: int64(max), window: window, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	winStart := l.now().UTC().Truncate(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("rate: redis: %w", err)
	}

	remaining := ttl.Val()
	// primer hit de la ventana (o key sin expiración)
	if incr.Val() == 1 || remaining < 0 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("rate: redis expire: %w", err)
		}
		remaining = l.window
	}
	return newResult(incr.Val(), l.max, remaining), nil
}

func (l *RedisLimiter) Close() error { return l.client.Close() }
