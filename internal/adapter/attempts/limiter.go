package attempts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
)

// Limiter throttles repeated secret verification failures for one identity.
type Limiter interface {
	// Allow returns errors.ErrTooManyAttempts once the identity exhausted its window.
	Allow(ctx context.Context, key string) error
	Failed(ctx context.Context, key string)
	Succeeded(ctx context.Context, key string)
}

// Key builds a limiter key for identity of the given kind.
func Key(kind, identity string) string {
	return "pin_attempts:" + kind + ":" + strings.ToLower(identity)
}

// counter is the subset of the redis client used by RedisLimiter.
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisLimiter keeps a fixed-window failure counter per key.
// Redis errors never block a login; they are logged and the attempt is allowed.
type RedisLimiter struct {
	rdb    counter
	max    int64
	window time.Duration
	logger *slog.Logger
}

// NewRedisLimiter creates RedisLimiter allowing max failures per window.
func NewRedisLimiter(rdb counter, max int, window time.Duration, logger *slog.Logger) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, max: int64(max), window: window, logger: logger}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) error {
	count, err := l.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		l.logger.Warn("attempt limiter unavailable", slog.String("key", key), slog.Any("error", err))
		return nil
	}
	if count >= l.max {
		return domainErrors.ErrTooManyAttempts
	}
	return nil
}

// Failed implements Limiter.
func (l *RedisLimiter) Failed(ctx context.Context, key string) {
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("record failed attempt", slog.String("key", key), slog.Any("error", err))
		return
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("set attempt window", slog.String("key", key), slog.Any("error", err))
		}
	}
}

// Succeeded implements Limiter.
func (l *RedisLimiter) Succeeded(ctx context.Context, key string) {
	if err := l.rdb.Del(ctx, key).Err(); err != nil {
		l.logger.Warn("reset attempts", slog.String("key", key), slog.Any("error", err))
	}
}

// Noop never throttles.
type Noop struct{}

func (Noop) Allow(context.Context, string) error { return nil }
func (Noop) Failed(context.Context, string)      {}
func (Noop) Succeeded(context.Context, string)   {}
