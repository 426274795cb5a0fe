package persistence

import (
	"context"
	"fmt"
	"time"

	apperrors "notion-sync/internal/shared/errors"
	"notion-sync/internal/shared/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const lockKeyPrefix = "notion-sync:run-lock:"

// releaseScript deletes the lock only when it still carries this
// run's token, so an expired lock re-acquired by another run is never
// released by the original holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisRunLock implements the RunLock interface using a Redis SET NX
// key with a TTL. The TTL bounds how long a crashed run can block the
// next one.
type RedisRunLock struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisRunLock creates a run lock scoped to one target database.
func NewRedisRunLock(client *redis.Client, databaseID string, ttl time.Duration, log logger.Logger) *RedisRunLock {
	return &RedisRunLock{
		client: client,
		key:    lockKeyPrefix + databaseID,
		token:  uuid.NewString(),
		ttl:    ttl,
		logger: log.WithComponent("run-lock"),
	}
}

// Acquire takes the lock, or returns ErrRunLockHeld when another run
// holds it.
func (l *RedisRunLock) Acquire(ctx context.Context) error {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		l.logger.Error("Failed to acquire run lock",
			zap.String("key", l.key),
			zap.Error(err))
		return fmt.Errorf("run lock acquire failed: %w", err)
	}
	if !ok {
		return apperrors.ErrRunLockHeld
	}

	l.logger.Debug("Run lock acquired",
		zap.String("key", l.key),
		zap.Duration("ttl", l.ttl))
	return nil
}

// Release frees the lock if this run still holds it.
func (l *RedisRunLock) Release(ctx context.Context) error {
	released, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
	if err != nil {
		l.logger.Error("Failed to release run lock",
			zap.String("key", l.key),
			zap.Error(err))
		return fmt.Errorf("run lock release failed: %w", err)
	}
	if released == 0 {
		l.logger.Warn("Run lock was not held at release",
			zap.String("key", l.key))
	}
	return nil
}
