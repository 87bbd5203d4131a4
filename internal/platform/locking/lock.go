// Package locking provides the per-account mutual exclusion used to
// serialize balance mutations. The lock lives in Redis so exclusion holds
// across processes: SET NX with a TTL to acquire, a holder-checked Lua
// script to release.
package locking

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/itonse/account/internal/config"
	"github.com/itonse/account/internal/domain/apperrors"
)

const lockKeyPrefix = "ACLK:"

// LockKey derives the Redis key for an account. Use and cancel both go
// through this, so every mutation of one account contends on one key.
func LockKey(accountNumber string) string {
	return lockKeyPrefix + accountNumber
}

// LockService acquires and releases named mutual-exclusion locks.
type LockService interface {
	// Acquire blocks up to the configured wait timeout and returns
	// apperrors.ErrLockAcquisitionFailed when the lock cannot be obtained
	// in that window.
	Acquire(ctx context.Context, key string) (Lock, error)
}

// Lock is a held lock. Release is idempotent and never returns an error:
// a failed or redundant release must not mask the guarded operation's
// outcome, and the hold timeout reclaims the key regardless.
type Lock interface {
	Release(ctx context.Context)
}

// releaseScript deletes the key only when it still carries our token, so
// an expired lock that was re-acquired by someone else is left alone.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`

// RedisLockService implements LockService on a Redis client.
type RedisLockService struct {
	client        *redis.Client
	waitTimeout   time.Duration
	holdTimeout   time.Duration
	retryInterval time.Duration
	logger        *slog.Logger
}

func NewRedisLockService(client *redis.Client, cfg *config.LockConfig, logger *slog.Logger) *RedisLockService {
	return &RedisLockService{
		client:        client,
		waitTimeout:   cfg.WaitTimeout,
		holdTimeout:   cfg.HoldTimeout,
		retryInterval: cfg.RetryInterval,
		logger:        logger,
	}
}

// Acquire retries SET NX until the wait deadline. Transport errors are
// logged and retried rather than surfaced: a failed SET NX means we do not
// hold the lock, so the caller can never end up believing otherwise.
func (s *RedisLockService) Acquire(ctx context.Context, key string) (Lock, error) {
	token := uuid.New().String()
	deadline := time.Now().Add(s.waitTimeout)

	for {
		acquired, err := s.client.SetNX(ctx, key, token, s.holdTimeout).Result()
		if err != nil {
			s.logger.Error("Redis error during lock acquisition", "key", key, "error", err)
		} else if acquired {
			s.logger.Debug("Acquired account lock", "key", key)
			return &redisLock{
				client: s.client,
				key:    key,
				token:  token,
				logger: s.logger,
			}, nil
		}

		if time.Now().After(deadline) {
			s.logger.Warn("Lock acquisition timed out", "key", key, "wait_timeout", s.waitTimeout.String())
			return nil, apperrors.ErrLockAcquisitionFailed
		}

		select {
		case <-ctx.Done():
			return nil, apperrors.ErrLockAcquisitionFailed
		case <-time.After(s.retryInterval):
		}
	}
}

type redisLock struct {
	client *redis.Client
	key    string
	token  string
	logger *slog.Logger
}

func (l *redisLock) Release(ctx context.Context) {
	if err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Err(); err != nil {
		// The hold timeout will reclaim the key; do not surface this.
		l.logger.Error("Failed to release account lock", "key", l.key, "error", err)
		return
	}
	l.logger.Debug("Released account lock", "key", l.key)
}
