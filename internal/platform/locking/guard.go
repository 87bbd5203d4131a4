package locking

import (
	"context"
	"log/slog"
)

// Guard wraps per-account operations with acquire/invoke/release. It does
// not inspect or transform the operation's error; it only guarantees the
// lock lifecycle around it.
type Guard struct {
	locks  LockService
	logger *slog.Logger
}

func NewGuard(locks LockService, logger *slog.Logger) *Guard {
	return &Guard{
		locks:  locks,
		logger: logger,
	}
}

// WithLock runs fn while holding the lock for accountNumber. The deferred
// release covers every exit path, including a panic inside fn. Operations
// on distinct account numbers proceed in parallel.
func (g *Guard) WithLock(ctx context.Context, accountNumber string, fn func(ctx context.Context) error) error {
	lock, err := g.locks.Acquire(ctx, LockKey(accountNumber))
	if err != nil {
		g.logger.Warn("Guarded operation rejected, lock not acquired", "account_number", accountNumber)
		return err
	}
	defer lock.Release(ctx)

	return fn(ctx)
}
