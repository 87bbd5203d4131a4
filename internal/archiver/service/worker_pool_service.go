package service

import (
	"context"
	"log/slog"

	"github.com/itonse/account/internal/config"
	"github.com/itonse/account/internal/domain/transaction"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolArchiveService decorates an ArchiveService with an ants worker
// pool. The Kafka consumer blocks on the result, so offsets are still
// committed only after the event landed in the archive, but archive writes
// for different partitions no longer contend on one goroutine.
type WorkerPoolArchiveService struct {
	baseService ArchiveService
	pool        *ants.Pool
	logger      *slog.Logger
}

func NewWorkerPoolArchiveService(
	baseService ArchiveService,
	cfg *config.WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolArchiveService, error) {
	pool, err := ants.NewPool(cfg.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolArchiveService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// ArchiveEvent submits the event to the worker pool and waits for the
// outcome.
func (s *WorkerPoolArchiveService) ArchiveEvent(ctx context.Context, event *transaction.Event) error {
	resultChan := make(chan error, 1)

	// Copy the event so the worker never races the caller's buffer
	eventCopy := *event

	err := s.pool.Submit(func() {
		resultChan <- s.baseService.ArchiveEvent(ctx, &eventCopy)
	})
	if err != nil {
		s.logger.Error("Failed to submit event to worker pool",
			"transaction_id", event.TransactionID,
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool
func (s *WorkerPoolArchiveService) Shutdown() {
	s.logger.Info("Shutting down archiver worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool
func (s *WorkerPoolArchiveService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool
func (s *WorkerPoolArchiveService) Capacity() int {
	return s.pool.Cap()
}
