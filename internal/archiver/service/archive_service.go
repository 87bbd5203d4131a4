// Package service contains the archiver's event processing: upserting
// consumed transaction events into the MongoDB history archive, fronted by
// a worker pool.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/itonse/account/internal/domain/transaction"
)

// ArchiveServiceImpl implements ArchiveService on the archive repository
type ArchiveServiceImpl struct {
	archiveRepo transaction.ArchiveRepository
	logger      *slog.Logger
}

func NewArchiveService(logger *slog.Logger, archiveRepo transaction.ArchiveRepository) ArchiveService {
	return &ArchiveServiceImpl{
		archiveRepo: archiveRepo,
		logger:      logger,
	}
}

// ArchiveEvent upserts the event keyed by transaction ID. Redelivered
// events overwrite themselves, so at-least-once consumption is safe.
func (s *ArchiveServiceImpl) ArchiveEvent(ctx context.Context, event *transaction.Event) error {
	if err := s.archiveRepo.Upsert(ctx, event); err != nil {
		return fmt.Errorf("failed to archive transaction %s: %w", event.TransactionID, err)
	}

	s.logger.Debug("Archived transaction event",
		"transaction_id", event.TransactionID,
		"account_number", event.AccountNumber,
		"result", event.Result,
	)
	return nil
}
