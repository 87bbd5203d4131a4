package service

import (
	"context"

	"github.com/itonse/account/internal/domain/transaction"
)

// ArchiveService materializes transaction events into the history archive.
type ArchiveService interface {
	ArchiveEvent(ctx context.Context, event *transaction.Event) error
}
