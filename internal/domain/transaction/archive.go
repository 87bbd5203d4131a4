package transaction

import "context"

// ArchiveRepository is the read-optimized transaction history store fed
// asynchronously from the outbox. It serves the per-account history query
// and never participates in balance decisions.
type ArchiveRepository interface {
	// Upsert stores an event keyed by transaction ID; replaying the same
	// event is a no-op so the archiver can safely reprocess.
	Upsert(ctx context.Context, event *Event) error
	ListByAccountNumber(ctx context.Context, accountNumber string, limit, offset int) ([]*Event, error)
	CountByAccountNumber(ctx context.Context, accountNumber string) (int64, error)
}
