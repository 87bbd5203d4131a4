package transaction

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository manages the append-only transaction ledger. There is no
// update or delete on purpose.
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByTransactionID(ctx context.Context, transactionID string) (*Transaction, error)
	// HasSuccessfulCancel reports whether a successful cancel already
	// references the given original transaction.
	HasSuccessfulCancel(ctx context.Context, originalTransactionID string) (bool, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates missing ledger record
type ErrTransactionNotFound struct {
	TransactionID string
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID
}

// Is matches any ErrTransactionNotFound when the target carries no ID
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.TransactionID == "" {
		return true
	}
	return e.TransactionID == t.TransactionID
}

// ErrDuplicateTransaction indicates transaction ID uniqueness violation
type ErrDuplicateTransaction struct {
	TransactionID string
}

func (e ErrDuplicateTransaction) Error() string {
	return "duplicate transaction: " + e.TransactionID
}
