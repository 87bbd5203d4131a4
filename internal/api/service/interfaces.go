package service

import (
	"context"

	"github.com/itonse/account/internal/domain/account"
	"github.com/itonse/account/internal/domain/transaction"
	"github.com/jackc/pgx/v5"
)

// AccountService defines the interface for account lifecycle operations
type AccountService interface {
	// CreateAccount opens a new account for the user with a freshly issued
	// account number. Returns ErrMaxAccountsPerUserExceeded when the user
	// already holds the maximum number of in-use accounts.
	CreateAccount(ctx context.Context, userID int64, initialBalance int64) (*account.Account, error)

	// DeleteAccount unregisters the user's account. The balance must be
	// zero and the account must belong to the user.
	DeleteAccount(ctx context.Context, userID int64, accountNumber string) (*account.Account, error)

	// ListAccounts returns all accounts the user has ever held,
	// unregistered ones included.
	ListAccounts(ctx context.Context, userID int64) ([]*account.Account, error)
}

// TransactionService defines the interface for balance mutations and
// ledger queries. Use and cancel serialize per account via the
// distributed lock.
type TransactionService interface {
	// UseBalance spends amount from the account. On a business rejection
	// it records a failure transaction and returns the rejection.
	UseBalance(ctx context.Context, userID int64, accountNumber string, amount int64) (*transaction.Transaction, error)

	// CancelBalance reverses a prior use in full. Partial amounts and
	// originals older than one year are rejected.
	CancelBalance(ctx context.Context, transactionID string, accountNumber string, amount int64) (*transaction.Transaction, error)

	// GetTransaction looks up a ledger record by its external ID.
	GetTransaction(ctx context.Context, transactionID string) (*transaction.Transaction, error)

	// GetTransactionHistory returns the account's archived transactions,
	// newest first, with the total count for pagination.
	GetTransactionHistory(ctx context.Context, accountNumber string, page, perPage int) ([]*transaction.Event, int64, error)
}

// TxRunner runs a function inside a single database transaction,
// committing on nil and rolling back otherwise. persistence.PostgresDB
// satisfies it.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
