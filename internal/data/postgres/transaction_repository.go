package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/itonse/account/internal/domain/transaction"
	"github.com/itonse/account/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TransactionRepository implements the transaction.Repository interface for
// PostgreSQL. The table is append-only: there is deliberately no update or
// delete statement in this file.
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create appends a ledger record
func (r *TransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, type, result, account_id, account_number, amount, balance_snapshot, original_transaction_id, transacted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		tx.TransactionID,
		tx.Type,
		tx.Result,
		tx.AccountID,
		tx.AccountNumber,
		tx.Amount,
		tx.BalanceSnapshot,
		nullableString(tx.OriginalTransactionID),
		tx.TransactedAt,
		tx.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return transaction.ErrDuplicateTransaction{TransactionID: tx.TransactionID}
		}
		r.logger.Error("Failed to create transaction", "transaction_id", tx.TransactionID, "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByTransactionID retrieves a ledger record by its external token
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	query := `
		SELECT transaction_id, type, result, account_id, account_number, amount, balance_snapshot, original_transaction_id, transacted_at, created_at
		FROM transactions
		WHERE transaction_id = $1
	`

	var tx transaction.Transaction
	var originalID *string
	err := r.querier.QueryRow(ctx, query, transactionID).Scan(
		&tx.TransactionID,
		&tx.Type,
		&tx.Result,
		&tx.AccountID,
		&tx.AccountNumber,
		&tx.Amount,
		&tx.BalanceSnapshot,
		&originalID,
		&tx.TransactedAt,
		&tx.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get transaction", "transaction_id", transactionID, "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if originalID != nil {
		tx.OriginalTransactionID = *originalID
	}

	return &tx, nil
}

// HasSuccessfulCancel reports whether a successful cancel already
// references the given original transaction
func (r *TransactionRepository) HasSuccessfulCancel(ctx context.Context, originalTransactionID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE original_transaction_id = $1 AND type = $2 AND result = $3
		)
	`

	var exists bool
	err := r.querier.QueryRow(ctx, query, originalTransactionID, transaction.TypeCancel, transaction.ResultSuccess).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check for existing cancel", "original_transaction_id", originalTransactionID, "error", err)
		return false, fmt.Errorf("failed to check for existing cancel: %w", err)
	}

	return exists, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
