package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/itonse/account/internal/domain/account"
	"github.com/itonse/account/internal/domain/apperrors"
	"github.com/itonse/account/internal/domain/outbox"
	"github.com/itonse/account/internal/domain/transaction"
	"github.com/itonse/account/internal/domain/user"
	"github.com/itonse/account/internal/platform/locking"
	"github.com/jackc/pgx/v5"
)

// TransactionServiceImpl implements TransactionService. Use and cancel run
// inside the per-account lock and commit the account update, the ledger
// append and the outbox message in one database transaction.
type TransactionServiceImpl struct {
	guard       *locking.Guard
	db          TxRunner
	userRepo    user.Repository
	accountRepo account.Repository
	txRepo      transaction.Repository
	outboxRepo  outbox.Repository
	archiveRepo transaction.ArchiveRepository
	logger      *slog.Logger
}

func NewTransactionService(
	logger *slog.Logger,
	guard *locking.Guard,
	db TxRunner,
	userRepo user.Repository,
	accountRepo account.Repository,
	txRepo transaction.Repository,
	outboxRepo outbox.Repository,
	archiveRepo transaction.ArchiveRepository,
) TransactionService {
	return &TransactionServiceImpl{
		guard:       guard,
		db:          db,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		outboxRepo:  outboxRepo,
		archiveRepo: archiveRepo,
		logger:      logger,
	}
}

// UseBalance spends amount from the account under its lock. A business
// rejection leaves one failure record in the ledger before surfacing.
func (s *TransactionServiceImpl) UseBalance(ctx context.Context, userID int64, accountNumber string, amount int64) (*transaction.Transaction, error) {
	var result *transaction.Transaction

	err := s.guard.WithLock(ctx, accountNumber, func(ctx context.Context) error {
		rec, err := s.applyUse(ctx, userID, accountNumber, amount)
		if err != nil {
			s.recordFailure(ctx, transaction.TypeUse, accountNumber, amount, "", err)
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Use succeeded",
		"account_number", accountNumber,
		"amount", amount,
		"transaction_id", result.TransactionID,
		"balance_snapshot", result.BalanceSnapshot,
	)
	return result, nil
}

// CancelBalance reverses a prior use under the account's lock. Only full
// cancellation of an original no older than one year is accepted.
func (s *TransactionServiceImpl) CancelBalance(ctx context.Context, transactionID string, accountNumber string, amount int64) (*transaction.Transaction, error) {
	var result *transaction.Transaction

	err := s.guard.WithLock(ctx, accountNumber, func(ctx context.Context) error {
		rec, err := s.applyCancel(ctx, transactionID, accountNumber, amount)
		if err != nil {
			s.recordFailure(ctx, transaction.TypeCancel, accountNumber, amount, transactionID, err)
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel succeeded",
		"account_number", accountNumber,
		"amount", amount,
		"transaction_id", result.TransactionID,
		"original_transaction_id", transactionID,
		"balance_snapshot", result.BalanceSnapshot,
	)
	return result, nil
}

// GetTransaction looks up a ledger record by its external ID
func (s *TransactionServiceImpl) GetTransaction(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	rec, err := s.txRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound{}) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, err
	}
	return rec, nil
}

// GetTransactionHistory serves the paginated per-account history from the
// archive, newest first
func (s *TransactionServiceImpl) GetTransactionHistory(ctx context.Context, accountNumber string, page, perPage int) ([]*transaction.Event, int64, error) {
	offset := (page - 1) * perPage

	events, err := s.archiveRepo.ListByAccountNumber(ctx, accountNumber, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.archiveRepo.CountByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (s *TransactionServiceImpl) applyUse(ctx context.Context, userID int64, accountNumber string, amount int64) (*transaction.Transaction, error) {
	var rec *transaction.Transaction

	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		owner, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound{}) {
				return apperrors.ErrUserNotFound
			}
			return err
		}

		accounts := s.accountRepo.WithTx(tx)
		acc, err := accounts.GetByNumber(ctx, accountNumber)
		if err != nil {
			if errors.Is(err, account.ErrAccountNotFound{}) {
				return apperrors.ErrAccountNotFound
			}
			return err
		}
		if acc.UserID != owner.ID {
			return apperrors.ErrUserAccountMismatch
		}

		if err := acc.UseBalance(amount); err != nil {
			return err
		}
		if err := accounts.Update(ctx, acc); err != nil {
			return err
		}

		rec = newLedgerRecord(transaction.TypeUse, transaction.ResultSuccess, acc, amount, "")
		return s.appendWithOutbox(ctx, tx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *TransactionServiceImpl) applyCancel(ctx context.Context, transactionID string, accountNumber string, amount int64) (*transaction.Transaction, error) {
	var rec *transaction.Transaction

	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		ledger := s.txRepo.WithTx(tx)
		original, err := ledger.GetByTransactionID(ctx, transactionID)
		if err != nil {
			if errors.Is(err, transaction.ErrTransactionNotFound{}) {
				return apperrors.ErrTransactionNotFound
			}
			return err
		}

		accounts := s.accountRepo.WithTx(tx)
		acc, err := accounts.GetByNumber(ctx, accountNumber)
		if err != nil {
			if errors.Is(err, account.ErrAccountNotFound{}) {
				return apperrors.ErrAccountNotFound
			}
			return err
		}

		if original.AccountID != acc.ID {
			return apperrors.ErrTransactionAccountMismatch
		}
		if original.Type != transaction.TypeUse || original.Result != transaction.ResultSuccess {
			return apperrors.ErrCancelTargetNotUse
		}
		cancelled, err := ledger.HasSuccessfulCancel(ctx, original.TransactionID)
		if err != nil {
			return err
		}
		if cancelled {
			return apperrors.ErrAlreadyCancelled
		}
		if original.Amount != amount {
			return apperrors.ErrCancelMustBeFull
		}
		if original.TransactedAt.Before(time.Now().AddDate(-1, 0, 0)) {
			return apperrors.ErrTooOldToCancel
		}

		if err := acc.CancelBalance(amount); err != nil {
			return err
		}
		if err := accounts.Update(ctx, acc); err != nil {
			return err
		}

		rec = newLedgerRecord(transaction.TypeCancel, transaction.ResultSuccess, acc, amount, original.TransactionID)
		return s.appendWithOutbox(ctx, tx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// appendWithOutbox writes the ledger record and its outbox message inside
// the caller's transaction, so a committed record always has a pending
// event waiting for the archiver.
func (s *TransactionServiceImpl) appendWithOutbox(ctx context.Context, tx pgx.Tx, rec *transaction.Transaction) error {
	if err := s.txRepo.WithTx(tx).Create(ctx, rec); err != nil {
		return err
	}

	msg, err := outbox.NewMessage(transaction.NewEvent(rec))
	if err != nil {
		return err
	}
	return s.outboxRepo.WithTx(tx).Create(ctx, msg)
}

// recordFailure appends one Failure record for a rejected attempt. It
// runs inside the account's lock, so the snapshot it reads is the true
// pre-attempt balance and cannot include a concurrent mutation. Nothing
// is recorded when the rejection is not a business error or when the
// account cannot be resolved; a failed write is logged and never masks
// the original rejection.
func (s *TransactionServiceImpl) recordFailure(ctx context.Context, txType transaction.Type, accountNumber string, amount int64, originalTransactionID string, cause error) {
	bizErr, ok := apperrors.AsBusiness(cause)
	if !ok {
		return
	}

	acc, err := s.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		s.logger.Warn("Skipping failure record, account not resolvable",
			"account_number", accountNumber,
			"code", bizErr.Code,
		)
		return
	}

	rec := newLedgerRecord(txType, transaction.ResultFailure, acc, amount, originalTransactionID)
	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return s.appendWithOutbox(ctx, tx, rec)
	})
	if err != nil {
		s.logger.Error("Failed to record failure transaction",
			"account_number", accountNumber,
			"code", bizErr.Code,
			"error", err,
		)
		return
	}

	s.logger.Info("Recorded failure transaction",
		"account_number", accountNumber,
		"transaction_id", rec.TransactionID,
		"code", bizErr.Code,
	)
}

func newLedgerRecord(txType transaction.Type, result transaction.Result, acc *account.Account, amount int64, originalTransactionID string) *transaction.Transaction {
	now := time.Now()
	return &transaction.Transaction{
		TransactionID:         transaction.NewTransactionID(),
		Type:                  txType,
		Result:                result,
		AccountID:             acc.ID,
		AccountNumber:         acc.AccountNumber,
		Amount:                amount,
		BalanceSnapshot:       acc.Balance,
		OriginalTransactionID: originalTransactionID,
		TransactedAt:          now,
		CreatedAt:             now,
	}
}
