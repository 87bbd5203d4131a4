package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strconv"

	"github.com/itonse/account/internal/domain/account"
	"github.com/itonse/account/internal/domain/apperrors"
	"github.com/itonse/account/internal/domain/user"
)

const (
	// maxAccountsPerUser caps concurrently held in-use accounts.
	maxAccountsPerUser = 10

	// issueAttempts bounds retries when a randomly drawn account number
	// collides with an already issued one.
	issueAttempts = 5
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	userRepo    user.Repository
	accountRepo account.Repository
	logger      *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(logger *slog.Logger, userRepo user.Repository, accountRepo account.Repository) AccountService {
	return &AccountServiceImpl{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// CreateAccount opens an account with a freshly issued 10-digit account number
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, userID int64, initialBalance int64) (*account.Account, error) {
	owner, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound{}) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	held, err := s.accountRepo.CountByUserID(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if held >= maxAccountsPerUser {
		return nil, apperrors.ErrMaxAccountsPerUserExceeded
	}

	for attempt := 0; attempt < issueAttempts; attempt++ {
		acc := account.NewAccount(owner.ID, newAccountNumber(), initialBalance)

		err := s.accountRepo.Create(ctx, acc)
		if err == nil {
			s.logger.Info("Opened account",
				"user_id", owner.ID,
				"account_number", acc.AccountNumber,
				"initial_balance", initialBalance,
			)
			return acc, nil
		}

		var dup account.ErrDuplicateAccountNumber
		if errors.As(err, &dup) {
			s.logger.Warn("Account number collision, drawing another", "account_number", dup.AccountNumber)
			continue
		}
		return nil, err
	}

	return nil, errors.New("could not issue a unique account number")
}

// DeleteAccount unregisters the user's account when its balance is empty
func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, userID int64, accountNumber string) (*account.Account, error) {
	owner, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound{}) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	acc, err := s.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}

	if acc.UserID != owner.ID {
		return nil, apperrors.ErrUserAccountMismatch
	}

	if err := acc.Unregister(); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("Unregistered account", "user_id", owner.ID, "account_number", acc.AccountNumber)
	return acc, nil
}

// ListAccounts returns every account the user has held
func (s *AccountServiceImpl) ListAccounts(ctx context.Context, userID int64) ([]*account.Account, error) {
	owner, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound{}) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return s.accountRepo.ListByUserID(ctx, owner.ID)
}

// newAccountNumber draws a random 10-digit account number. The leading
// digit is never zero so the number survives numeric round-trips.
func newAccountNumber() string {
	n := 1_000_000_000 + rand.Int63n(9_000_000_000)
	return strconv.FormatInt(n, 10)
}
