package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/itonse/account/internal/domain/apperrors"
)

// Status describes the lifecycle state of an account. The only legal
// transition is InUse -> Unregistered; it is never reversed.
type Status string

const (
	StatusInUse        Status = "IN_USE"
	StatusUnregistered Status = "UNREGISTERED"
)

// Account is the balance-holding aggregate. The balance is mutated only
// through UseBalance and CancelBalance, and only inside the per-account
// lock held by the transaction service.
type Account struct {
	ID             uuid.UUID  `json:"id"`
	UserID         int64      `json:"user_id"`
	AccountNumber  string     `json:"account_number"` // External identifier, immutable once issued
	Status         Status     `json:"status"`
	Balance        int64      `json:"balance"` // Minor currency units, never negative
	RegisteredAt   time.Time  `json:"registered_at"`
	UnregisteredAt *time.Time `json:"unregistered_at,omitempty"`
	Version        int        `json:"version"` // For optimistic locking
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewAccount creates an in-use account for the given owner.
func NewAccount(userID int64, accountNumber string, initialBalance int64) *Account {
	now := time.Now()
	return &Account{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: accountNumber,
		Status:        StatusInUse,
		Balance:       initialBalance,
		RegisteredAt:  now,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// UseBalance subtracts amount from the balance. The balance is validated
// before mutation; it is never clamped after the fact.
func (a *Account) UseBalance(amount int64) error {
	if amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	if a.Status != StatusInUse {
		return apperrors.ErrAccountAlreadyUnregistered
	}
	if amount > a.Balance {
		return apperrors.ErrAmountExceedsBalance
	}

	a.Balance -= amount
	a.Version++
	a.UpdatedAt = time.Now()
	return nil
}

// CancelBalance restores amount to the balance when a prior use is reversed.
func (a *Account) CancelBalance(amount int64) error {
	if amount < 0 {
		return apperrors.ErrInvalidAmount
	}

	a.Balance += amount
	a.Version++
	a.UpdatedAt = time.Now()
	return nil
}

// Unregister closes the account. Requires an empty balance.
func (a *Account) Unregister() error {
	if a.Status != StatusInUse {
		return apperrors.ErrAccountAlreadyUnregistered
	}
	if a.Balance > 0 {
		return apperrors.ErrBalanceNotEmpty
	}

	now := time.Now()
	a.Status = StatusUnregistered
	a.UnregisteredAt = &now
	a.Version++
	a.UpdatedAt = now
	return nil
}
