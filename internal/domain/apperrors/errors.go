// Package apperrors defines the business error taxonomy shared across the
// service. Every rejection that a caller can act on carries a stable code
// and a human-readable description; anything outside this taxonomy is
// treated as an internal error by the HTTP layer.
package apperrors

import "errors"

// BusinessError is a terminal, caller-visible rejection of an operation.
type BusinessError struct {
	Code        string
	Description string
}

func (e *BusinessError) Error() string {
	return e.Code + ": " + e.Description
}

var (
	ErrUserNotFound = &BusinessError{
		Code:        "USER_NOT_FOUND",
		Description: "user does not exist",
	}
	ErrAccountNotFound = &BusinessError{
		Code:        "ACCOUNT_NOT_FOUND",
		Description: "account does not exist",
	}
	ErrUserAccountMismatch = &BusinessError{
		Code:        "USER_ACCOUNT_MISMATCH",
		Description: "account is not owned by the given user",
	}
	ErrAccountAlreadyUnregistered = &BusinessError{
		Code:        "ACCOUNT_ALREADY_UNREGISTERED",
		Description: "account has already been unregistered",
	}
	ErrAmountExceedsBalance = &BusinessError{
		Code:        "AMOUNT_EXCEEDS_BALANCE",
		Description: "transaction amount exceeds the account balance",
	}
	ErrTransactionNotFound = &BusinessError{
		Code:        "TRANSACTION_NOT_FOUND",
		Description: "transaction does not exist",
	}
	ErrTransactionAccountMismatch = &BusinessError{
		Code:        "TRANSACTION_ACCOUNT_MISMATCH",
		Description: "transaction does not belong to the given account",
	}
	ErrCancelTargetNotUse = &BusinessError{
		Code:        "CANCEL_TARGET_NOT_USE",
		Description: "only a successful use transaction can be cancelled",
	}
	ErrAlreadyCancelled = &BusinessError{
		Code:        "ALREADY_CANCELLED",
		Description: "transaction has already been cancelled",
	}
	ErrCancelMustBeFull = &BusinessError{
		Code:        "CANCEL_MUST_BE_FULL",
		Description: "partial cancellation is not allowed",
	}
	ErrTooOldToCancel = &BusinessError{
		Code:        "TOO_OLD_TO_CANCEL",
		Description: "transactions older than one year cannot be cancelled",
	}
	ErrLockAcquisitionFailed = &BusinessError{
		Code:        "LOCK_ACQUISITION_FAILED",
		Description: "could not acquire the account lock, try again later",
	}
	ErrMaxAccountsPerUserExceeded = &BusinessError{
		Code:        "MAX_ACCOUNTS_PER_USER_EXCEEDED",
		Description: "user already holds the maximum number of accounts",
	}
	ErrBalanceNotEmpty = &BusinessError{
		Code:        "BALANCE_NOT_EMPTY",
		Description: "account with a remaining balance cannot be unregistered",
	}
	ErrInvalidAmount = &BusinessError{
		Code:        "INVALID_AMOUNT",
		Description: "transaction amount must be positive",
	}
)

// AsBusiness unwraps err into a BusinessError if it is one.
func AsBusiness(err error) (*BusinessError, bool) {
	var bizErr *BusinessError
	if errors.As(err, &bizErr) {
		return bizErr, true
	}
	return nil, false
}
