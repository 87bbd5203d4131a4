package transaction

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type defines the two balance mutations
type Type string

const (
	TypeUse    Type = "USE"
	TypeCancel Type = "CANCEL"
)

// Result defines the terminal outcome of an attempt
type Result string

const (
	ResultSuccess Result = "SUCCESS"
	ResultFailure Result = "FAILURE"
)

// Transaction is a write-once ledger record. Every attempted balance
// mutation that reached a resolvable account leaves exactly one of these,
// successful or not; records are never updated or deleted.
type Transaction struct {
	// TransactionID is the externally exposed token, distinct from any
	// storage primary key and generated fresh per attempt.
	TransactionID string    `json:"transaction_id"`
	Type          Type      `json:"type"`
	Result        Result    `json:"result"`
	AccountID     uuid.UUID `json:"account_id"`
	AccountNumber string    `json:"account_number"`
	Amount        int64     `json:"amount"` // Minor currency units

	// BalanceSnapshot is the account balance after this transaction's
	// effect, or the untouched balance for a failed attempt.
	BalanceSnapshot int64 `json:"balance_snapshot"`

	// OriginalTransactionID links a CANCEL back to the USE it reverses.
	OriginalTransactionID string `json:"original_transaction_id,omitempty"`

	TransactedAt time.Time `json:"transacted_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewTransactionID issues a fresh opaque transaction token.
func NewTransactionID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
