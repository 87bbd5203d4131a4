package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Event is the wire form of a ledger record published through the outbox
// to Kafka and materialized into the MongoDB history archive.
type Event struct {
	TransactionID         string    `json:"transaction_id" bson:"transaction_id"`
	Type                  Type      `json:"type" bson:"type"`
	Result                Result    `json:"result" bson:"result"`
	AccountID             uuid.UUID `json:"account_id" bson:"account_id"`
	AccountNumber         string    `json:"account_number" bson:"account_number"`
	Amount                int64     `json:"amount" bson:"amount"`
	BalanceSnapshot       int64     `json:"balance_snapshot" bson:"balance_snapshot"`
	OriginalTransactionID string    `json:"original_transaction_id,omitempty" bson:"original_transaction_id,omitempty"`
	TransactedAt          time.Time `json:"transacted_at" bson:"transacted_at"`
}

// NewEvent builds the archive event for a recorded transaction.
func NewEvent(tx *Transaction) *Event {
	return &Event{
		TransactionID:         tx.TransactionID,
		Type:                  tx.Type,
		Result:                tx.Result,
		AccountID:             tx.AccountID,
		AccountNumber:         tx.AccountNumber,
		Amount:                tx.Amount,
		BalanceSnapshot:       tx.BalanceSnapshot,
		OriginalTransactionID: tx.OriginalTransactionID,
		TransactedAt:          tx.TransactedAt,
	}
}
