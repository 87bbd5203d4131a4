package outbox

import (
	"encoding/json"
	"time"

	"github.com/itonse/account/internal/domain/transaction"
)

// Status defines message publishing states
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusProcessed       Status = "PROCESSED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// Message stores a transaction event for reliable publishing. It is
// written in the same database transaction as the ledger record, so a
// committed transaction always has a matching pending message.
type Message struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id"`
	AccountNumber string          `json:"account_number"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

// NewMessage wraps a transaction event into a pending outbox message.
func NewMessage(event *transaction.Event) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		TransactionID: event.TransactionID,
		AccountNumber: event.AccountNumber,
		Payload:       payload,
		Status:        StatusPending,
		Attempts:      0,
		CreatedAt:     time.Now(),
	}, nil
}

// Event decodes the transaction event carried in the payload.
func (m *Message) Event() (*transaction.Event, error) {
	var event transaction.Event
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
