package transaction

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewTransactionID(t *testing.T) {
	id := NewTransactionID()

	assert.Len(t, id, 32, "uuid hex without dashes")
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, NewTransactionID())
}

func TestNewEvent(t *testing.T) {
	tx := &Transaction{
		TransactionID:         NewTransactionID(),
		Type:                  TypeCancel,
		Result:                ResultSuccess,
		AccountID:             uuid.New(),
		AccountNumber:         "1234567890",
		Amount:                200,
		BalanceSnapshot:       10000,
		OriginalTransactionID: NewTransactionID(),
	}

	event := NewEvent(tx)

	assert.Equal(t, tx.TransactionID, event.TransactionID)
	assert.Equal(t, tx.Type, event.Type)
	assert.Equal(t, tx.Result, event.Result)
	assert.Equal(t, tx.AccountID, event.AccountID)
	assert.Equal(t, tx.AccountNumber, event.AccountNumber)
	assert.Equal(t, tx.Amount, event.Amount)
	assert.Equal(t, tx.BalanceSnapshot, event.BalanceSnapshot)
	assert.Equal(t, tx.OriginalTransactionID, event.OriginalTransactionID)
}
