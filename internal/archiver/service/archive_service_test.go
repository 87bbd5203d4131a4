package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/itonse/account/internal/domain/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockArchiveRepository for testing
type MockArchiveRepository struct {
	mock.Mock
}

func (m *MockArchiveRepository) Upsert(ctx context.Context, event *transaction.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockArchiveRepository) ListByAccountNumber(ctx context.Context, accountNumber string, limit, offset int) ([]*transaction.Event, error) {
	args := m.Called(ctx, accountNumber, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Event), args.Error(1)
}

func (m *MockArchiveRepository) CountByAccountNumber(ctx context.Context, accountNumber string) (int64, error) {
	args := m.Called(ctx, accountNumber)
	return args.Get(0).(int64), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEvent() *transaction.Event {
	return &transaction.Event{
		TransactionID:   transaction.NewTransactionID(),
		Type:            transaction.TypeUse,
		Result:          transaction.ResultSuccess,
		AccountID:       uuid.New(),
		AccountNumber:   "1000000001",
		Amount:          500,
		BalanceSnapshot: 9500,
		TransactedAt:    time.Now().UTC(),
	}
}

func TestArchiveService_ArchiveEvent(t *testing.T) {
	t.Run("successful upsert", func(t *testing.T) {
		mockRepo := &MockArchiveRepository{}
		svc := NewArchiveService(testLogger(), mockRepo)

		event := sampleEvent()
		mockRepo.On("Upsert", mock.Anything, event).Return(nil).Once()

		err := svc.ArchiveEvent(context.Background(), event)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository error is wrapped with the transaction ID", func(t *testing.T) {
		mockRepo := &MockArchiveRepository{}
		svc := NewArchiveService(testLogger(), mockRepo)

		event := sampleEvent()
		mockRepo.On("Upsert", mock.Anything, event).Return(errors.New("write concern error")).Once()

		err := svc.ArchiveEvent(context.Background(), event)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), event.TransactionID)
		assert.Contains(t, err.Error(), "write concern error")
		mockRepo.AssertExpectations(t)
	})
}
