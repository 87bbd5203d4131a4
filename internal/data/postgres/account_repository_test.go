package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/itonse/account/internal/domain/account"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const accountSelectColumns = `id, user_id, account_number, status, balance, registered_at, unregistered_at, version, created_at, updated_at`

func accountRows(accounts ...*account.Account) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "user_id", "account_number", "status", "balance", "registered_at", "unregistered_at", "version", "created_at", "updated_at"})
	for _, acc := range accounts {
		rows.AddRow(acc.ID, acc.UserID, acc.AccountNumber, acc.Status, acc.Balance, acc.RegisteredAt, acc.UnregisteredAt, acc.Version, acc.CreatedAt, acc.UpdatedAt)
	}
	return rows
}

func testAccount() *account.Account {
	now := time.Now()
	return &account.Account{
		ID:            uuid.New(),
		UserID:        1,
		AccountNumber: "1234567890",
		Status:        account.StatusInUse,
		Balance:       10000,
		RegisteredAt:  now,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestAccountRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	acc := testAccount()

	query := `
		INSERT INTO accounts \(id, user_id, account_number, status, balance, registered_at, unregistered_at, version, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.UserID, acc.AccountNumber, acc.Status, acc.Balance, acc.RegisteredAt, acc.UnregisteredAt, acc.Version, acc.CreatedAt, acc.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate account number", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.UserID, acc.AccountNumber, acc.Status, acc.Balance, acc.RegisteredAt, acc.UnregisteredAt, acc.Version, acc.CreatedAt, acc.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(ctx, acc)
		assert.Error(t, err)
		var dupErr account.ErrDuplicateAccountNumber
		assert.ErrorAs(t, err, &dupErr)
		assert.Equal(t, acc.AccountNumber, dupErr.AccountNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.UserID, acc.AccountNumber, acc.Status, acc.Balance, acc.RegisteredAt, acc.UnregisteredAt, acc.Version, acc.CreatedAt, acc.UpdatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, acc)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create account")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByNumber(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	expected := testAccount()

	query := `SELECT ` + accountSelectColumns + ` FROM accounts WHERE account_number = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.AccountNumber).WillReturnRows(accountRows(expected))

		acc, err := repo.GetByNumber(ctx, expected.AccountNumber)
		assert.NoError(t, err)
		assert.Equal(t, expected, acc)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("9999999999").WillReturnError(pgx.ErrNoRows)

		acc, err := repo.GetByNumber(ctx, "9999999999")
		assert.Error(t, err)
		assert.Nil(t, acc)
		var notFoundErr account.ErrAccountNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "9999999999", notFoundErr.AccountNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("some db error")
		mock.ExpectQuery(query).WithArgs(expected.AccountNumber).WillReturnError(dbErr)

		acc, err := repo.GetByNumber(ctx, expected.AccountNumber)
		assert.Error(t, err)
		assert.Nil(t, acc)
		assert.Contains(t, err.Error(), "failed to get account by number")
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	expected := testAccount()

	query := `SELECT ` + accountSelectColumns + ` FROM accounts WHERE id = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnRows(accountRows(expected))

		acc, err := repo.GetByID(ctx, expected.ID)
		assert.NoError(t, err)
		assert.Equal(t, expected, acc)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		unknownID := uuid.New()
		mock.ExpectQuery(query).WithArgs(unknownID).WillReturnError(pgx.ErrNoRows)

		acc, err := repo.GetByID(ctx, unknownID)
		assert.Error(t, err)
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}

	first := testAccount()
	second := testAccount()
	second.AccountNumber = "2345678901"

	query := `SELECT ` + accountSelectColumns + ` FROM accounts WHERE user_id = \$1 ORDER BY registered_at ASC`

	t.Run("returns all accounts for the user", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnRows(accountRows(first, second))

		accounts, err := repo.ListByUserID(ctx, 1)
		assert.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, first.AccountNumber, accounts[0].AccountNumber)
		assert.Equal(t, second.AccountNumber, accounts[1].AccountNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no accounts", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(int64(2)).WillReturnRows(accountRows())

		accounts, err := repo.ListByUserID(ctx, 2)
		assert.NoError(t, err)
		assert.Empty(t, accounts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("query failed")
		mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnError(dbErr)

		accounts, err := repo.ListByUserID(ctx, 1)
		assert.Error(t, err)
		assert.Nil(t, accounts)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_CountByUserID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}

	query := `SELECT COUNT\(\*\) FROM accounts WHERE user_id = \$1 AND status = \$2`

	t.Run("counts only in-use accounts", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(int64(1), account.StatusInUse).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

		count, err := repo.CountByUserID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("count failed")
		mock.ExpectQuery(query).WithArgs(int64(1), account.StatusInUse).WillReturnError(dbErr)

		count, err := repo.CountByUserID(ctx, 1)
		assert.Error(t, err)
		assert.Zero(t, count)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_Update(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}

	acc := testAccount()
	acc.Balance = 9000
	acc.Version = 2 // New version after the balance mutation
	previousVersion := acc.Version - 1

	query := `
		UPDATE accounts
		SET status = \$1, balance = \$2, unregistered_at = \$3, version = \$4, updated_at = \$5
		WHERE id = \$6 AND version = \$7
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.Status, acc.Balance, acc.UnregisteredAt, acc.Version, acc.UpdatedAt, acc.ID, previousVersion).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.Update(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent modification", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.Status, acc.Balance, acc.UnregisteredAt, acc.Version, acc.UpdatedAt, acc.ID, previousVersion).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(ctx, acc)
		assert.Error(t, err)
		var concurrentModErr account.ErrConcurrentModification
		assert.ErrorAs(t, err, &concurrentModErr)
		assert.Equal(t, acc.ID, concurrentModErr.AccountID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("update db error")
		mock.ExpectExec(query).
			WithArgs(acc.Status, acc.Balance, acc.UnregisteredAt, acc.Version, acc.UpdatedAt, acc.ID, previousVersion).
			WillReturnError(dbErr)

		err := repo.Update(ctx, acc)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update account")
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_WithTx(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	originalRepo := &AccountRepository{querier: mockPool, logger: newTestLogger()}

	mockPool.ExpectBegin()
	pgxTx, err := mockPool.Begin(context.Background())
	require.NoError(t, err)

	txRepo := originalRepo.WithTx(pgxTx)

	assert.NotNil(t, txRepo)
	assert.Equal(t, pgxTx, txRepo.(*AccountRepository).querier)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
