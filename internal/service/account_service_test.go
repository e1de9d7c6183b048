package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/service"
	"github.com/fintrack/fintrack-api/internal/store"
)

func newAccountService(t *testing.T, accounts store.AccountStore, txns store.TransactionStore) service.AccountService {
	t.Helper()
	svc, err := service.NewAccountService(accounts, txns, newTestDB(t), slog.Default())
	require.NoError(t, err)
	return svc
}

func testAccount(id, ownerID int64, initial decimal.Decimal) *domain.Account {
	return &domain.Account{
		ID:             id,
		Name:           "Conta Principal",
		Type:           domain.AccountTypeChecking,
		InitialBalance: initial,
		Institution:    "Banco do Brasil",
		UserID:         ownerID,
	}
}

func TestAccountCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		accounts := &mockAccountStore{
			createFn: func(ctx context.Context, account *domain.Account) error {
				account.ID = 10
				return nil
			},
		}
		svc := newAccountService(t, accounts, &mockTransactionStore{})

		account, err := svc.Create(ctx, 1, "Conta Principal", domain.AccountTypeChecking, decimal.NewFromInt(500), "Banco do Brasil")
		require.NoError(t, err)
		assert.Equal(t, int64(10), account.ID)
		assert.Equal(t, int64(1), account.UserID)
	})

	t.Run("duplicate name for owner", func(t *testing.T) {
		accounts := &mockAccountStore{
			existsByNameFn: func(ctx context.Context, name string, ownerID int64) (bool, error) {
				return true, nil
			},
		}
		svc := newAccountService(t, accounts, &mockTransactionStore{})

		_, err := svc.Create(ctx, 1, "Conta Principal", domain.AccountTypeChecking, decimal.NewFromInt(500), "Banco do Brasil")
		assert.ErrorIs(t, err, store.ErrAccountNameExists)
	})

	t.Run("invalid entity", func(t *testing.T) {
		svc := newAccountService(t, &mockAccountStore{}, &mockTransactionStore{})

		_, err := svc.Create(ctx, 1, "Conta", domain.AccountTypeChecking, decimal.NewFromInt(-1), "Banco do Brasil")
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestAccountUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("rename collision", func(t *testing.T) {
		accounts := &mockAccountStore{
			getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Account, error) {
				return testAccount(id, ownerID, decimal.Zero), nil
			},
			existsByNameExcludingFn: func(ctx context.Context, name string, ownerID, excludeID int64) (bool, error) {
				return true, nil
			},
		}
		svc := newAccountService(t, accounts, &mockTransactionStore{})

		_, err := svc.Update(ctx, 10, 1, "Conta Nova", domain.AccountTypeChecking, decimal.Zero, "Banco do Brasil")
		assert.ErrorIs(t, err, store.ErrAccountNameExists)
	})

	t.Run("same name skips uniqueness check", func(t *testing.T) {
		accounts := &mockAccountStore{
			getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Account, error) {
				return testAccount(id, ownerID, decimal.Zero), nil
			},
			existsByNameExcludingFn: func(ctx context.Context, name string, ownerID, excludeID int64) (bool, error) {
				t.Fatal("uniqueness check should not run for an unchanged name")
				return false, nil
			},
		}
		svc := newAccountService(t, accounts, &mockTransactionStore{})

		updated, err := svc.Update(ctx, 10, 1, "Conta Principal", domain.AccountTypeSavings, decimal.NewFromInt(50), "Nubank")
		require.NoError(t, err)
		assert.Equal(t, domain.AccountTypeSavings, updated.Type)
		assert.Equal(t, "Nubank", updated.Institution)
	})

	t.Run("not found", func(t *testing.T) {
		svc := newAccountService(t, &mockAccountStore{}, &mockTransactionStore{})

		_, err := svc.Update(ctx, 10, 1, "Conta Principal", domain.AccountTypeChecking, decimal.Zero, "Banco do Brasil")
		assert.ErrorIs(t, err, store.ErrAccountNotFound)
	})
}

func TestAccountDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked while account has transactions", func(t *testing.T) {
		accounts := &mockAccountStore{
			getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Account, error) {
				return testAccount(id, ownerID, decimal.Zero), nil
			},
			hasTransactionsFn: func(ctx context.Context, accountID int64) (bool, error) {
				return true, nil
			},
		}
		svc := newAccountService(t, accounts, &mockTransactionStore{})

		err := svc.Delete(ctx, 10, 1)
		assert.ErrorIs(t, err, service.ErrHasDependents)
	})

	t.Run("success", func(t *testing.T) {
		deleted := false
		accounts := &mockAccountStore{
			getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Account, error) {
				return testAccount(id, ownerID, decimal.Zero), nil
			},
			deleteFn: func(ctx context.Context, id, ownerID int64) error {
				deleted = true
				return nil
			},
		}
		svc := newAccountService(t, accounts, &mockTransactionStore{})

		require.NoError(t, svc.Delete(ctx, 10, 1))
		assert.True(t, deleted)
	})

	t.Run("foreign account behaves like missing", func(t *testing.T) {
		svc := newAccountService(t, &mockAccountStore{}, &mockTransactionStore{})

		err := svc.Delete(ctx, 10, 2)
		assert.ErrorIs(t, err, store.ErrAccountNotFound)
	})
}

func TestAccountCurrentBalance(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	accounts := &mockAccountStore{
		getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Account, error) {
			return testAccount(id, ownerID, decimal.NewFromInt(1000)), nil
		},
	}
	txns := &mockTransactionStore{
		listByAccountFn: func(ctx context.Context, accountID int64) ([]*domain.Transaction, error) {
			return []*domain.Transaction{
				{Description: "Salario", Value: decimal.NewFromInt(3000), Date: date, Type: domain.TransactionTypeIncome, AccountID: accountID, UserID: 1},
				{Description: "Aluguel", Value: decimal.NewFromInt(1500), Date: date, Type: domain.TransactionTypeExpense, AccountID: accountID, UserID: 1},
			}, nil
		},
	}
	svc := newAccountService(t, accounts, txns)

	balance, err := svc.CurrentBalance(ctx, 10, 1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(2500)), "got %s", balance)
}

func TestAccountTotalBalance(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	accounts := &mockAccountStore{
		listByOwnerFn: func(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
			return []*domain.Account{
				testAccount(10, ownerID, decimal.NewFromInt(100)),
				testAccount(11, ownerID, decimal.NewFromInt(200)),
			}, nil
		},
	}
	txns := &mockTransactionStore{
		listByAccountFn: func(ctx context.Context, accountID int64) ([]*domain.Transaction, error) {
			if accountID == 10 {
				return []*domain.Transaction{
					{Description: "Receita", Value: decimal.NewFromInt(50), Date: date, Type: domain.TransactionTypeIncome, AccountID: accountID, UserID: 1},
				}, nil
			}
			return nil, nil
		},
	}
	svc := newAccountService(t, accounts, txns)

	total, err := svc.TotalBalance(ctx, 1)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(350)), "got %s", total)
}

func TestAccountListByTypeRejectsUnknownType(t *testing.T) {
	svc := newAccountService(t, &mockAccountStore{}, &mockTransactionStore{})

	_, err := svc.ListByType(context.Background(), domain.AccountType("SALARIO"), 1)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}
