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

func newTransactionService(
	t *testing.T,
	txns store.TransactionStore,
	accounts store.AccountStore,
	cards store.CardStore,
) service.TransactionService {
	t.Helper()
	svc, err := service.NewTransactionService(txns, accounts, cards, newTestDB(t), slog.Default())
	require.NoError(t, err)
	return svc
}

func ownedAccountStore() *mockAccountStore {
	return &mockAccountStore{
		getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Account, error) {
			return &domain.Account{ID: id, Name: "Conta", Type: domain.AccountTypeChecking, Institution: "Nubank", UserID: ownerID}, nil
		},
	}
}

func ownedCardStore() *mockCardStore {
	return &mockCardStore{
		getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Card, error) {
			return &domain.Card{ID: id, Name: "Cartao", Brand: "Visa", TotalLimit: decimal.NewFromInt(1000), ClosingDay: 5, DueDay: 15, UserID: ownerID}, nil
		},
	}
}

func testInput(accountID int64, cardID *int64) service.TransactionInput {
	return service.TransactionInput{
		Description: "Compra no mercado",
		Value:       decimal.NewFromFloat(89.90),
		Date:        time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC),
		Type:        domain.TransactionTypeExpense,
		Recurring:   false,
		AccountID:   accountID,
		CardID:      cardID,
	}
}

func TestTransactionCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success without card", func(t *testing.T) {
		txns := &mockTransactionStore{
			createFn: func(ctx context.Context, txn *domain.Transaction) error {
				txn.ID = 100
				return nil
			},
		}
		svc := newTransactionService(t, txns, ownedAccountStore(), &mockCardStore{})

		txn, err := svc.Create(ctx, 1, testInput(2, nil))
		require.NoError(t, err)
		assert.Equal(t, int64(100), txn.ID)
		assert.Equal(t, int64(1), txn.UserID)
		assert.Nil(t, txn.CardID)
	})

	t.Run("success with card", func(t *testing.T) {
		cardID := int64(7)
		svc := newTransactionService(t, &mockTransactionStore{}, ownedAccountStore(), ownedCardStore())

		txn, err := svc.Create(ctx, 1, testInput(2, &cardID))
		require.NoError(t, err)
		require.NotNil(t, txn.CardID)
		assert.Equal(t, cardID, *txn.CardID)
	})

	t.Run("missing account", func(t *testing.T) {
		svc := newTransactionService(t, &mockTransactionStore{}, &mockAccountStore{}, &mockCardStore{})

		_, err := svc.Create(ctx, 1, testInput(2, nil))
		assert.ErrorIs(t, err, store.ErrAccountNotFound)
	})

	t.Run("missing card", func(t *testing.T) {
		cardID := int64(7)
		svc := newTransactionService(t, &mockTransactionStore{}, ownedAccountStore(), &mockCardStore{})

		_, err := svc.Create(ctx, 1, testInput(2, &cardID))
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})

	t.Run("invalid entity", func(t *testing.T) {
		svc := newTransactionService(t, &mockTransactionStore{}, ownedAccountStore(), &mockCardStore{})

		in := testInput(2, nil)
		in.Value = decimal.Zero
		_, err := svc.Create(ctx, 1, in)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestTransactionUpdate(t *testing.T) {
	ctx := context.Background()

	existing := func(id, ownerID int64) *domain.Transaction {
		return &domain.Transaction{
			ID:          id,
			Description: "Compra antiga",
			Value:       decimal.NewFromInt(10),
			Date:        time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			Type:        domain.TransactionTypeExpense,
			AccountID:   2,
			UserID:      ownerID,
		}
	}

	t.Run("success", func(t *testing.T) {
		txns := &mockTransactionStore{
			getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Transaction, error) {
				return existing(id, ownerID), nil
			},
		}
		svc := newTransactionService(t, txns, ownedAccountStore(), &mockCardStore{})

		updated, err := svc.Update(ctx, 100, 1, testInput(2, nil))
		require.NoError(t, err)
		assert.Equal(t, "Compra no mercado", updated.Description)
	})

	t.Run("re-validates new account ownership", func(t *testing.T) {
		txns := &mockTransactionStore{
			getForOwnerFn: func(ctx context.Context, id, ownerID int64) (*domain.Transaction, error) {
				return existing(id, ownerID), nil
			},
		}
		svc := newTransactionService(t, txns, &mockAccountStore{}, &mockCardStore{})

		_, err := svc.Update(ctx, 100, 1, testInput(3, nil))
		assert.ErrorIs(t, err, store.ErrAccountNotFound)
	})

	t.Run("not found", func(t *testing.T) {
		svc := newTransactionService(t, &mockTransactionStore{}, ownedAccountStore(), &mockCardStore{})

		_, err := svc.Update(ctx, 100, 1, testInput(2, nil))
		assert.ErrorIs(t, err, store.ErrTransactionNotFound)
	})
}

func TestTransactionListScopes(t *testing.T) {
	ctx := context.Background()

	t.Run("list by account checks ownership first", func(t *testing.T) {
		svc := newTransactionService(t, &mockTransactionStore{}, &mockAccountStore{}, &mockCardStore{})

		_, err := svc.ListByAccount(ctx, 2, 1)
		assert.ErrorIs(t, err, store.ErrAccountNotFound)
	})

	t.Run("list by card checks ownership first", func(t *testing.T) {
		svc := newTransactionService(t, &mockTransactionStore{}, &mockAccountStore{}, &mockCardStore{})

		_, err := svc.ListByCard(ctx, 7, 1)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		svc := newTransactionService(t, &mockTransactionStore{}, &mockAccountStore{}, &mockCardStore{})

		_, err := svc.ListByType(ctx, domain.TransactionType("TRANSFERENCIA"), 1)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("inverted period rejected", func(t *testing.T) {
		svc := newTransactionService(t, &mockTransactionStore{}, &mockAccountStore{}, &mockCardStore{})

		from := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.ListByPeriod(ctx, 1, from, to)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestTransactionSummary(t *testing.T) {
	txns := &mockTransactionStore{
		sumByTypeFn: func(ctx context.Context, txnType domain.TransactionType, ownerID int64) (decimal.Decimal, error) {
			if txnType == domain.TransactionTypeIncome {
				return decimal.NewFromInt(5000), nil
			}
			return decimal.NewFromInt(3200), nil
		},
	}
	svc := newTransactionService(t, txns, &mockAccountStore{}, &mockCardStore{})

	summary, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, summary.Income.Equal(decimal.NewFromInt(5000)))
	assert.True(t, summary.Expense.Equal(decimal.NewFromInt(3200)))
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(1800)))
}

func TestTransactionDeleteAlwaysAllowed(t *testing.T) {
	deleted := false
	txns := &mockTransactionStore{
		deleteFn: func(ctx context.Context, id, ownerID int64) error {
			deleted = true
			return nil
		},
	}
	svc := newTransactionService(t, txns, &mockAccountStore{}, &mockCardStore{})

	require.NoError(t, svc.Delete(context.Background(), 100, 1))
	assert.True(t, deleted)
}
