package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/platform/logger"
	"github.com/fintrack/fintrack-api/internal/store"
)

// TransactionInput carries the mutable fields of a transaction for create
// and update operations. CardID is optional.
type TransactionInput struct {
	Description string
	Value       decimal.Decimal
	Date        time.Time
	Type        domain.TransactionType
	Recurring   bool
	AccountID   int64
	CardID      *int64
}

// FinancialSummary aggregates an owner's transactions: total income, total
// expense, and the difference between them.
type FinancialSummary struct {
	Income  decimal.Decimal `json:"receitas"`
	Expense decimal.Decimal `json:"despesas"`
	Balance decimal.Decimal `json:"saldo"`
}

// TransactionService provides operations on a user's transactions. The
// referenced account, and card when present, must belong to the same owner;
// the transaction's owner is always the account's owner.
type TransactionService interface {
	// Create records a new transaction on one of the owner's accounts.
	// Returns store.ErrAccountNotFound or store.ErrCardNotFound when a
	// referenced record is missing or belongs to someone else.
	Create(ctx context.Context, ownerID int64, in TransactionInput) (*domain.Transaction, error)

	// Get retrieves one of the owner's transactions by id.
	Get(ctx context.Context, id, ownerID int64) (*domain.Transaction, error)

	// List returns all of the owner's transactions, most recent first.
	List(ctx context.Context, ownerID int64) ([]*domain.Transaction, error)

	// Update modifies an existing transaction, re-validating account and
	// card ownership when they change.
	Update(ctx context.Context, id, ownerID int64, in TransactionInput) (*domain.Transaction, error)

	// Delete removes a transaction. Always allowed; nothing depends on a
	// transaction.
	Delete(ctx context.Context, id, ownerID int64) error

	// ListByAccount returns the transactions on one of the owner's accounts.
	ListByAccount(ctx context.Context, accountID, ownerID int64) ([]*domain.Transaction, error)

	// ListByCard returns the transactions linked to one of the owner's cards.
	ListByCard(ctx context.Context, cardID, ownerID int64) ([]*domain.Transaction, error)

	// ListByType returns the owner's transactions of the given type.
	ListByType(ctx context.Context, txnType domain.TransactionType, ownerID int64) ([]*domain.Transaction, error)

	// ListByPeriod returns the owner's transactions dated within [from, to].
	ListByPeriod(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Transaction, error)

	// ListRecurring returns the owner's transactions with the given
	// recurring flag.
	ListRecurring(ctx context.Context, ownerID int64, recurring bool) ([]*domain.Transaction, error)

	// SearchByDescription returns the owner's transactions matching the
	// description fragment.
	SearchByDescription(ctx context.Context, description string, ownerID int64) ([]*domain.Transaction, error)

	// TotalIncome returns the sum of the owner's income transactions.
	TotalIncome(ctx context.Context, ownerID int64) (decimal.Decimal, error)

	// TotalExpense returns the sum of the owner's expense transactions.
	TotalExpense(ctx context.Context, ownerID int64) (decimal.Decimal, error)

	// TotalIncomeInPeriod is TotalIncome restricted to [from, to].
	TotalIncomeInPeriod(ctx context.Context, ownerID int64, from, to time.Time) (decimal.Decimal, error)

	// TotalExpenseInPeriod is TotalExpense restricted to [from, to].
	TotalExpenseInPeriod(ctx context.Context, ownerID int64, from, to time.Time) (decimal.Decimal, error)

	// Summary returns the owner's income, expense and their difference.
	Summary(ctx context.Context, ownerID int64) (*FinancialSummary, error)

	// Count returns the number of transactions the owner has.
	Count(ctx context.Context, ownerID int64) (int64, error)
}

// transactionServiceImpl implements the TransactionService interface.
type transactionServiceImpl struct {
	txnStore     store.TransactionStore
	accountStore store.AccountStore
	cardStore    store.CardStore
	db           *sql.DB
	logger       *slog.Logger
}

// NewTransactionService creates a new TransactionService.
// It returns an error if any of the required dependencies are nil.
func NewTransactionService(
	txnStore store.TransactionStore,
	accountStore store.AccountStore,
	cardStore store.CardStore,
	db *sql.DB,
	log *slog.Logger,
) (TransactionService, error) {
	if txnStore == nil {
		return nil, fmt.Errorf("txnStore cannot be nil")
	}
	if accountStore == nil {
		return nil, fmt.Errorf("accountStore cannot be nil")
	}
	if cardStore == nil {
		return nil, fmt.Errorf("cardStore cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &transactionServiceImpl{
		txnStore:     txnStore,
		accountStore: accountStore,
		cardStore:    cardStore,
		db:           db,
		logger:       log.With(slog.String("component", "transaction_service")),
	}, nil
}

// checkReferences confirms that the account, and the card when present,
// belong to the owner. Runs against the given tx-bound stores.
func (s *transactionServiceImpl) checkReferences(
	ctx context.Context,
	accounts store.AccountStore,
	cards store.CardStore,
	ownerID int64,
	in TransactionInput,
) error {
	if _, err := accounts.GetForOwner(ctx, in.AccountID, ownerID); err != nil {
		return err
	}
	if in.CardID != nil {
		if _, err := cards.GetForOwner(ctx, *in.CardID, ownerID); err != nil {
			return err
		}
	}
	return nil
}

// Create implements TransactionService.Create.
func (s *transactionServiceImpl) Create(ctx context.Context, ownerID int64, in TransactionInput) (*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	txn, err := domain.NewTransaction(in.Description, in.Value, in.Date, in.Type, in.Recurring, in.AccountID, in.CardID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.checkReferences(ctx, s.accountStore.WithTx(tx), s.cardStore.WithTx(tx), ownerID, in); err != nil {
			return err
		}
		return s.txnStore.WithTx(tx).Create(ctx, txn)
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to create transaction",
			slog.String("error", err.Error()),
			slog.Int64("user_id", ownerID))
		return nil, NewServiceError("transaction_service", "create", "failed to save transaction", err)
	}

	log.Info("transaction created",
		slog.Int64("transaction_id", txn.ID),
		slog.String("type", string(txn.Type)),
		slog.Int64("user_id", ownerID))
	return txn, nil
}

// Get implements TransactionService.Get.
func (s *transactionServiceImpl) Get(ctx context.Context, id, ownerID int64) (*domain.Transaction, error) {
	return s.txnStore.GetForOwner(ctx, id, ownerID)
}

// List implements TransactionService.List.
func (s *transactionServiceImpl) List(ctx context.Context, ownerID int64) ([]*domain.Transaction, error) {
	return s.txnStore.ListByOwner(ctx, ownerID)
}

// Update implements TransactionService.Update.
func (s *transactionServiceImpl) Update(ctx context.Context, id, ownerID int64, in TransactionInput) (*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Transaction
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTxns := s.txnStore.WithTx(tx)

		txn, err := txTxns.GetForOwner(ctx, id, ownerID)
		if err != nil {
			return err
		}

		if err := s.checkReferences(ctx, s.accountStore.WithTx(tx), s.cardStore.WithTx(tx), ownerID, in); err != nil {
			return err
		}

		txn.Description = in.Description
		txn.Value = in.Value
		txn.Date = in.Date
		txn.Type = in.Type
		txn.Recurring = in.Recurring
		txn.AccountID = in.AccountID
		txn.CardID = in.CardID
		txn.Touch()

		if err := txn.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		if err := txTxns.Update(ctx, txn); err != nil {
			return err
		}

		updated = txn
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) || errors.Is(err, store.ErrInvalidEntity) {
			return nil, err
		}
		log.Error("failed to update transaction",
			slog.String("error", err.Error()),
			slog.Int64("transaction_id", id))
		return nil, err
	}

	log.Info("transaction updated", slog.Int64("transaction_id", id))
	return updated, nil
}

// Delete implements TransactionService.Delete.
func (s *transactionServiceImpl) Delete(ctx context.Context, id, ownerID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.txnStore.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	log.Info("transaction deleted",
		slog.Int64("transaction_id", id),
		slog.Int64("user_id", ownerID))
	return nil
}

// ListByAccount implements TransactionService.ListByAccount.
func (s *transactionServiceImpl) ListByAccount(ctx context.Context, accountID, ownerID int64) ([]*domain.Transaction, error) {
	if _, err := s.accountStore.GetForOwner(ctx, accountID, ownerID); err != nil {
		return nil, err
	}
	return s.txnStore.ListByAccount(ctx, accountID)
}

// ListByCard implements TransactionService.ListByCard.
func (s *transactionServiceImpl) ListByCard(ctx context.Context, cardID, ownerID int64) ([]*domain.Transaction, error) {
	if _, err := s.cardStore.GetForOwner(ctx, cardID, ownerID); err != nil {
		return nil, err
	}
	return s.txnStore.ListByCard(ctx, cardID)
}

// ListByType implements TransactionService.ListByType.
func (s *transactionServiceImpl) ListByType(ctx context.Context, txnType domain.TransactionType, ownerID int64) ([]*domain.Transaction, error) {
	if !txnType.Valid() {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidTransactionType)
	}
	return s.txnStore.ListByType(ctx, txnType, ownerID)
}

// ListByPeriod implements TransactionService.ListByPeriod.
func (s *transactionServiceImpl) ListByPeriod(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Transaction, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end precedes start", store.ErrInvalidEntity)
	}
	return s.txnStore.ListByPeriod(ctx, ownerID, from, to)
}

// ListRecurring implements TransactionService.ListRecurring.
func (s *transactionServiceImpl) ListRecurring(ctx context.Context, ownerID int64, recurring bool) ([]*domain.Transaction, error) {
	return s.txnStore.ListRecurring(ctx, ownerID, recurring)
}

// SearchByDescription implements TransactionService.SearchByDescription.
func (s *transactionServiceImpl) SearchByDescription(ctx context.Context, description string, ownerID int64) ([]*domain.Transaction, error) {
	return s.txnStore.SearchByDescription(ctx, description, ownerID)
}

// TotalIncome implements TransactionService.TotalIncome.
func (s *transactionServiceImpl) TotalIncome(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	return s.txnStore.SumByType(ctx, domain.TransactionTypeIncome, ownerID)
}

// TotalExpense implements TransactionService.TotalExpense.
func (s *transactionServiceImpl) TotalExpense(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	return s.txnStore.SumByType(ctx, domain.TransactionTypeExpense, ownerID)
}

// TotalIncomeInPeriod implements TransactionService.TotalIncomeInPeriod.
func (s *transactionServiceImpl) TotalIncomeInPeriod(ctx context.Context, ownerID int64, from, to time.Time) (decimal.Decimal, error) {
	return s.txnStore.SumByTypeInPeriod(ctx, domain.TransactionTypeIncome, ownerID, from, to)
}

// TotalExpenseInPeriod implements TransactionService.TotalExpenseInPeriod.
func (s *transactionServiceImpl) TotalExpenseInPeriod(ctx context.Context, ownerID int64, from, to time.Time) (decimal.Decimal, error) {
	return s.txnStore.SumByTypeInPeriod(ctx, domain.TransactionTypeExpense, ownerID, from, to)
}

// Summary implements TransactionService.Summary.
func (s *transactionServiceImpl) Summary(ctx context.Context, ownerID int64) (*FinancialSummary, error) {
	income, err := s.txnStore.SumByType(ctx, domain.TransactionTypeIncome, ownerID)
	if err != nil {
		return nil, err
	}
	expense, err := s.txnStore.SumByType(ctx, domain.TransactionTypeExpense, ownerID)
	if err != nil {
		return nil, err
	}

	return &FinancialSummary{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}, nil
}

// Count implements TransactionService.Count.
func (s *transactionServiceImpl) Count(ctx context.Context, ownerID int64) (int64, error) {
	return s.txnStore.CountByOwner(ctx, ownerID)
}
