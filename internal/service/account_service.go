package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/platform/logger"
	"github.com/fintrack/fintrack-api/internal/store"
)

// AccountService provides operations on a user's bank accounts. Every
// operation is scoped to the owner taken from the authenticated session;
// an account belonging to someone else behaves exactly like a missing one.
type AccountService interface {
	// Create saves a new account for the owner. Account names are unique
	// per owner; returns store.ErrAccountNameExists on collision.
	Create(ctx context.Context, ownerID int64, name string, accountType domain.AccountType, initialBalance decimal.Decimal, institution string) (*domain.Account, error)

	// Get retrieves one of the owner's accounts by id.
	Get(ctx context.Context, id, ownerID int64) (*domain.Account, error)

	// List returns all of the owner's accounts.
	List(ctx context.Context, ownerID int64) ([]*domain.Account, error)

	// Update modifies an existing account's name, type, initial balance
	// and institution.
	Update(ctx context.Context, id, ownerID int64, name string, accountType domain.AccountType, initialBalance decimal.Decimal, institution string) (*domain.Account, error)

	// Delete removes an account. Blocked with ErrHasDependents while the
	// account still has transactions.
	Delete(ctx context.Context, id, ownerID int64) error

	// ListByType returns the owner's accounts of the given type.
	ListByType(ctx context.Context, accountType domain.AccountType, ownerID int64) ([]*domain.Account, error)

	// SearchByInstitution returns the owner's accounts matching the
	// institution fragment.
	SearchByInstitution(ctx context.Context, institution string, ownerID int64) ([]*domain.Account, error)

	// SearchByName returns the owner's accounts matching the name fragment.
	SearchByName(ctx context.Context, name string, ownerID int64) ([]*domain.Account, error)

	// ListActive returns the owner's accounts that have transactions.
	ListActive(ctx context.Context, ownerID int64) ([]*domain.Account, error)

	// ListWithoutTransactions returns the owner's accounts with no transactions.
	ListWithoutTransactions(ctx context.Context, ownerID int64) ([]*domain.Account, error)

	// CurrentBalance computes the account's balance: initial balance plus
	// income minus expense across all of its transactions.
	CurrentBalance(ctx context.Context, id, ownerID int64) (decimal.Decimal, error)

	// TotalBalance computes the sum of current balances across all of the
	// owner's accounts.
	TotalBalance(ctx context.Context, ownerID int64) (decimal.Decimal, error)

	// Count returns the number of accounts the owner has.
	Count(ctx context.Context, ownerID int64) (int64, error)
}

// accountServiceImpl implements the AccountService interface.
type accountServiceImpl struct {
	accountStore store.AccountStore
	txnStore     store.TransactionStore
	db           *sql.DB
	logger       *slog.Logger
}

// NewAccountService creates a new AccountService.
// It returns an error if any of the required dependencies are nil.
func NewAccountService(
	accountStore store.AccountStore,
	txnStore store.TransactionStore,
	db *sql.DB,
	log *slog.Logger,
) (AccountService, error) {
	if accountStore == nil {
		return nil, fmt.Errorf("accountStore cannot be nil")
	}
	if txnStore == nil {
		return nil, fmt.Errorf("txnStore cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &accountServiceImpl{
		accountStore: accountStore,
		txnStore:     txnStore,
		db:           db,
		logger:       log.With(slog.String("component", "account_service")),
	}, nil
}

// Create implements AccountService.Create.
func (s *accountServiceImpl) Create(
	ctx context.Context,
	ownerID int64,
	name string,
	accountType domain.AccountType,
	initialBalance decimal.Decimal,
	institution string,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := domain.NewAccount(name, accountType, initialBalance, institution, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.accountStore.WithTx(tx)

		exists, err := txStore.ExistsByName(ctx, account.Name, ownerID)
		if err != nil {
			return fmt.Errorf("failed to check account name uniqueness: %w", err)
		}
		if exists {
			return store.ErrAccountNameExists
		}

		return txStore.Create(ctx, account)
	})
	if err != nil {
		if errors.Is(err, store.ErrAccountNameExists) {
			return nil, err
		}
		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.Int64("user_id", ownerID))
		return nil, NewServiceError("account_service", "create", "failed to save account", err)
	}

	log.Info("account created",
		slog.Int64("account_id", account.ID),
		slog.Int64("user_id", ownerID))
	return account, nil
}

// Get implements AccountService.Get.
func (s *accountServiceImpl) Get(ctx context.Context, id, ownerID int64) (*domain.Account, error) {
	return s.accountStore.GetForOwner(ctx, id, ownerID)
}

// List implements AccountService.List.
func (s *accountServiceImpl) List(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	return s.accountStore.ListByOwner(ctx, ownerID)
}

// Update implements AccountService.Update.
func (s *accountServiceImpl) Update(
	ctx context.Context,
	id, ownerID int64,
	name string,
	accountType domain.AccountType,
	initialBalance decimal.Decimal,
	institution string,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Account
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.accountStore.WithTx(tx)

		account, err := txStore.GetForOwner(ctx, id, ownerID)
		if err != nil {
			return err
		}

		if account.Name != name {
			exists, err := txStore.ExistsByNameExcluding(ctx, name, ownerID, id)
			if err != nil {
				return fmt.Errorf("failed to check account name uniqueness: %w", err)
			}
			if exists {
				return store.ErrAccountNameExists
			}
		}

		account.Name = name
		account.Type = accountType
		account.InitialBalance = initialBalance
		account.Institution = institution
		account.Touch()

		if err := account.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		if err := txStore.Update(ctx, account); err != nil {
			return err
		}

		updated = account
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) || errors.Is(err, store.ErrAccountNameExists) || errors.Is(err, store.ErrInvalidEntity) {
			return nil, err
		}
		log.Error("failed to update account",
			slog.String("error", err.Error()),
			slog.Int64("account_id", id))
		return nil, err
	}

	log.Info("account updated", slog.Int64("account_id", id))
	return updated, nil
}

// Delete implements AccountService.Delete.
func (s *accountServiceImpl) Delete(ctx context.Context, id, ownerID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.accountStore.WithTx(tx)

		// Confirm ownership before anything else.
		if _, err := txStore.GetForOwner(ctx, id, ownerID); err != nil {
			return err
		}

		has, err := txStore.HasTransactions(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check account transactions: %w", err)
		}
		if has {
			return fmt.Errorf("%w: account has transactions", ErrHasDependents)
		}

		if err := txStore.Delete(ctx, id, ownerID); err != nil {
			return err
		}

		log.Info("account deleted",
			slog.Int64("account_id", id),
			slog.Int64("user_id", ownerID))
		return nil
	})
}

// ListByType implements AccountService.ListByType.
func (s *accountServiceImpl) ListByType(ctx context.Context, accountType domain.AccountType, ownerID int64) ([]*domain.Account, error) {
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidAccountType)
	}
	return s.accountStore.ListByType(ctx, accountType, ownerID)
}

// SearchByInstitution implements AccountService.SearchByInstitution.
func (s *accountServiceImpl) SearchByInstitution(ctx context.Context, institution string, ownerID int64) ([]*domain.Account, error) {
	return s.accountStore.SearchByInstitution(ctx, institution, ownerID)
}

// SearchByName implements AccountService.SearchByName.
func (s *accountServiceImpl) SearchByName(ctx context.Context, name string, ownerID int64) ([]*domain.Account, error) {
	return s.accountStore.SearchByName(ctx, name, ownerID)
}

// ListActive implements AccountService.ListActive.
func (s *accountServiceImpl) ListActive(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	return s.accountStore.ListActive(ctx, ownerID)
}

// ListWithoutTransactions implements AccountService.ListWithoutTransactions.
func (s *accountServiceImpl) ListWithoutTransactions(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	return s.accountStore.ListWithoutTransactions(ctx, ownerID)
}

// CurrentBalance implements AccountService.CurrentBalance.
func (s *accountServiceImpl) CurrentBalance(ctx context.Context, id, ownerID int64) (decimal.Decimal, error) {
	account, err := s.accountStore.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return decimal.Zero, err
	}

	txns, err := s.txnStore.ListByAccount(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load account transactions: %w", err)
	}

	return account.CurrentBalance(txns), nil
}

// TotalBalance implements AccountService.TotalBalance.
func (s *accountServiceImpl) TotalBalance(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	accounts, err := s.accountStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, account := range accounts {
		txns, err := s.txnStore.ListByAccount(ctx, account.ID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to load account transactions: %w", err)
		}
		total = total.Add(account.CurrentBalance(txns))
	}
	return total, nil
}

// Count implements AccountService.Count.
func (s *accountServiceImpl) Count(ctx context.Context, ownerID int64) (int64, error) {
	return s.accountStore.CountByOwner(ctx, ownerID)
}
