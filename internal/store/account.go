package store

import (
	"context"
	"database/sql"

	"github.com/fintrack/fintrack-api/internal/domain"
)

// AccountStore defines the interface for account data persistence.
// All read queries are scoped to a single owner and ordered by name.
type AccountStore interface {
	Owned[domain.Account]

	// Create saves a new account to the store and assigns its ID.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, account *domain.Account) error

	// Update modifies an existing account.
	// Returns ErrAccountNotFound if the account does not exist.
	Update(ctx context.Context, account *domain.Account) error

	// Delete removes an account, scoped to the owner.
	// Returns ErrAccountNotFound if the account does not exist or belongs
	// to a different owner.
	Delete(ctx context.Context, id, ownerID int64) error

	// ListByType returns the owner's accounts of the given type.
	ListByType(ctx context.Context, accountType domain.AccountType, ownerID int64) ([]*domain.Account, error)

	// SearchByInstitution returns the owner's accounts whose institution
	// contains the given fragment, compared case-insensitively.
	SearchByInstitution(ctx context.Context, institution string, ownerID int64) ([]*domain.Account, error)

	// SearchByName returns the owner's accounts whose name contains the
	// given fragment, compared case-insensitively.
	SearchByName(ctx context.Context, name string, ownerID int64) ([]*domain.Account, error)

	// ListActive returns the owner's accounts that have at least one transaction.
	ListActive(ctx context.Context, ownerID int64) ([]*domain.Account, error)

	// ListWithoutTransactions returns the owner's accounts with no transactions.
	ListWithoutTransactions(ctx context.Context, ownerID int64) ([]*domain.Account, error)

	// ExistsByName reports whether the owner already has an account with the
	// given name, compared case-insensitively.
	ExistsByName(ctx context.Context, name string, ownerID int64) (bool, error)

	// ExistsByNameExcluding is ExistsByName ignoring the account excludeID.
	ExistsByNameExcluding(ctx context.Context, name string, ownerID, excludeID int64) (bool, error)

	// HasTransactions reports whether the account has any transactions.
	HasTransactions(ctx context.Context, accountID int64) (bool, error)

	// WithTx returns a new AccountStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AccountStore
}
