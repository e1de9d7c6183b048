package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionStore defines the interface for transaction data persistence.
// All read queries are scoped to a single owner and ordered by date
// descending, then id descending (most recent first).
type TransactionStore interface {
	Owned[domain.Transaction]

	// Create saves a new transaction to the store and assigns its ID.
	// Returns ErrInvalidEntity if a referenced account, card or user does
	// not exist.
	Create(ctx context.Context, txn *domain.Transaction) error

	// Update modifies an existing transaction.
	// Returns ErrTransactionNotFound if the transaction does not exist.
	Update(ctx context.Context, txn *domain.Transaction) error

	// Delete removes a transaction, scoped to the owner.
	// Returns ErrTransactionNotFound if the transaction does not exist or
	// belongs to a different owner.
	Delete(ctx context.Context, id, ownerID int64) error

	// ListByAccount returns all transactions on the given account.
	ListByAccount(ctx context.Context, accountID int64) ([]*domain.Transaction, error)

	// ListByCard returns all transactions linked to the given card.
	ListByCard(ctx context.Context, cardID int64) ([]*domain.Transaction, error)

	// ListByType returns the owner's transactions of the given type.
	ListByType(ctx context.Context, txnType domain.TransactionType, ownerID int64) ([]*domain.Transaction, error)

	// ListByPeriod returns the owner's transactions dated within [from, to].
	ListByPeriod(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Transaction, error)

	// ListRecurring returns the owner's transactions with the given
	// recurring flag.
	ListRecurring(ctx context.Context, ownerID int64, recurring bool) ([]*domain.Transaction, error)

	// SearchByDescription returns the owner's transactions whose description
	// contains the given fragment, compared case-insensitively.
	SearchByDescription(ctx context.Context, description string, ownerID int64) ([]*domain.Transaction, error)

	// SumByType returns the sum of the owner's transaction values of the
	// given type, zero when there are none.
	SumByType(ctx context.Context, txnType domain.TransactionType, ownerID int64) (decimal.Decimal, error)

	// SumByTypeInPeriod is SumByType restricted to transactions dated within [from, to].
	SumByTypeInPeriod(ctx context.Context, txnType domain.TransactionType, ownerID int64, from, to time.Time) (decimal.Decimal, error)

	// WithTx returns a new TransactionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TransactionStore
}
