package store

import (
	"context"
	"database/sql"

	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/shopspring/decimal"
)

// CardStore defines the interface for card data persistence.
// All read queries are scoped to a single owner and ordered by card name.
type CardStore interface {
	Owned[domain.Card]

	// Create saves a new card to the store and assigns its ID.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, card *domain.Card) error

	// Update modifies an existing card.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card, scoped to the owner.
	// Returns ErrCardNotFound if the card does not exist or belongs to a
	// different owner.
	Delete(ctx context.Context, id, ownerID int64) error

	// SearchByBrand returns the owner's cards whose brand contains the given
	// fragment, compared case-insensitively.
	SearchByBrand(ctx context.Context, brand string, ownerID int64) ([]*domain.Card, error)

	// SearchByName returns the owner's cards whose name contains the given
	// fragment, compared case-insensitively.
	SearchByName(ctx context.Context, name string, ownerID int64) ([]*domain.Card, error)

	// ListByClosingDay returns the owner's cards closing on the given day.
	ListByClosingDay(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error)

	// ListByDueDay returns the owner's cards due on the given day.
	ListByDueDay(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error)

	// ExistsByName reports whether the owner already has a card with the
	// given name, compared case-insensitively.
	ExistsByName(ctx context.Context, name string, ownerID int64) (bool, error)

	// ExistsByNameExcluding is ExistsByName ignoring the card excludeID.
	ExistsByNameExcluding(ctx context.Context, name string, ownerID, excludeID int64) (bool, error)

	// TotalLimitByOwner returns the sum of the owner's card limits, zero
	// when the owner has no cards.
	TotalLimitByOwner(ctx context.Context, ownerID int64) (decimal.Decimal, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
