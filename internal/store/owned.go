package store

import "context"

// Owned captures the ownership-scoped query capability that every
// user-owned entity store provides. Scoping by owner id is the security
// boundary of every read path: implementations must never return another
// owner's rows, and GetForOwner must report a non-owned id identically to a
// missing one.
type Owned[T any] interface {
	// ListByOwner returns all of the owner's entities.
	ListByOwner(ctx context.Context, ownerID int64) ([]*T, error)

	// GetForOwner retrieves a single entity by id, scoped to the owner.
	// Returns the entity-specific not-found error when the id does not
	// exist or belongs to a different owner.
	GetForOwner(ctx context.Context, id, ownerID int64) (*T, error)

	// CountByOwner returns the number of entities the owner has.
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
}
