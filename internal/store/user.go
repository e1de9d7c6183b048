package store

import (
	"context"
	"database/sql"

	"github.com/fintrack/fintrack-api/internal/domain"
)

// OwnedCounts aggregates how many records of each kind a user owns. The
// service layer uses it to guard user deactivation.
type OwnedCounts struct {
	Accounts     int64
	Cards        int64
	Transactions int64
}

// Total returns the sum of all owned record counts.
func (c OwnedCounts) Total() int64 {
	return c.Accounts + c.Cards + c.Transactions
}

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store and assigns its ID.
	// The caller must have hashed the password already.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's details. The caller must provide a
	// complete user object including HashedPassword.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// ExistsByEmail reports whether any user has the given email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByEmailExcluding reports whether a user other than excludeID has
	// the given email. Used by update paths to ignore the user's own row.
	ExistsByEmailExcluding(ctx context.Context, email string, excludeID int64) (bool, error)

	// ListActive returns all active users ordered by name.
	ListActive(ctx context.Context) ([]*domain.User, error)

	// ListByRole returns all users with the given role ordered by name.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)

	// SearchByName returns users whose name contains the given fragment,
	// compared case-insensitively, ordered by name.
	SearchByName(ctx context.Context, name string) ([]*domain.User, error)

	// CountActive returns the number of active users.
	CountActive(ctx context.Context) (int64, error)

	// CountOwned returns how many accounts, cards and transactions the user owns.
	CountOwned(ctx context.Context, userID int64) (OwnedCounts, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// The transaction is created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
