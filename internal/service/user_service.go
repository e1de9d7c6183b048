package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/platform/logger"
	"github.com/fintrack/fintrack-api/internal/service/auth"
	"github.com/fintrack/fintrack-api/internal/store"
)

// minPasswordLength is the minimum accepted plaintext password length.
const minPasswordLength = 6

// UserService provides user-related operations: registration, profile
// updates, password management, and the active/inactive lifecycle.
//
// Deletion policy: users are never hard-deleted. Deactivate flips the
// active flag, and only when the user owns no accounts, cards or
// transactions. This is deliberately asymmetric with accounts and
// transactions, which hard-delete.
type UserService interface {
	// Register creates a new user. The role defaults to user when empty,
	// the secret is hashed before persisting, and the user starts active.
	// Returns store.ErrEmailExists if the email is already in use.
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)

	// Get retrieves a user by id.
	Get(ctx context.Context, userID int64) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies the user's name and email, and the password when a
	// non-empty one is supplied; an empty password keeps the stored hash.
	// Email uniqueness is enforced excluding the user's own row.
	Update(ctx context.Context, userID int64, name, email, password string) (*domain.User, error)

	// ChangePassword replaces the user's password after verifying the
	// current plaintext against the stored hash.
	// Returns ErrWrongPassword when the current password does not match.
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error

	// SetActive activates or deactivates a user. No other transitions exist.
	SetActive(ctx context.Context, userID int64, active bool) (*domain.User, error)

	// SetRole changes the user's role.
	SetRole(ctx context.Context, userID int64, role domain.Role) (*domain.User, error)

	// Deactivate is the "delete" operation: a soft deactivation, blocked
	// with ErrHasDependents while the user owns accounts, cards or
	// transactions.
	Deactivate(ctx context.Context, userID int64) error

	// ListActive returns all active users ordered by name.
	ListActive(ctx context.Context) ([]*domain.User, error)

	// ListByRole returns all users with the given role ordered by name.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)

	// SearchByName returns users whose name contains the fragment.
	SearchByName(ctx context.Context, name string) ([]*domain.User, error)

	// CountActive returns the number of active users.
	CountActive(ctx context.Context) (int64, error)

	// EmailInUse reports whether the email is already registered.
	EmailInUse(ctx context.Context, email string) (bool, error)
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	db        *sql.DB
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	log *slog.Logger,
) (UserService, error) {
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if hasher == nil {
		return nil, fmt.Errorf("hasher cannot be nil")
	}
	if verifier == nil {
		return nil, fmt.Errorf("verifier cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &userServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		verifier:  verifier,
		db:        db,
		logger:    log.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.Register.
func (s *userServiceImpl) Register(
	ctx context.Context,
	name, email, password string,
	role domain.Role,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: at least %d characters required", ErrPasswordPolicy, minPasswordLength)
	}

	user, err := domain.NewUser(name, email, password, role)
	if err != nil {
		log.Debug("user validation failed during registration",
			slog.String("error", err.Error()),
			slog.String("email", email))
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewServiceError("user_service", "register", "failed to hash password", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		exists, err := txStore.ExistsByEmail(ctx, user.Email)
		if err != nil {
			return fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if exists {
			return store.ErrEmailExists
		}

		return txStore.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register with existing email",
				slog.String("email", email))
			return nil, err
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("email", email))
		return nil, NewServiceError("user_service", "register", "failed to save user", err)
	}

	log.Info("user registered successfully",
		slog.Int64("user_id", user.ID),
		slog.String("role", string(user.Role)))
	return user, nil
}

// Get implements UserService.Get.
func (s *userServiceImpl) Get(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail implements UserService.GetByEmail.
func (s *userServiceImpl) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update implements UserService.Update.
func (s *userServiceImpl) Update(
	ctx context.Context,
	userID int64,
	name, email, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		// Email uniqueness, excluding the user's own row.
		if user.Email != email {
			exists, err := txStore.ExistsByEmailExcluding(ctx, email, userID)
			if err != nil {
				return fmt.Errorf("failed to check email uniqueness: %w", err)
			}
			if exists {
				return store.ErrEmailExists
			}
		}

		user.Name = name
		user.Email = email

		// Update the password only when a new one is supplied.
		if password != "" {
			if len(password) < minPasswordLength {
				return fmt.Errorf("%w: at least %d characters required", ErrPasswordPolicy, minPasswordLength)
			}
			hashed, err := s.hasher.Hash(password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user.HashedPassword = hashed
		}

		user.Touch()
		if err := user.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		if err := txStore.Update(ctx, user); err != nil {
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) || store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, err
	}

	log.Info("user updated successfully", slog.Int64("user_id", userID))
	return updated, nil
}

// ChangePassword implements UserService.ChangePassword.
func (s *userServiceImpl) ChangePassword(
	ctx context.Context,
	userID int64,
	currentPassword, newPassword string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: at least %d characters required", ErrPasswordPolicy, minPasswordLength)
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if err := s.verifier.Compare(user.HashedPassword, currentPassword); err != nil {
			log.Debug("password change rejected: current password mismatch",
				slog.Int64("user_id", userID))
			return ErrWrongPassword
		}

		hashed, err := s.hasher.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashed
		user.Touch()

		if err := txStore.Update(ctx, user); err != nil {
			return err
		}

		log.Info("password changed successfully", slog.Int64("user_id", userID))
		return nil
	})
}

// SetActive implements UserService.SetActive.
func (s *userServiceImpl) SetActive(ctx context.Context, userID int64, active bool) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		user.Active = active
		user.Touch()

		if err := txStore.Update(ctx, user); err != nil {
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("user status changed",
		slog.Int64("user_id", userID),
		slog.Bool("active", active))
	return updated, nil
}

// SetRole implements UserService.SetRole.
func (s *userServiceImpl) SetRole(ctx context.Context, userID int64, role domain.Role) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !role.Valid() {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidRole)
	}

	var updated *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		user.Role = role
		user.Touch()

		if err := txStore.Update(ctx, user); err != nil {
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("user role changed",
		slog.Int64("user_id", userID),
		slog.String("role", string(role)))
	return updated, nil
}

// Deactivate implements UserService.Deactivate.
func (s *userServiceImpl) Deactivate(ctx context.Context, userID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		counts, err := txStore.CountOwned(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to count owned records: %w", err)
		}
		if counts.Total() > 0 {
			log.Debug("deactivation blocked by owned records",
				slog.Int64("user_id", userID),
				slog.Int64("accounts", counts.Accounts),
				slog.Int64("cards", counts.Cards),
				slog.Int64("transactions", counts.Transactions))
			return fmt.Errorf("%w: user owns accounts, cards or transactions", ErrHasDependents)
		}

		user.Active = false
		user.Touch()

		if err := txStore.Update(ctx, user); err != nil {
			return err
		}

		log.Info("user deactivated", slog.Int64("user_id", userID))
		return nil
	})
}

// ListActive implements UserService.ListActive.
func (s *userServiceImpl) ListActive(ctx context.Context) ([]*domain.User, error) {
	return s.userStore.ListActive(ctx)
}

// ListByRole implements UserService.ListByRole.
func (s *userServiceImpl) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	return s.userStore.ListByRole(ctx, role)
}

// SearchByName implements UserService.SearchByName.
func (s *userServiceImpl) SearchByName(ctx context.Context, name string) ([]*domain.User, error) {
	return s.userStore.SearchByName(ctx, name)
}

// CountActive implements UserService.CountActive.
func (s *userServiceImpl) CountActive(ctx context.Context) (int64, error) {
	return s.userStore.CountActive(ctx)
}

// EmailInUse implements UserService.EmailInUse.
func (s *userServiceImpl) EmailInUse(ctx context.Context, email string) (bool, error) {
	return s.userStore.ExistsByEmail(ctx, email)
}
