package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/platform/logger"
	"github.com/fintrack/fintrack-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

const userColumns = `id, nome, email, senha_hash, perfil, ativo, data_criacao, data_atualizacao`

// scanUser scans a single user row into a domain.User.
func scanUser(row interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var user domain.User
	var role string

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&role,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = domain.Role(role)
	return &user, nil
}

// Create implements store.UserStore.Create
// It saves a new user to the database and assigns the generated ID.
// Returns store.ErrEmailExists if the email is already taken.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO usuarios (nome, email, senha_hash, perfil, ativo, data_criacao, data_atualizacao)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.Role,
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate email during user creation",
				slog.String("email", user.Email))
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("email", user.Email))
		return MapError(err)
	}

	log.Info("user created successfully",
		slog.Int64("user_id", user.ID),
		slog.String("role", string(user.Role)))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + userColumns + ` FROM usuarios WHERE id = $1`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.Int64("user_id", id))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return nil, MapError(err)
	}

	return user, nil
}

// GetByEmail implements store.UserStore.GetByEmail
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + userColumns + ` FROM usuarios WHERE email = $1`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found by email")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by email",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return user, nil
}

// Update implements store.UserStore.Update
// Returns store.ErrUserNotFound if the user does not exist.
// Returns store.ErrEmailExists if updating to an email that already exists.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		return err
	}

	query := `
		UPDATE usuarios
		SET nome = $1, email = $2, senha_hash = $3, perfil = $4, ativo = $5, data_atualizacao = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.Role,
		user.Active,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate email during user update",
				slog.Int64("user_id", user.ID))
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not found for update", slog.Int64("user_id", user.ID))
		return err
	}

	log.Info("user updated successfully", slog.Int64("user_id", user.ID))
	return nil
}

// ExistsByEmail implements store.UserStore.ExistsByEmail
func (s *PostgresUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM usuarios WHERE email = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// ExistsByEmailExcluding implements store.UserStore.ExistsByEmailExcluding
func (s *PostgresUserStore) ExistsByEmailExcluding(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM usuarios WHERE email = $1 AND id <> $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// ListActive implements store.UserStore.ListActive
func (s *PostgresUserStore) ListActive(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE ativo ORDER BY nome`
	return s.queryUsers(ctx, query)
}

// ListByRole implements store.UserStore.ListByRole
func (s *PostgresUserStore) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE perfil = $1 ORDER BY nome`
	return s.queryUsers(ctx, query, role)
}

// SearchByName implements store.UserStore.SearchByName
func (s *PostgresUserStore) SearchByName(ctx context.Context, name string) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE nome ILIKE '%' || $1 || '%' ORDER BY nome`
	return s.queryUsers(ctx, query, name)
}

// CountActive implements store.UserStore.CountActive
func (s *PostgresUserStore) CountActive(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM usuarios WHERE ativo`

	var count int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// CountOwned implements store.UserStore.CountOwned
// It counts the user's accounts, cards and transactions in a single query.
func (s *PostgresUserStore) CountOwned(ctx context.Context, userID int64) (store.OwnedCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			(SELECT COUNT(*) FROM contas WHERE usuario_id = $1),
			(SELECT COUNT(*) FROM cartoes WHERE usuario_id = $1),
			(SELECT COUNT(*) FROM transacoes WHERE usuario_id = $1)
	`

	var counts store.OwnedCounts
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&counts.Accounts,
		&counts.Cards,
		&counts.Transactions,
	)
	if err != nil {
		log.Error("failed to count owned records",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return store.OwnedCounts{}, MapError(err)
	}

	return counts, nil
}

// WithTx implements store.UserStore.WithTx
// It returns a new UserStore that executes against the given transaction.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// queryUsers runs a multi-row user query and scans the results.
func (s *PostgresUserStore) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query users", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return users, nil
}
