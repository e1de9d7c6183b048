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

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of the AccountStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

// Ensure PostgresAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*PostgresAccountStore)(nil)

const accountColumns = `id, nome, tipo, saldo_inicial, instituicao, usuario_id, data_criacao, data_atualizacao`

// scanAccount scans a single account row into a domain.Account.
func scanAccount(row interface{ Scan(dest ...any) error }) (*domain.Account, error) {
	var account domain.Account
	var accountType string

	err := row.Scan(
		&account.ID,
		&account.Name,
		&accountType,
		&account.InitialBalance,
		&account.Institution,
		&account.UserID,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Type = domain.AccountType(accountType)
	return &account, nil
}

// Create implements store.AccountStore.Create
// It saves a new account and assigns the generated ID.
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO contas (nome, tipo, saldo_inicial, instituicao, usuario_id, data_criacao, data_atualizacao)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		account.Name,
		account.Type,
		account.InitialBalance,
		account.Institution,
		account.UserID,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during account creation",
				slog.Int64("user_id", account.UserID))
			return fmt.Errorf("%w: user with ID %d not found",
				store.ErrInvalidEntity, account.UserID)
		}

		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.Int64("user_id", account.UserID))
		return MapError(err)
	}

	log.Info("account created successfully",
		slog.Int64("account_id", account.ID),
		slog.Int64("user_id", account.UserID))
	return nil
}

// GetForOwner implements store.AccountStore.GetForOwner
// Returns store.ErrAccountNotFound if the account does not exist or belongs
// to a different owner.
func (s *PostgresAccountStore) GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + accountColumns + ` FROM contas WHERE id = $1 AND usuario_id = $2`

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found",
				slog.Int64("account_id", id),
				slog.Int64("user_id", ownerID))
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account",
			slog.String("error", err.Error()),
			slog.Int64("account_id", id))
		return nil, MapError(err)
	}

	return account, nil
}

// Update implements store.AccountStore.Update
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) Update(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("account_id", account.ID))
		return err
	}

	query := `
		UPDATE contas
		SET nome = $1, tipo = $2, saldo_inicial = $3, instituicao = $4, data_atualizacao = $5
		WHERE id = $6 AND usuario_id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		account.Name,
		account.Type,
		account.InitialBalance,
		account.Institution,
		account.UpdatedAt,
		account.ID,
		account.UserID,
	)
	if err != nil {
		log.Error("failed to update account",
			slog.String("error", err.Error()),
			slog.Int64("account_id", account.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrAccountNotFound); err != nil {
		log.Debug("account not found for update", slog.Int64("account_id", account.ID))
		return err
	}

	log.Info("account updated successfully", slog.Int64("account_id", account.ID))
	return nil
}

// Delete implements store.AccountStore.Delete
// Returns store.ErrAccountNotFound if the account does not exist or belongs
// to a different owner.
func (s *PostgresAccountStore) Delete(ctx context.Context, id, ownerID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM contas WHERE id = $1 AND usuario_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete account",
			slog.String("error", err.Error()),
			slog.Int64("account_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrAccountNotFound); err != nil {
		log.Debug("account not found for delete",
			slog.Int64("account_id", id),
			slog.Int64("user_id", ownerID))
		return err
	}

	log.Info("account deleted successfully",
		slog.Int64("account_id", id),
		slog.Int64("user_id", ownerID))
	return nil
}

// ListByOwner implements store.AccountStore.ListByOwner
func (s *PostgresAccountStore) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM contas WHERE usuario_id = $1 ORDER BY nome`
	return s.queryAccounts(ctx, query, ownerID)
}

// ListByType implements store.AccountStore.ListByType
func (s *PostgresAccountStore) ListByType(ctx context.Context, accountType domain.AccountType, ownerID int64) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM contas WHERE tipo = $1 AND usuario_id = $2 ORDER BY nome`
	return s.queryAccounts(ctx, query, accountType, ownerID)
}

// SearchByInstitution implements store.AccountStore.SearchByInstitution
func (s *PostgresAccountStore) SearchByInstitution(ctx context.Context, institution string, ownerID int64) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM contas WHERE instituicao ILIKE '%' || $1 || '%' AND usuario_id = $2 ORDER BY nome`
	return s.queryAccounts(ctx, query, institution, ownerID)
}

// SearchByName implements store.AccountStore.SearchByName
func (s *PostgresAccountStore) SearchByName(ctx context.Context, name string, ownerID int64) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM contas WHERE nome ILIKE '%' || $1 || '%' AND usuario_id = $2 ORDER BY nome`
	return s.queryAccounts(ctx, query, name, ownerID)
}

// ListActive implements store.AccountStore.ListActive
// Active means the account has at least one transaction.
func (s *PostgresAccountStore) ListActive(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM contas c
		WHERE c.usuario_id = $1
		  AND EXISTS (SELECT 1 FROM transacoes t WHERE t.conta_id = c.id)
		ORDER BY nome
	`
	return s.queryAccounts(ctx, query, ownerID)
}

// ListWithoutTransactions implements store.AccountStore.ListWithoutTransactions
func (s *PostgresAccountStore) ListWithoutTransactions(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM contas c
		WHERE c.usuario_id = $1
		  AND NOT EXISTS (SELECT 1 FROM transacoes t WHERE t.conta_id = c.id)
		ORDER BY nome
	`
	return s.queryAccounts(ctx, query, ownerID)
}

// ExistsByName implements store.AccountStore.ExistsByName
func (s *PostgresAccountStore) ExistsByName(ctx context.Context, name string, ownerID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM contas WHERE LOWER(nome) = LOWER($1) AND usuario_id = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, name, ownerID).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// ExistsByNameExcluding implements store.AccountStore.ExistsByNameExcluding
func (s *PostgresAccountStore) ExistsByNameExcluding(ctx context.Context, name string, ownerID, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM contas WHERE LOWER(nome) = LOWER($1) AND usuario_id = $2 AND id <> $3)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, name, ownerID, excludeID).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// HasTransactions implements store.AccountStore.HasTransactions
func (s *PostgresAccountStore) HasTransactions(ctx context.Context, accountID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM transacoes WHERE conta_id = $1)`

	var has bool
	if err := s.db.QueryRowContext(ctx, query, accountID).Scan(&has); err != nil {
		return false, MapError(err)
	}
	return has, nil
}

// CountByOwner implements store.AccountStore.CountByOwner
func (s *PostgresAccountStore) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM contas WHERE usuario_id = $1`

	var count int64
	if err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// WithTx implements store.AccountStore.WithTx
// It returns a new AccountStore that executes against the given transaction.
func (s *PostgresAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &PostgresAccountStore{
		db:     tx,
		logger: s.logger,
	}
}

// queryAccounts runs a multi-row account query and scans the results.
func (s *PostgresAccountStore) queryAccounts(ctx context.Context, query string, args ...any) ([]*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query accounts", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	accounts := []*domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			log.Error("failed to scan account row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return accounts, nil
}
