package postgres

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

// PostgresTransactionStore implements the store.TransactionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTransactionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTransactionStore creates a new PostgreSQL implementation of the TransactionStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTransactionStore(db store.DBTX, logger *slog.Logger) *PostgresTransactionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTransactionStore{
		db:     db,
		logger: logger.With(slog.String("component", "transaction_store")),
	}
}

// Ensure PostgresTransactionStore implements store.TransactionStore interface
var _ store.TransactionStore = (*PostgresTransactionStore)(nil)

const transactionColumns = `id, descricao, valor, data, tipo, recorrente, conta_id, cartao_id, usuario_id, data_criacao, data_atualizacao`

// Most-recent-first ordering shared by every list query.
const transactionOrder = ` ORDER BY data DESC, id DESC`

// scanTransaction scans a single transaction row into a domain.Transaction.
func scanTransaction(row interface{ Scan(dest ...any) error }) (*domain.Transaction, error) {
	var txn domain.Transaction
	var txnType string
	var cardID sql.NullInt64

	err := row.Scan(
		&txn.ID,
		&txn.Description,
		&txn.Value,
		&txn.Date,
		&txnType,
		&txn.Recurring,
		&txn.AccountID,
		&cardID,
		&txn.UserID,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Type = domain.TransactionType(txnType)
	if cardID.Valid {
		txn.CardID = &cardID.Int64
	}
	return &txn, nil
}

// Create implements store.TransactionStore.Create
// It saves a new transaction and assigns the generated ID.
// Returns store.ErrInvalidEntity if the account, card or user does not exist.
func (s *PostgresTransactionStore) Create(ctx context.Context, txn *domain.Transaction) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := txn.Validate(); err != nil {
		log.Warn("transaction validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO transacoes (descricao, valor, data, tipo, recorrente, conta_id, cartao_id, usuario_id, data_criacao, data_atualizacao)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		txn.Description,
		txn.Value,
		txn.Date,
		txn.Type,
		txn.Recurring,
		txn.AccountID,
		txn.CardID,
		txn.UserID,
		txn.CreatedAt,
		txn.UpdatedAt,
	).Scan(&txn.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during transaction creation",
				slog.Int64("account_id", txn.AccountID),
				slog.Int64("user_id", txn.UserID))
			return fmt.Errorf("%w: referenced account, card or user not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create transaction",
			slog.String("error", err.Error()),
			slog.Int64("user_id", txn.UserID))
		return MapError(err)
	}

	log.Info("transaction created successfully",
		slog.Int64("transaction_id", txn.ID),
		slog.String("type", string(txn.Type)),
		slog.Int64("user_id", txn.UserID))
	return nil
}

// GetForOwner implements store.TransactionStore.GetForOwner
// Returns store.ErrTransactionNotFound if the transaction does not exist or
// belongs to a different owner.
func (s *PostgresTransactionStore) GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + transactionColumns + ` FROM transacoes WHERE id = $1 AND usuario_id = $2`

	txn, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("transaction not found",
				slog.Int64("transaction_id", id),
				slog.Int64("user_id", ownerID))
			return nil, store.ErrTransactionNotFound
		}
		log.Error("failed to get transaction",
			slog.String("error", err.Error()),
			slog.Int64("transaction_id", id))
		return nil, MapError(err)
	}

	return txn, nil
}

// Update implements store.TransactionStore.Update
// Returns store.ErrTransactionNotFound if the transaction does not exist.
func (s *PostgresTransactionStore) Update(ctx context.Context, txn *domain.Transaction) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := txn.Validate(); err != nil {
		log.Warn("transaction validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("transaction_id", txn.ID))
		return err
	}

	query := `
		UPDATE transacoes
		SET descricao = $1, valor = $2, data = $3, tipo = $4, recorrente = $5, conta_id = $6, cartao_id = $7, data_atualizacao = $8
		WHERE id = $9 AND usuario_id = $10
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		txn.Description,
		txn.Value,
		txn.Date,
		txn.Type,
		txn.Recurring,
		txn.AccountID,
		txn.CardID,
		txn.UpdatedAt,
		txn.ID,
		txn.UserID,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: referenced account or card not found",
				store.ErrInvalidEntity)
		}
		log.Error("failed to update transaction",
			slog.String("error", err.Error()),
			slog.Int64("transaction_id", txn.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTransactionNotFound); err != nil {
		log.Debug("transaction not found for update", slog.Int64("transaction_id", txn.ID))
		return err
	}

	log.Info("transaction updated successfully", slog.Int64("transaction_id", txn.ID))
	return nil
}

// Delete implements store.TransactionStore.Delete
// Returns store.ErrTransactionNotFound if the transaction does not exist or
// belongs to a different owner.
func (s *PostgresTransactionStore) Delete(ctx context.Context, id, ownerID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM transacoes WHERE id = $1 AND usuario_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete transaction",
			slog.String("error", err.Error()),
			slog.Int64("transaction_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTransactionNotFound); err != nil {
		log.Debug("transaction not found for delete",
			slog.Int64("transaction_id", id),
			slog.Int64("user_id", ownerID))
		return err
	}

	log.Info("transaction deleted successfully",
		slog.Int64("transaction_id", id),
		slog.Int64("user_id", ownerID))
	return nil
}

// ListByOwner implements store.TransactionStore.ListByOwner
func (s *PostgresTransactionStore) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transacoes WHERE usuario_id = $1` + transactionOrder
	return s.queryTransactions(ctx, query, ownerID)
}

// ListByAccount implements store.TransactionStore.ListByAccount
func (s *PostgresTransactionStore) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transacoes WHERE conta_id = $1` + transactionOrder
	return s.queryTransactions(ctx, query, accountID)
}

// ListByCard implements store.TransactionStore.ListByCard
func (s *PostgresTransactionStore) ListByCard(ctx context.Context, cardID int64) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transacoes WHERE cartao_id = $1` + transactionOrder
	return s.queryTransactions(ctx, query, cardID)
}

// ListByType implements store.TransactionStore.ListByType
func (s *PostgresTransactionStore) ListByType(ctx context.Context, txnType domain.TransactionType, ownerID int64) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transacoes WHERE tipo = $1 AND usuario_id = $2` + transactionOrder
	return s.queryTransactions(ctx, query, txnType, ownerID)
}

// ListByPeriod implements store.TransactionStore.ListByPeriod
func (s *PostgresTransactionStore) ListByPeriod(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transacoes WHERE usuario_id = $1 AND data BETWEEN $2 AND $3` + transactionOrder
	return s.queryTransactions(ctx, query, ownerID, from, to)
}

// ListRecurring implements store.TransactionStore.ListRecurring
func (s *PostgresTransactionStore) ListRecurring(ctx context.Context, ownerID int64, recurring bool) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transacoes WHERE usuario_id = $1 AND recorrente = $2` + transactionOrder
	return s.queryTransactions(ctx, query, ownerID, recurring)
}

// SearchByDescription implements store.TransactionStore.SearchByDescription
func (s *PostgresTransactionStore) SearchByDescription(ctx context.Context, description string, ownerID int64) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transacoes WHERE descricao ILIKE '%' || $1 || '%' AND usuario_id = $2` + transactionOrder
	return s.queryTransactions(ctx, query, description, ownerID)
}

// SumByType implements store.TransactionStore.SumByType
func (s *PostgresTransactionStore) SumByType(ctx context.Context, txnType domain.TransactionType, ownerID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(valor), 0) FROM transacoes WHERE tipo = $1 AND usuario_id = $2`

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, txnType, ownerID).Scan(&total); err != nil {
		return decimal.Zero, MapError(err)
	}
	return total, nil
}

// SumByTypeInPeriod implements store.TransactionStore.SumByTypeInPeriod
func (s *PostgresTransactionStore) SumByTypeInPeriod(ctx context.Context, txnType domain.TransactionType, ownerID int64, from, to time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(valor), 0) FROM transacoes WHERE tipo = $1 AND usuario_id = $2 AND data BETWEEN $3 AND $4`

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, txnType, ownerID, from, to).Scan(&total); err != nil {
		return decimal.Zero, MapError(err)
	}
	return total, nil
}

// CountByOwner implements store.TransactionStore.CountByOwner
func (s *PostgresTransactionStore) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM transacoes WHERE usuario_id = $1`

	var count int64
	if err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// WithTx implements store.TransactionStore.WithTx
// It returns a new TransactionStore that executes against the given transaction.
func (s *PostgresTransactionStore) WithTx(tx *sql.Tx) store.TransactionStore {
	return &PostgresTransactionStore{
		db:     tx,
		logger: s.logger,
	}
}

// queryTransactions runs a multi-row transaction query and scans the results.
func (s *PostgresTransactionStore) queryTransactions(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query transactions", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	txns := []*domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			log.Error("failed to scan transaction row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return txns, nil
}
