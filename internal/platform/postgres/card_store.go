package postgres

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

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

const cardColumns = `id, nome_do_cartao, bandeira, limite_total, dia_de_fechamento, dia_de_vencimento, usuario_id, data_criacao, data_atualizacao`

// scanCard scans a single card row into a domain.Card.
func scanCard(row interface{ Scan(dest ...any) error }) (*domain.Card, error) {
	var card domain.Card

	err := row.Scan(
		&card.ID,
		&card.Name,
		&card.Brand,
		&card.TotalLimit,
		&card.ClosingDay,
		&card.DueDay,
		&card.UserID,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &card, nil
}

// Create implements store.CardStore.Create
// It saves a new card and assigns the generated ID.
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO cartoes (nome_do_cartao, bandeira, limite_total, dia_de_fechamento, dia_de_vencimento, usuario_id, data_criacao, data_atualizacao)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		card.Name,
		card.Brand,
		card.TotalLimit,
		card.ClosingDay,
		card.DueDay,
		card.UserID,
		card.CreatedAt,
		card.UpdatedAt,
	).Scan(&card.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during card creation",
				slog.Int64("user_id", card.UserID))
			return fmt.Errorf("%w: user with ID %d not found",
				store.ErrInvalidEntity, card.UserID)
		}

		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.Int64("user_id", card.UserID))
		return MapError(err)
	}

	log.Info("card created successfully",
		slog.Int64("card_id", card.ID),
		slog.Int64("user_id", card.UserID))
	return nil
}

// GetForOwner implements store.CardStore.GetForOwner
// Returns store.ErrCardNotFound if the card does not exist or belongs to a
// different owner.
func (s *PostgresCardStore) GetForOwner(ctx context.Context, id, ownerID int64) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cartoes WHERE id = $1 AND usuario_id = $2`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found",
				slog.Int64("card_id", id),
				slog.Int64("user_id", ownerID))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return nil, MapError(err)
	}

	return card, nil
}

// Update implements store.CardStore.Update
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return err
	}

	query := `
		UPDATE cartoes
		SET nome_do_cartao = $1, bandeira = $2, limite_total = $3, dia_de_fechamento = $4, dia_de_vencimento = $5, data_atualizacao = $6
		WHERE id = $7 AND usuario_id = $8
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Name,
		card.Brand,
		card.TotalLimit,
		card.ClosingDay,
		card.DueDay,
		card.UpdatedAt,
		card.ID,
		card.UserID,
	)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		log.Debug("card not found for update", slog.Int64("card_id", card.ID))
		return err
	}

	log.Info("card updated successfully", slog.Int64("card_id", card.ID))
	return nil
}

// Delete implements store.CardStore.Delete
// Returns store.ErrCardNotFound if the card does not exist or belongs to a
// different owner.
func (s *PostgresCardStore) Delete(ctx context.Context, id, ownerID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM cartoes WHERE id = $1 AND usuario_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		log.Debug("card not found for delete",
			slog.Int64("card_id", id),
			slog.Int64("user_id", ownerID))
		return err
	}

	log.Info("card deleted successfully",
		slog.Int64("card_id", id),
		slog.Int64("user_id", ownerID))
	return nil
}

// ListByOwner implements store.CardStore.ListByOwner
func (s *PostgresCardStore) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cartoes WHERE usuario_id = $1 ORDER BY nome_do_cartao`
	return s.queryCards(ctx, query, ownerID)
}

// SearchByBrand implements store.CardStore.SearchByBrand
func (s *PostgresCardStore) SearchByBrand(ctx context.Context, brand string, ownerID int64) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cartoes WHERE bandeira ILIKE '%' || $1 || '%' AND usuario_id = $2 ORDER BY nome_do_cartao`
	return s.queryCards(ctx, query, brand, ownerID)
}

// SearchByName implements store.CardStore.SearchByName
func (s *PostgresCardStore) SearchByName(ctx context.Context, name string, ownerID int64) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cartoes WHERE nome_do_cartao ILIKE '%' || $1 || '%' AND usuario_id = $2 ORDER BY nome_do_cartao`
	return s.queryCards(ctx, query, name, ownerID)
}

// ListByClosingDay implements store.CardStore.ListByClosingDay
func (s *PostgresCardStore) ListByClosingDay(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cartoes WHERE dia_de_fechamento = $1 AND usuario_id = $2 ORDER BY nome_do_cartao`
	return s.queryCards(ctx, query, day, ownerID)
}

// ListByDueDay implements store.CardStore.ListByDueDay
func (s *PostgresCardStore) ListByDueDay(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cartoes WHERE dia_de_vencimento = $1 AND usuario_id = $2 ORDER BY nome_do_cartao`
	return s.queryCards(ctx, query, day, ownerID)
}

// ExistsByName implements store.CardStore.ExistsByName
func (s *PostgresCardStore) ExistsByName(ctx context.Context, name string, ownerID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM cartoes WHERE LOWER(nome_do_cartao) = LOWER($1) AND usuario_id = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, name, ownerID).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// ExistsByNameExcluding implements store.CardStore.ExistsByNameExcluding
func (s *PostgresCardStore) ExistsByNameExcluding(ctx context.Context, name string, ownerID, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM cartoes WHERE LOWER(nome_do_cartao) = LOWER($1) AND usuario_id = $2 AND id <> $3)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, name, ownerID, excludeID).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// TotalLimitByOwner implements store.CardStore.TotalLimitByOwner
func (s *PostgresCardStore) TotalLimitByOwner(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(limite_total), 0) FROM cartoes WHERE usuario_id = $1`

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&total); err != nil {
		return decimal.Zero, MapError(err)
	}
	return total, nil
}

// CountByOwner implements store.CardStore.CountByOwner
func (s *PostgresCardStore) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM cartoes WHERE usuario_id = $1`

	var count int64
	if err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// WithTx implements store.CardStore.WithTx
// It returns a new CardStore that executes against the given transaction.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// queryCards runs a multi-row card query and scans the results.
func (s *PostgresCardStore) queryCards(ctx context.Context, query string, args ...any) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query cards", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := []*domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return cards, nil
}
