package service

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

// CardService provides operations on a user's credit cards, including the
// limit aggregates derived from linked transactions. All operations are
// scoped to the owner from the authenticated session.
type CardService interface {
	// Create saves a new card for the owner. Card names are unique per
	// owner; returns store.ErrCardNameExists on collision.
	Create(ctx context.Context, ownerID int64, name, brand string, totalLimit decimal.Decimal, closingDay, dueDay int) (*domain.Card, error)

	// Get retrieves one of the owner's cards by id.
	Get(ctx context.Context, id, ownerID int64) (*domain.Card, error)

	// List returns all of the owner's cards.
	List(ctx context.Context, ownerID int64) ([]*domain.Card, error)

	// Update modifies an existing card's name, brand, limit and cycle days.
	Update(ctx context.Context, id, ownerID int64, name, brand string, totalLimit decimal.Decimal, closingDay, dueDay int) (*domain.Card, error)

	// Delete removes a card. Blocked with ErrHasDependents while
	// transactions still reference it.
	Delete(ctx context.Context, id, ownerID int64) error

	// SearchByBrand returns the owner's cards matching the brand fragment.
	SearchByBrand(ctx context.Context, brand string, ownerID int64) ([]*domain.Card, error)

	// SearchByName returns the owner's cards matching the name fragment.
	SearchByName(ctx context.Context, name string, ownerID int64) ([]*domain.Card, error)

	// ListByClosingDay returns the owner's cards closing on the given day.
	ListByClosingDay(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error)

	// ListByDueDay returns the owner's cards due on the given day.
	ListByDueDay(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error)

	// TotalLimit returns the sum of the owner's card limits.
	TotalLimit(ctx context.Context, ownerID int64) (decimal.Decimal, error)

	// UtilizedLimit sums the values of every transaction linked to the card,
	// regardless of transaction type.
	UtilizedLimit(ctx context.Context, id, ownerID int64) (decimal.Decimal, error)

	// AvailableLimit is the card's total limit minus its utilized limit.
	// The result may be negative.
	AvailableLimit(ctx context.Context, id, ownerID int64) (decimal.Decimal, error)

	// Count returns the number of cards the owner has.
	Count(ctx context.Context, ownerID int64) (int64, error)
}

// cardServiceImpl implements the CardService interface.
type cardServiceImpl struct {
	cardStore store.CardStore
	txnStore  store.TransactionStore
	db        *sql.DB
	logger    *slog.Logger
}

// NewCardService creates a new CardService.
// It returns an error if any of the required dependencies are nil.
func NewCardService(
	cardStore store.CardStore,
	txnStore store.TransactionStore,
	db *sql.DB,
	log *slog.Logger,
) (CardService, error) {
	if cardStore == nil {
		return nil, fmt.Errorf("cardStore cannot be nil")
	}
	if txnStore == nil {
		return nil, fmt.Errorf("txnStore cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &cardServiceImpl{
		cardStore: cardStore,
		txnStore:  txnStore,
		db:        db,
		logger:    log.With(slog.String("component", "card_service")),
	}, nil
}

// Create implements CardService.Create.
func (s *cardServiceImpl) Create(
	ctx context.Context,
	ownerID int64,
	name, brand string,
	totalLimit decimal.Decimal,
	closingDay, dueDay int,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(name, brand, totalLimit, closingDay, dueDay, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.cardStore.WithTx(tx)

		exists, err := txStore.ExistsByName(ctx, card.Name, ownerID)
		if err != nil {
			return fmt.Errorf("failed to check card name uniqueness: %w", err)
		}
		if exists {
			return store.ErrCardNameExists
		}

		return txStore.Create(ctx, card)
	})
	if err != nil {
		if errors.Is(err, store.ErrCardNameExists) {
			return nil, err
		}
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.Int64("user_id", ownerID))
		return nil, NewServiceError("card_service", "create", "failed to save card", err)
	}

	log.Info("card created",
		slog.Int64("card_id", card.ID),
		slog.Int64("user_id", ownerID))
	return card, nil
}

// Get implements CardService.Get.
func (s *cardServiceImpl) Get(ctx context.Context, id, ownerID int64) (*domain.Card, error) {
	return s.cardStore.GetForOwner(ctx, id, ownerID)
}

// List implements CardService.List.
func (s *cardServiceImpl) List(ctx context.Context, ownerID int64) ([]*domain.Card, error) {
	return s.cardStore.ListByOwner(ctx, ownerID)
}

// Update implements CardService.Update.
func (s *cardServiceImpl) Update(
	ctx context.Context,
	id, ownerID int64,
	name, brand string,
	totalLimit decimal.Decimal,
	closingDay, dueDay int,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.cardStore.WithTx(tx)

		card, err := txStore.GetForOwner(ctx, id, ownerID)
		if err != nil {
			return err
		}

		if card.Name != name {
			exists, err := txStore.ExistsByNameExcluding(ctx, name, ownerID, id)
			if err != nil {
				return fmt.Errorf("failed to check card name uniqueness: %w", err)
			}
			if exists {
				return store.ErrCardNameExists
			}
		}

		card.Name = name
		card.Brand = brand
		card.TotalLimit = totalLimit
		card.ClosingDay = closingDay
		card.DueDay = dueDay
		card.Touch()

		if err := card.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		if err := txStore.Update(ctx, card); err != nil {
			return err
		}

		updated = card
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) || errors.Is(err, store.ErrCardNameExists) || errors.Is(err, store.ErrInvalidEntity) {
			return nil, err
		}
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return nil, err
	}

	log.Info("card updated", slog.Int64("card_id", id))
	return updated, nil
}

// Delete implements CardService.Delete.
func (s *cardServiceImpl) Delete(ctx context.Context, id, ownerID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.cardStore.WithTx(tx)

		if _, err := txStore.GetForOwner(ctx, id, ownerID); err != nil {
			return err
		}

		txns, err := s.txnStore.WithTx(tx).ListByCard(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check card transactions: %w", err)
		}
		if len(txns) > 0 {
			return fmt.Errorf("%w: card has transactions", ErrHasDependents)
		}

		if err := txStore.Delete(ctx, id, ownerID); err != nil {
			return err
		}

		log.Info("card deleted",
			slog.Int64("card_id", id),
			slog.Int64("user_id", ownerID))
		return nil
	})
}

// SearchByBrand implements CardService.SearchByBrand.
func (s *cardServiceImpl) SearchByBrand(ctx context.Context, brand string, ownerID int64) ([]*domain.Card, error) {
	return s.cardStore.SearchByBrand(ctx, brand, ownerID)
}

// SearchByName implements CardService.SearchByName.
func (s *cardServiceImpl) SearchByName(ctx context.Context, name string, ownerID int64) ([]*domain.Card, error) {
	return s.cardStore.SearchByName(ctx, name, ownerID)
}

// ListByClosingDay implements CardService.ListByClosingDay.
func (s *cardServiceImpl) ListByClosingDay(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error) {
	return s.cardStore.ListByClosingDay(ctx, day, ownerID)
}

// ListByDueDay implements CardService.ListByDueDay.
func (s *cardServiceImpl) ListByDueDay(ctx context.Context, day int, ownerID int64) ([]*domain.Card, error) {
	return s.cardStore.ListByDueDay(ctx, day, ownerID)
}

// TotalLimit implements CardService.TotalLimit.
func (s *cardServiceImpl) TotalLimit(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	return s.cardStore.TotalLimitByOwner(ctx, ownerID)
}

// UtilizedLimit implements CardService.UtilizedLimit.
func (s *cardServiceImpl) UtilizedLimit(ctx context.Context, id, ownerID int64) (decimal.Decimal, error) {
	card, err := s.cardStore.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return decimal.Zero, err
	}

	txns, err := s.txnStore.ListByCard(ctx, card.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load card transactions: %w", err)
	}

	return card.UtilizedLimit(txns), nil
}

// AvailableLimit implements CardService.AvailableLimit.
func (s *cardServiceImpl) AvailableLimit(ctx context.Context, id, ownerID int64) (decimal.Decimal, error) {
	card, err := s.cardStore.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return decimal.Zero, err
	}

	txns, err := s.txnStore.ListByCard(ctx, card.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load card transactions: %w", err)
	}

	return card.AvailableLimit(txns), nil
}

// Count implements CardService.Count.
func (s *cardServiceImpl) Count(ctx context.Context, ownerID int64) (int64, error) {
	return s.cardStore.CountByOwner(ctx, ownerID)
}
