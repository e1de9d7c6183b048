package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Card-specific validation errors
var (
	ErrEmptyCardName     = errors.New("card name cannot be empty")
	ErrCardNameLength    = errors.New("card name must be between 2 and 100 characters")
	ErrEmptyBrand        = errors.New("card brand cannot be empty")
	ErrBrandLength       = errors.New("card brand must be between 2 and 50 characters")
	ErrNonPositiveLimit  = errors.New("total limit must be greater than zero")
	ErrClosingDayRange   = errors.New("closing day must be between 1 and 31")
	ErrDueDayRange       = errors.New("due day must be between 1 and 31")
	ErrCardOwnerRequired = errors.New("card owner is required")
)

// Card represents a credit card owned by a user. The display name is unique
// per owner, compared case-insensitively, enforced in the service layer at
// write time.
type Card struct {
	ID         int64           `json:"id"`
	Name       string          `json:"nomeDoCartao"`
	Brand      string          `json:"bandeira"`
	TotalLimit decimal.Decimal `json:"limiteTotal"`
	ClosingDay int             `json:"diaDeFechamento"`
	DueDay     int             `json:"diaDeVencimento"`
	UserID     int64           `json:"usuarioId"`
	CreatedAt  time.Time       `json:"dataCriacao"`
	UpdatedAt  time.Time       `json:"dataAtualizacao"`
}

// NewCard creates a new Card owned by the given user. The ID is assigned by
// the store on insert. Returns an error if validation fails.
func NewCard(name, brand string, totalLimit decimal.Decimal, closingDay, dueDay int, userID int64) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		Name:       name,
		Brand:      brand,
		TotalLimit: totalLimit,
		ClosingDay: closingDay,
		DueDay:     dueDay,
		UserID:     userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCardName
	}
	if nameLen := len(c.Name); nameLen < 2 || nameLen > 100 {
		return ErrCardNameLength
	}

	if strings.TrimSpace(c.Brand) == "" {
		return ErrEmptyBrand
	}
	if brandLen := len(c.Brand); brandLen < 2 || brandLen > 50 {
		return ErrBrandLength
	}

	if !c.TotalLimit.IsPositive() {
		return ErrNonPositiveLimit
	}

	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return ErrClosingDayRange
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return ErrDueDayRange
	}

	if c.UserID <= 0 {
		return ErrCardOwnerRequired
	}

	return nil
}

// Touch updates the UpdatedAt timestamp.
func (c *Card) Touch() {
	c.UpdatedAt = time.Now().UTC()
}

// UtilizedLimit sums the values of every transaction linked to the card,
// regardless of transaction type. Income transactions on a card count toward
// the utilized figure just like expenses; this matches the historical
// behavior the reported numbers are based on.
func (c *Card) UtilizedLimit(transactions []*Transaction) decimal.Decimal {
	utilized := decimal.Zero
	for _, txn := range transactions {
		utilized = utilized.Add(txn.Value)
	}
	return utilized
}

// AvailableLimit is the total limit minus the utilized limit. The result may
// be negative; no clamping is applied.
func (c *Card) AvailableLimit(transactions []*Transaction) decimal.Decimal {
	return c.TotalLimit.Sub(c.UtilizedLimit(transactions))
}
