package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction-specific validation errors
var (
	ErrEmptyDescription           = errors.New("description cannot be empty")
	ErrDescriptionLength          = errors.New("description must be between 2 and 200 characters")
	ErrNonPositiveValue           = errors.New("value must be greater than zero")
	ErrZeroDate                   = errors.New("date is required")
	ErrTransactionAccountRequired = errors.New("transaction account is required")
	ErrTransactionOwnerRequired   = errors.New("transaction owner is required")
)

// TransactionType distinguishes money coming in from money going out. The
// wire values match the persisted enum of the original schema.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "RECEITA"
	TransactionTypeExpense TransactionType = "DESPESA"
)

// Valid reports whether the transaction type is a known value.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a single monetary movement. Every transaction
// belongs to an account and to the account's owner; a card link is optional.
// The UserID is redundant with the account's owner and must stay consistent
// with it, which the service layer enforces on create and update.
type Transaction struct {
	ID          int64           `json:"id"`
	Description string          `json:"descricao"`
	Value       decimal.Decimal `json:"valor"`
	Date        time.Time       `json:"data"`
	Type        TransactionType `json:"tipo"`
	Recurring   bool            `json:"recorrente"`
	AccountID   int64           `json:"contaId"`
	CardID      *int64          `json:"cartaoId,omitempty"`
	UserID      int64           `json:"usuarioId"`
	CreatedAt   time.Time       `json:"dataCriacao"`
	UpdatedAt   time.Time       `json:"dataAtualizacao"`
}

// NewTransaction creates a new Transaction on the given account, owned by
// the given user. cardID may be nil. The ID is assigned by the store on
// insert. Returns an error if validation fails.
func NewTransaction(
	description string,
	value decimal.Decimal,
	date time.Time,
	txnType TransactionType,
	recurring bool,
	accountID int64,
	cardID *int64,
	userID int64,
) (*Transaction, error) {
	now := time.Now().UTC()
	txn := &Transaction{
		Description: description,
		Value:       value,
		Date:        date,
		Type:        txnType,
		Recurring:   recurring,
		AccountID:   accountID,
		CardID:      cardID,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	return txn, nil
}

// Validate checks if the Transaction has valid data.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if descLen := len(t.Description); descLen < 2 || descLen > 200 {
		return ErrDescriptionLength
	}

	if !t.Value.IsPositive() {
		return ErrNonPositiveValue
	}

	if t.Date.IsZero() {
		return ErrZeroDate
	}

	if !t.Type.Valid() {
		return ErrInvalidTransactionType
	}

	if t.AccountID <= 0 {
		return ErrTransactionAccountRequired
	}
	if t.UserID <= 0 {
		return ErrTransactionOwnerRequired
	}

	return nil
}

// Touch updates the UpdatedAt timestamp.
func (t *Transaction) Touch() {
	t.UpdatedAt = time.Now().UTC()
}
