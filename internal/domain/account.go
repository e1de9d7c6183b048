package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Account-specific validation errors
var (
	ErrEmptyAccountName       = errors.New("account name cannot be empty")
	ErrAccountNameLength      = errors.New("account name must be between 2 and 100 characters")
	ErrNegativeInitialBalance = errors.New("initial balance must be greater than or equal to zero")
	ErrEmptyInstitution       = errors.New("institution cannot be empty")
	ErrInstitutionLength      = errors.New("institution must be between 2 and 100 characters")
	ErrAccountOwnerRequired   = errors.New("account owner is required")
)

// AccountType identifies the kind of account. The wire values match the
// persisted enum of the original schema.
type AccountType string

const (
	AccountTypeChecking   AccountType = "CORRENTE"
	AccountTypeSavings    AccountType = "POUPANCA"
	AccountTypeInvestment AccountType = "INVESTIMENTO"
)

// Valid reports whether the account type is a known value.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeInvestment:
		return true
	}
	return false
}

// Account represents a bank account owned by a user. The account name is
// unique per owner, compared case-insensitively, enforced in the service
// layer at write time.
type Account struct {
	ID             int64           `json:"id"`
	Name           string          `json:"nome"`
	Type           AccountType     `json:"tipo"`
	InitialBalance decimal.Decimal `json:"saldoInicial"`
	Institution    string          `json:"instituicao"`
	UserID         int64           `json:"usuarioId"`
	CreatedAt      time.Time       `json:"dataCriacao"`
	UpdatedAt      time.Time       `json:"dataAtualizacao"`
}

// NewAccount creates a new Account owned by the given user. The ID is
// assigned by the store on insert. Returns an error if validation fails.
func NewAccount(name string, accountType AccountType, initialBalance decimal.Decimal, institution string, userID int64) (*Account, error) {
	now := time.Now().UTC()
	account := &Account{
		Name:           name,
		Type:           accountType,
		InitialBalance: initialBalance,
		Institution:    institution,
		UserID:         userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks if the Account has valid data.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyAccountName
	}
	if nameLen := len(a.Name); nameLen < 2 || nameLen > 100 {
		return ErrAccountNameLength
	}

	if !a.Type.Valid() {
		return ErrInvalidAccountType
	}

	if a.InitialBalance.IsNegative() {
		return ErrNegativeInitialBalance
	}

	if strings.TrimSpace(a.Institution) == "" {
		return ErrEmptyInstitution
	}
	if instLen := len(a.Institution); instLen < 2 || instLen > 100 {
		return ErrInstitutionLength
	}

	if a.UserID <= 0 {
		return ErrAccountOwnerRequired
	}

	return nil
}

// Touch updates the UpdatedAt timestamp.
func (a *Account) Touch() {
	a.UpdatedAt = time.Now().UTC()
}

// CurrentBalance computes the account's balance from its initial balance and
// the given transactions: income adds, expense subtracts. The fold is
// commutative, so insertion order never changes the result. An empty list
// returns the initial balance unchanged.
func (a *Account) CurrentBalance(transactions []*Transaction) decimal.Decimal {
	balance := a.InitialBalance
	for _, txn := range transactions {
		if txn.Type == TransactionTypeIncome {
			balance = balance.Add(txn.Value)
		} else {
			balance = balance.Sub(txn.Value)
		}
	}
	return balance
}
