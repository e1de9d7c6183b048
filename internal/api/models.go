package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-api/internal/domain"
)

// Wire formats follow the original system: Portuguese field names, enum
// values like CORRENTE and RECEITA, and transaction dates as YYYY-MM-DD.

// transactionDateLayout is the wire format for transaction dates.
const transactionDateLayout = "2006-01-02"

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"nome"   validate:"required,min=2,max=100"`
	Email    string `json:"email"  validate:"required,email"`
	Password string `json:"senha"  validate:"required,min=6,max=72"`
	Role     string `json:"perfil" validate:"omitempty,oneof=ADMIN USER"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required,min=1"`
}

// TokenRequest carries a raw token for the validate and refresh endpoints.
type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// UserResponse is the public view of a user returned by the auth endpoints.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Role  string `json:"perfil"`
}

// newUserResponse builds a UserResponse from a domain user.
func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}
}

// LoginResponse is the successful response for the login endpoint.
type LoginResponse struct {
	Token     string       `json:"token"`
	User      UserResponse `json:"usuario"`
	ExpiresIn int64        `json:"expiresIn"`
}

// RegisterResponse is the successful response for the registration endpoint.
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"usuario"`
}

// ValidateTokenResponse is always returned with status 200: Valid reports
// whether the token passed every check, and the remaining fields are only
// populated on success. RemainingTime is in milliseconds.
type ValidateTokenResponse struct {
	Valid         bool          `json:"valid"`
	User          *UserResponse `json:"usuario,omitempty"`
	RemainingTime int64         `json:"remainingTime,omitempty"`
}

// RefreshResponse is the successful response for the token refresh endpoint.
type RefreshResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// AccountRequest defines the payload for account create and update.
type AccountRequest struct {
	Name           string          `json:"nome"         validate:"required,min=2,max=100"`
	Type           string          `json:"tipo"         validate:"required,oneof=CORRENTE POUPANCA INVESTIMENTO"`
	InitialBalance decimal.Decimal `json:"saldoInicial"`
	Institution    string          `json:"instituicao"  validate:"required,min=2,max=100"`
}

// CardRequest defines the payload for card create and update.
type CardRequest struct {
	Name       string          `json:"nomeDoCartao"    validate:"required,min=2,max=100"`
	Brand      string          `json:"bandeira"        validate:"required,min=2,max=50"`
	TotalLimit decimal.Decimal `json:"limiteTotal"`
	ClosingDay int             `json:"diaDeFechamento" validate:"required,min=1,max=31"`
	DueDay     int             `json:"diaDeVencimento" validate:"required,min=1,max=31"`
}

// TransactionRequest defines the payload for transaction create and update.
// Data is the transaction date as YYYY-MM-DD.
type TransactionRequest struct {
	Description string          `json:"descricao"          validate:"required,min=2,max=200"`
	Value       decimal.Decimal `json:"valor"`
	Date        string          `json:"data"               validate:"required"`
	Type        string          `json:"tipo"               validate:"required,oneof=RECEITA DESPESA"`
	Recurring   bool            `json:"recorrente"`
	AccountID   int64           `json:"contaId"            validate:"required,min=1"`
	CardID      *int64          `json:"cartaoId,omitempty" validate:"omitempty,min=1"`
}

// parseDate parses the request's wire-format date.
func (req *TransactionRequest) parseDate() (time.Time, error) {
	return time.Parse(transactionDateLayout, req.Date)
}

// AmountResponse wraps a single monetary aggregate.
type AmountResponse struct {
	Amount decimal.Decimal `json:"valor"`
}

// CountResponse wraps a single count aggregate.
type CountResponse struct {
	Count int64 `json:"total"`
}

// MessageResponse carries a confirmation message for delete operations.
type MessageResponse struct {
	Message string `json:"message"`
}
