package domain

import (
	"errors"
	"strings"
	"time"
)

// User-specific validation errors
var (
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrNameLength          = errors.New("name must be between 2 and 100 characters")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Role identifies the access level of a user. The wire values match the
// persisted enum of the original schema.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a registered user of the application. A user owns
// accounts, cards and transactions. Deleting a user is a soft deactivation
// (Active=false), never a hard delete.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"nome"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Role           Role      `json:"perfil"`
	Active         bool      `json:"ativo"`
	CreatedAt      time.Time `json:"dataCriacao"`
	UpdatedAt      time.Time `json:"dataAtualizacao"`
}

// NewUser creates a new User with the given name, email and plaintext
// password. The role defaults to RoleUser when empty and the user starts
// active. The ID is assigned by the store on insert.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUser(name, email, password string, role Role) (*User, error) {
	if role == "" {
		role = RoleUser
	}

	now := time.Now().UTC()
	user := &User{
		Name:      name,
		Email:     email,
		Password:  password, // Plaintext password - must be hashed before storage
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if nameLen := len(u.Name); nameLen < 2 || nameLen > 100 {
		return ErrNameLength
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if !u.Role.Valid() {
		return ErrInvalidRole
	}

	// During creation/update we need to validate the provided password.
	if u.Password != "" {
		if len(u.Password) < 6 {
			return ErrPasswordTooShort
		}
		// bcrypt's practical input limit
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the store carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// Touch updates the UpdatedAt timestamp. Called on every mutation before
// the entity is persisted.
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}

// validEmailFormat performs basic validation of email format: a non-edge @
// followed by a domain containing an interior dot.
func validEmailFormat(email string) bool {
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domain := email[atIndex+1:]
	if len(domain) < 3 {
		return false
	}

	dotIndex := strings.IndexByte(domain, '.')
	return dotIndex > 0 && dotIndex < len(domain)-1
}
