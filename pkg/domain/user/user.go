package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/payollar/payollar/pkg/utils"
	"github.com/shopspring/decimal"
)

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserUnauthorized is returned when credentials do not match.
	ErrUserUnauthorized = errors.New("user unauthorized")
	// ErrInvalidRole is returned when a role string is not one of Roles.
	ErrInvalidRole = errors.New("invalid role")
)

// User is a marketplace principal. Creators are also payee accounts and
// hold a credits balance.
type User struct {
	ID        uuid.UUID       `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Password  string          `json:"-"`
	Role      Role            `json:"role"`
	Credits   decimal.Decimal `json:"credits"`
	CreatedAt time.Time       `json:"created"`
	UpdatedAt time.Time       `json:"updated"`
}

// New creates a new User with a hashed password and zero credits.
func New(username, email, password string, role Role) (*User, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	if _, ok := ParseRole(string(role)); !ok {
		return nil, ErrInvalidRole
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Role:      role,
		Credits:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
