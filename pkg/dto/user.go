package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserCreate represents the data needed to create a new user.
type UserCreate struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username" validate:"required,min=3,max=50"`
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password,omitempty" validate:"required,min=6"`
	Role     string    `json:"role" validate:"required"`
}

// UserRead represents a read-optimized view of a user.
type UserRead struct {
	ID             uuid.UUID       `json:"id"`
	Username       string          `json:"username"`
	HashedPassword string          `json:"-"`
	Email          string          `json:"email"`
	Role           string          `json:"role"`
	Credits        decimal.Decimal `json:"credits"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
