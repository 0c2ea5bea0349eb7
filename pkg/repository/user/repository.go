package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/payollar/payollar/pkg/dto"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for user and payee balance access.
type Repository interface {
	// Create inserts a new user record from a DTO.
	Create(ctx context.Context, create *dto.UserCreate) error

	// Get retrieves a user by its ID. It returns nil, nil when no user exists.
	Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error)

	// GetForUpdate retrieves a user by its ID and locks the row for the rest
	// of the surrounding transaction. It returns nil, nil when no user exists.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.UserRead, error)

	// GetByEmail retrieves a user by email. It returns nil, nil when no user exists.
	GetByEmail(ctx context.Context, email string) (*dto.UserRead, error)

	// GetByUsername retrieves a user by username. It returns nil, nil when no user exists.
	GetByUsername(ctx context.Context, username string) (*dto.UserRead, error)

	// DecrementCredits subtracts amount from the user's credits in the store
	// itself, only when the balance covers it. It reports whether a row
	// was changed.
	DecrementCredits(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error)
}
