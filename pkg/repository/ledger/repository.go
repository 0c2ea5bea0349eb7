package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/payollar/payollar/pkg/dto"
)

// Repository defines the interface for the append-only credit ledger.
// There is no update or delete.
type Repository interface {
	// Create appends a ledger entry.
	Create(ctx context.Context, create dto.CreditTransactionCreate) error

	// ListByUser lists the entries of a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.CreditTransactionRead, error)
}
