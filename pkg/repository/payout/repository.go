package payout

import (
	"context"

	"github.com/google/uuid"
	"github.com/payollar/payollar/pkg/dto"
)

// Repository defines the interface for payout request data access.
type Repository interface {
	// Get retrieves a payout request by ID regardless of status.
	// It returns nil, nil when no request exists.
	Get(ctx context.Context, id uuid.UUID) (*dto.PayoutRead, error)

	// GetProcessingForUpdate retrieves a payout request that is still
	// PROCESSING and locks it for the surrounding transaction.
	// It returns nil, nil when no such request exists.
	GetProcessingForUpdate(ctx context.Context, id uuid.UUID) (*dto.PayoutRead, error)

	// MarkProcessed moves a PROCESSING request to PROCESSED. It reports
	// whether the request was still PROCESSING.
	MarkProcessed(ctx context.Context, id uuid.UUID, processed dto.PayoutProcessed) (bool, error)

	// ListByStatus lists requests in the given status, oldest first.
	ListByStatus(ctx context.Context, status string) ([]*dto.PayoutRead, error)
}
