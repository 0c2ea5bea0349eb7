package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutRead is a read-optimized view of a payout request.
type PayoutRead struct {
	ID          uuid.UUID       `json:"id"`
	CreatorID   uuid.UUID       `json:"creator_id"`
	Credits     decimal.Decimal `json:"credits"`
	Status      string          `json:"status"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
	ProcessedBy *string         `json:"processed_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PayoutProcessed carries the fields written when a payout is approved.
type PayoutProcessed struct {
	ProcessedAt time.Time
	ProcessedBy string
}
