package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditTransactionCreate is a DTO for appending a ledger entry.
type CreditTransactionCreate struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Amount    decimal.Decimal // Signed, negative for deductions
	Type      string
	CreatedAt time.Time
}

// CreditTransactionRead is a read-optimized view of a ledger entry.
type CreditTransactionRead struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}
