package payout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutRequest represents a payout request record in the database.
type PayoutRequest struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CreatorID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Credits     decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Status      string          `gorm:"type:varchar(32);not null;index"`
	ProcessedAt *time.Time
	ProcessedBy *string `gorm:"size:64"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for the PayoutRequest model.
func (PayoutRequest) TableName() string {
	return "payout_requests"
}
