package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditTransaction represents a ledger row. Rows are only ever inserted.
type CreditTransaction struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Type      string          `gorm:"type:varchar(32);not null"`
	CreatedAt time.Time
}

// TableName specifies the table name for the CreditTransaction model.
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
