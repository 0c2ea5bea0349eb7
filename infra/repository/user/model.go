package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user record in the database. Creators are payees and
// carry the credits balance.
type User struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Username  string          `gorm:"uniqueIndex;not null;size:50"`
	Email     string          `gorm:"uniqueIndex;not null;size:255"`
	Password  string          `gorm:"not null"`
	Role      string          `gorm:"type:varchar(32);not null"`
	Credits   decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}
