// Package ledger models the append-only credit ledger.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type tags the cause of a balance change.
type Type string

const (
	// TypeAdminAdjustment is used for administrator-initiated changes such as
	// payout approvals.
	TypeAdminAdjustment Type = "ADMIN_ADJUSTMENT"
	// TypeCreditPurchase records credits bought by a client.
	TypeCreditPurchase Type = "CREDIT_PURCHASE"
	// TypeSaleEarning records credits earned from a sale or booking.
	TypeSaleEarning Type = "SALE_EARNING"
)

// ErrZeroAmount is returned when a ledger entry would not change a balance.
var ErrZeroAmount = errors.New("ledger amount must be non-zero")

// CreditTransaction is an immutable ledger entry. Negative amounts are
// deductions.
type CreditTransaction struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Amount    decimal.Decimal
	Type      Type
	CreatedAt time.Time
}

// NewAdminDeduction builds the ledger entry that pairs with a payout of
// amount credits for userID.
func NewAdminDeduction(userID uuid.UUID, amount decimal.Decimal) (*CreditTransaction, error) {
	if amount.IsZero() {
		return nil, ErrZeroAmount
	}
	return &CreditTransaction{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount.Abs().Neg(),
		Type:      TypeAdminAdjustment,
		CreatedAt: time.Now().UTC(),
	}, nil
}
