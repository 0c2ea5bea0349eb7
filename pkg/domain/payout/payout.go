// Package payout holds the payout request lifecycle rules.
package payout

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a payout request.
type Status string

const (
	// StatusProcessing is the state a request is created in. It is the only
	// state from which a request may be approved.
	StatusProcessing Status = "PROCESSING"
	// StatusProcessed is terminal for the approval path.
	StatusProcessed Status = "PROCESSED"
)

// UnknownProcessor is recorded as processed_by when the acting principal
// could not be resolved at approval time.
const UnknownProcessor = "unknown"

var (
	// ErrPayoutIDRequired is returned when no payout id was supplied.
	ErrPayoutIDRequired = errors.New("Payout ID is required") //nolint:staticcheck
	// ErrPayoutNotEligible is returned when the payout does not exist or is no
	// longer in StatusProcessing.
	ErrPayoutNotEligible = errors.New("Payout request not found or already processed") //nolint:staticcheck
	// ErrInsufficientBalance is returned when the payee cannot cover the payout.
	ErrInsufficientBalance = errors.New("Doctor doesn't have enough credits for this payout") //nolint:staticcheck
	// ErrApprovalFailed marks infrastructure failures during approval.
	ErrApprovalFailed = errors.New("Failed to approve payout") //nolint:staticcheck
)

// Eligible reports whether a request in status s may be approved.
func (s Status) Eligible() bool {
	return s == StatusProcessing
}

// CheckSufficient returns ErrInsufficientBalance when balance cannot cover amount.
func CheckSufficient(balance, amount decimal.Decimal) error {
	if balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return nil
}
