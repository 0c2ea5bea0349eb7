// Package admin implements the administrator back office: the authorization
// gate, payout approval and the read-only views an admin works from.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/payollar/payollar/infra/observability"
	"github.com/payollar/payollar/pkg/cache"
	"github.com/payollar/payollar/pkg/domain"
	"github.com/payollar/payollar/pkg/domain/ledger"
	"github.com/payollar/payollar/pkg/domain/payout"
	"github.com/payollar/payollar/pkg/dto"
	"github.com/payollar/payollar/pkg/repository"
	ledgerrepo "github.com/payollar/payollar/pkg/repository/ledger"
	payoutrepo "github.com/payollar/payollar/pkg/repository/payout"
	userrepo "github.com/payollar/payollar/pkg/repository/user"
	"golang.org/x/sync/singleflight"
)

// DefaultViewTTL is how long a cached pending-payout view is served.
const DefaultViewTTL = 5 * time.Minute

// ApproveResult is returned by a successful approval.
type ApproveResult struct {
	Success bool `json:"success"`
}

// Option configures a Service.
type Option func(*Service)

// WithViewCache serves ListPendingPayouts from c for ttl.
func WithViewCache(c cache.PayoutViewCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.views = c
		if ttl > 0 {
			s.viewTTL = ttl
		}
	}
}

// WithRevalidator registers the hook notified after an approval commits.
func WithRevalidator(r cache.Revalidator) Option {
	return func(s *Service) { s.revalidator = r }
}

// WithClock overrides the clock used for processed_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service runs admin operations. It holds no per-request state.
type Service struct {
	uow         repository.UnitOfWork
	gate        *Gate
	views       cache.PayoutViewCache
	viewTTL     time.Duration
	revalidator cache.Revalidator
	logger      *slog.Logger
	now         func() time.Time
	group       singleflight.Group
}

// New creates a Service over uow.
func New(uow repository.UnitOfWork, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		uow:     uow,
		gate:    NewGate(uow, logger),
		viewTTL: DefaultViewTTL,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Gate returns the authorization gate used by the service.
func (s *Service) Gate() *Gate {
	return s.gate
}

// ApprovePayout marks a PROCESSING payout as PROCESSED, debits the payee's
// credits by the payout amount and appends an ADMIN_ADJUSTMENT ledger entry,
// all in one unit of work. ErrPayoutIDRequired, ErrUnauthorized,
// ErrPayoutNotEligible and ErrInsufficientBalance are returned as is; any
// other failure is wrapped in ErrApprovalFailed. An id that is not a UUID
// names no payout and is reported as ErrPayoutNotEligible.
func (s *Service) ApprovePayout(
	ctx context.Context,
	principalID uuid.UUID,
	payoutID string,
) (*ApproveResult, error) {
	started := time.Now()
	log := s.logger.With("payoutID", payoutID, "principalID", principalID)
	log.Info("ApprovePayout started")

	payoutID = strings.TrimSpace(payoutID)
	if payoutID == "" {
		return nil, s.fail(log, started, payout.ErrPayoutIDRequired)
	}
	principal, ok := s.gate.authorize(ctx, principalID)
	if !ok {
		return nil, s.fail(log, started, domain.ErrUnauthorized)
	}
	processedBy := processorID(principal)

	id, err := uuid.Parse(payoutID)
	if err != nil {
		return nil, s.fail(log, started, payout.ErrPayoutNotEligible)
	}

	var paid *dto.PayoutRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		payouts, err := repository.Get[payoutrepo.Repository](uow)
		if err != nil {
			return err
		}
		users, err := repository.Get[userrepo.Repository](uow)
		if err != nil {
			return err
		}
		entries, err := repository.Get[ledgerrepo.Repository](uow)
		if err != nil {
			return err
		}

		p, err := payouts.GetProcessingForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return payout.ErrPayoutNotEligible
		}
		payee, err := users.GetForUpdate(ctx, p.CreatorID)
		if err != nil {
			return err
		}
		if payee == nil {
			return payout.ErrPayoutNotEligible
		}
		// Both rows are locked, so this check holds until commit.
		if err := payout.CheckSufficient(payee.Credits, p.Credits); err != nil {
			return err
		}

		marked, err := payouts.MarkProcessed(ctx, p.ID, dto.PayoutProcessed{
			ProcessedAt: s.now().UTC(),
			ProcessedBy: processedBy,
		})
		if err != nil {
			return err
		}
		if !marked {
			return payout.ErrPayoutNotEligible
		}
		debited, err := users.DecrementCredits(ctx, p.CreatorID, p.Credits)
		if err != nil {
			return err
		}
		if !debited {
			return payout.ErrInsufficientBalance
		}

		entry, err := ledger.NewAdminDeduction(p.CreatorID, p.Credits)
		if err != nil {
			return err
		}
		if err := entries.Create(ctx, dto.CreditTransactionCreate{
			ID:        entry.ID,
			UserID:    entry.UserID,
			Amount:    entry.Amount,
			Type:      string(entry.Type),
			CreatedAt: entry.CreatedAt,
		}); err != nil {
			return err
		}
		paid = p
		return nil
	})
	if err != nil {
		return nil, s.fail(log, started, err)
	}

	observability.ObserveApproval(observability.ResultApproved, started)
	observability.CreditsPaidOut.Add(paid.Credits.InexactFloat64())
	s.revalidate(ctx, log)
	log.Info("ApprovePayout successful",
		"creatorID", paid.CreatorID,
		"credits", paid.Credits.String(),
		"processedBy", processedBy,
	)
	return &ApproveResult{Success: true}, nil
}

// processorID is the processed_by value recorded for principal. When the
// principal could not be resolved the approval still proceeds and is
// attributed to payout.UnknownProcessor.
func processorID(principal *dto.UserRead) string {
	if principal == nil || principal.ID == uuid.Nil {
		return payout.UnknownProcessor
	}
	return principal.ID.String()
}

// revalidate notifies the view hook. Its failure never fails the approval.
func (s *Service) revalidate(ctx context.Context, log *slog.Logger) {
	if s.revalidator == nil {
		return
	}
	if err := s.revalidator.Revalidate(context.WithoutCancel(ctx), cache.PayoutsViewKey); err != nil {
		log.Warn("Payout view revalidation failed", "path", cache.PayoutsViewKey, "error", err)
	}
}

// fail logs err, records the outcome and returns the error the caller sees.
func (s *Service) fail(log *slog.Logger, started time.Time, err error) error {
	result := resultOf(err)
	observability.ObserveApproval(result, started)
	if result == observability.ResultFailed {
		log.Error("ApprovePayout failed", "error", err)
		return fmt.Errorf("%w: %w", payout.ErrApprovalFailed, err)
	}
	log.Warn("ApprovePayout rejected", "result", result, "error", err)
	return err
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, payout.ErrPayoutIDRequired):
		return observability.ResultInvalid
	case errors.Is(err, domain.ErrUnauthorized):
		return observability.ResultUnauthorized
	case errors.Is(err, payout.ErrPayoutNotEligible):
		return observability.ResultNotEligible
	case errors.Is(err, payout.ErrInsufficientBalance):
		return observability.ResultInsufficient
	default:
		return observability.ResultFailed
	}
}
