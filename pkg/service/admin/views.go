package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/payollar/payollar/infra/observability"
	"github.com/payollar/payollar/pkg/cache"
	"github.com/payollar/payollar/pkg/domain"
	"github.com/payollar/payollar/pkg/domain/payout"
	"github.com/payollar/payollar/pkg/domain/user"
	"github.com/payollar/payollar/pkg/dto"
	"github.com/payollar/payollar/pkg/repository"
	ledgerrepo "github.com/payollar/payollar/pkg/repository/ledger"
	payoutrepo "github.com/payollar/payollar/pkg/repository/payout"
)

// ListPendingPayouts returns the payouts awaiting approval, oldest first.
// With a view cache configured the listing is read through the cache and
// concurrent misses share one store query.
func (s *Service) ListPendingPayouts(
	ctx context.Context,
	principalID uuid.UUID,
) ([]*dto.PayoutRead, error) {
	log := s.logger.With("principalID", principalID)
	if !s.gate.IsAdmin(ctx, principalID) {
		log.Warn("ListPendingPayouts rejected", "error", domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}
	if s.views == nil {
		return s.loadPending(ctx)
	}

	cached, ok, err := s.views.Get(ctx, cache.PayoutsViewKey)
	switch {
	case err != nil:
		observability.PayoutViewCacheLookups.WithLabelValues("error").Inc()
		log.Warn("Payout view cache read failed", "error", err)
	case ok:
		observability.PayoutViewCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		observability.PayoutViewCacheLookups.WithLabelValues("miss").Inc()
	}

	v, err, _ := s.group.Do(cache.PayoutsViewKey, func() (any, error) {
		fillCtx := context.WithoutCancel(ctx)
		// The version is read before the store so an approval committed
		// during the load invalidates this fill.
		version, verErr := s.views.Version(fillCtx, cache.PayoutsViewKey)
		if verErr != nil {
			log.Warn("Payout view cache version read failed", "error", verErr)
		}
		pending, err := s.loadPending(fillCtx)
		if err != nil {
			return nil, err
		}
		if verErr != nil {
			return pending, nil
		}
		stored, err := s.views.SetIfVersion(fillCtx, cache.PayoutsViewKey, version, pending, s.viewTTL)
		switch {
		case err != nil:
			log.Warn("Payout view cache write failed", "error", err)
		case !stored:
			log.Debug("Payout view changed during fill, not cached", "version", version)
		}
		return pending, nil
	})
	if err != nil {
		log.Error("ListPendingPayouts failed", "error", err)
		return nil, err
	}
	return v.([]*dto.PayoutRead), nil
}

func (s *Service) loadPending(ctx context.Context) ([]*dto.PayoutRead, error) {
	repo, err := repository.Get[payoutrepo.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	return repo.ListByStatus(ctx, string(payout.StatusProcessing))
}

// ListCreditTransactions returns the ledger of userID, newest first.
func (s *Service) ListCreditTransactions(
	ctx context.Context,
	principalID uuid.UUID,
	userID string,
) ([]*dto.CreditTransactionRead, error) {
	log := s.logger.With("principalID", principalID, "userID", userID)
	if !s.gate.IsAdmin(ctx, principalID) {
		log.Warn("ListCreditTransactions rejected", "error", domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, user.ErrUserNotFound
	}
	repo, err := repository.Get[ledgerrepo.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	entries, err := repo.ListByUser(ctx, uid)
	if err != nil {
		log.Error("ListCreditTransactions failed", "error", err)
		return nil, err
	}
	return entries, nil
}
