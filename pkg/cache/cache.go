package cache

import (
	"context"
	"time"

	"github.com/payollar/payollar/pkg/dto"
)

// PayoutsViewKey is the cache key of the admin pending-payout listing.
const PayoutsViewKey = "/admin/payouts"

// PayoutViewCache caches rendered payout listings by logical path.
// Get returns ok == false on a miss.
//
// Every key carries a version that Revalidate bumps. A fill reads Version
// before loading from the store and writes with SetIfVersion, so a listing
// loaded before a revalidation is never stored after it.
type PayoutViewCache interface {
	Get(ctx context.Context, key string) (payouts []*dto.PayoutRead, ok bool, err error)
	Set(ctx context.Context, key string, payouts []*dto.PayoutRead, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Version(ctx context.Context, key string) (uint64, error)
	// SetIfVersion stores payouts only while key is still at version and
	// reports whether it did.
	SetIfVersion(
		ctx context.Context,
		key string,
		version uint64,
		payouts []*dto.PayoutRead,
		ttl time.Duration,
	) (bool, error)
}

// Revalidator is notified with a logical path after a commit that makes any
// cached view of that path stale.
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}
