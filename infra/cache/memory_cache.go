package cache

import (
	"context"
	"sync"
	"time"

	"github.com/payollar/payollar/pkg/dto"
)

// MemoryCache implements PayoutViewCache and Revalidator using in-memory storage
type MemoryCache struct {
	cache    map[string]*cacheEntry
	versions map[string]uint64
	mu       sync.RWMutex
	now      func() time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache:    make(map[string]*cacheEntry),
		versions: make(map[string]uint64),
		now:      time.Now,
	}
}

// Get retrieves a listing from cache. The result is a copy.
func (c *MemoryCache) Get(_ context.Context, key string) ([]*dto.PayoutRead, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache[key]
	if !exists {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return clonePayouts(entry.payouts), true, nil
}

// Set stores a copy of a listing in cache with TTL
func (c *MemoryCache) Set(_ context.Context, key string, payouts []*dto.PayoutRead, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setLocked(key, payouts, ttl)
	return nil
}

// Version returns the current version of key.
func (c *MemoryCache) Version(_ context.Context, key string) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.versions[key], nil
}

// SetIfVersion stores payouts unless key was revalidated since version.
func (c *MemoryCache) SetIfVersion(
	_ context.Context,
	key string,
	version uint64,
	payouts []*dto.PayoutRead,
	ttl time.Duration,
) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.versions[key] != version {
		return false, nil
	}
	c.setLocked(key, payouts, ttl)
	return true, nil
}

// Delete removes a listing from cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.cache, key)
	return nil
}

// Revalidate drops the cached view of path and bumps its version.
func (c *MemoryCache) Revalidate(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.versions[path]++
	delete(c.cache, path)
	return nil
}

func (c *MemoryCache) setLocked(key string, payouts []*dto.PayoutRead, ttl time.Duration) {
	c.cache[key] = &cacheEntry{
		payouts:   clonePayouts(payouts),
		expiresAt: c.now().Add(ttl),
	}
	c.evictExpiredLocked()
}

func (c *MemoryCache) evictExpiredLocked() {
	now := c.now()
	for key, entry := range c.cache {
		if now.After(entry.expiresAt) {
			delete(c.cache, key)
		}
	}
}

type cacheEntry struct {
	payouts   []*dto.PayoutRead
	expiresAt time.Time
}

// clonePayouts deep-copies a listing so callers never share cached entries.
func clonePayouts(payouts []*dto.PayoutRead) []*dto.PayoutRead {
	if payouts == nil {
		return nil
	}
	out := make([]*dto.PayoutRead, len(payouts))
	for i, p := range payouts {
		if p == nil {
			continue
		}
		cp := *p
		if p.ProcessedAt != nil {
			at := *p.ProcessedAt
			cp.ProcessedAt = &at
		}
		if p.ProcessedBy != nil {
			by := *p.ProcessedBy
			cp.ProcessedBy = &by
		}
		out[i] = &cp
	}
	return out
}
