package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/payollar/payollar/pkg/dto"
	"github.com/redis/go-redis/v9"
)

// RedisCache implements PayoutViewCache and Revalidator using Redis, so
// every server instance sees the same invalidation.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisCache creates a RedisCache from a redis:// URL.
func NewRedisCache(url, prefix string, logger *slog.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisCacheWithOptions(opt, prefix, logger), nil
}

// NewRedisCacheWithOptions creates a new RedisCache from redis.Options.
func NewRedisCacheWithOptions(
	opt *redis.Options,
	prefix string,
	logger *slog.Logger,
) *RedisCache {
	client := redis.NewClient(opt)
	return &RedisCache{client: client, prefix: prefix, logger: logger}
}

func (r *RedisCache) key(key string) string {
	return r.prefix + key
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]*dto.PayoutRead, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", key)
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", key, "error", err)
		return nil, false, err
	}
	var payouts []*dto.PayoutRead
	if err := json.Unmarshal([]byte(val), &payouts); err != nil {
		r.logger.Error("Redis cache unmarshal error", "key", key, "error", err)
		return nil, false, err
	}
	r.logger.Debug("Redis cache hit", "key", key, "count", len(payouts))
	return payouts, true, nil
}

func (r *RedisCache) Set(
	ctx context.Context,
	key string,
	payouts []*dto.PayoutRead,
	ttl time.Duration,
) error {
	data, err := json.Marshal(payouts)
	if err != nil {
		r.logger.Error("Redis cache marshal error", "key", key, "error", err)
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", key, "count", len(payouts), "ttl", ttl)
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache delete", "key", key)
	return nil
}

func (r *RedisCache) versionKey(key string) string {
	return r.prefix + key + ":version"
}

// Version returns the current version of key; an unset version is 0.
func (r *RedisCache) Version(ctx context.Context, key string) (uint64, error) {
	v, err := r.client.Get(ctx, r.versionKey(key)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		r.logger.Error("Redis cache version error", "key", key, "error", err)
		return 0, err
	}
	return v, nil
}

// SetIfVersion stores payouts in a WATCH transaction on the version key, so
// a Revalidate landing between the check and the write aborts the write.
func (r *RedisCache) SetIfVersion(
	ctx context.Context,
	key string,
	version uint64,
	payouts []*dto.PayoutRead,
	ttl time.Duration,
) (bool, error) {
	data, err := json.Marshal(payouts)
	if err != nil {
		r.logger.Error("Redis cache marshal error", "key", key, "error", err)
		return false, err
	}
	versionKey := r.versionKey(key)
	stored := false
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(key), data, ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		r.logger.Debug("Redis cache version changed during set", "key", key)
		return false, nil
	}
	if err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return false, err
	}
	r.logger.Debug("Redis cache conditional set", "key", key, "stored", stored, "version", version)
	return stored, nil
}

// Revalidate bumps the version of path and drops its cached view in one
// MULTI block.
func (r *RedisCache) Revalidate(ctx context.Context, path string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.versionKey(path))
		pipe.Del(ctx, r.key(path))
		return nil
	})
	if err != nil {
		r.logger.Error("Redis cache revalidate error", "key", path, "error", err)
		return err
	}
	r.logger.Debug("Redis cache revalidated", "key", path)
	return nil
}

// Close releases the underlying client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
