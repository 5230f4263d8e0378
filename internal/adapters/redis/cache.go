// Package redisad stores analysis results in Redis as JSON.
package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"review_insight/internal/adapters/observability"
)

// KeyPrefix namespaces every key so the instance can be shared.
const KeyPrefix = "review_insight:"

type Cache struct{ c *redis.Client }

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Cache) Close() error { return r.c.Close() }

// Get decodes the stored value into dst. An entry that no longer decodes
// (an older result layout) is dropped and reported as a miss.
func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(v, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		_ = r.c.Del(ctx, KeyPrefix+key).Err()
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	observability.ObserveCache("redis", "hit")
	return true, nil
}

// Set stores v as JSON; ttl <= 0 keeps the key until deleted.
func (r *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, KeyPrefix+key, b, max(ttl, 0)).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, KeyPrefix+key).Err()
}
