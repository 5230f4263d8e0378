// Package memcache is the in-process result cache used when no Redis is configured.
package memcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"review_insight/internal/adapters/observability"
)

// Cache keeps JSON copies so callers never share memory with stored values.
// Every entry lives for the TTL given to New; the per-call ttl is ignored.
type Cache struct {
	lru *expirable.LRU[string, []byte]
}

func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = 256
	}
	return &Cache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	b, ok := c.lru.Get(key)
	if !ok {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	observability.ObserveCache("memory", "hit")
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) Set(_ context.Context, key string, v any, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("memory", "set")
	c.lru.Add(key, b)
	return nil
}

func (c *Cache) Del(_ context.Context, key string) error {
	observability.ObserveCache("memory", "del")
	c.lru.Remove(key)
	return nil
}
