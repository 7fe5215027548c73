package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDenylist records revoked token ids until they would have expired.
type RedisDenylist struct {
	rdb *redis.Client
}

func NewRedisDenylist(c *Client) *RedisDenylist {
	return &RedisDenylist{rdb: c.rdb}
}

func denyKey(id string) string { return "revoked:" + id }

func (d *RedisDenylist) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.rdb.Set(ctx, denyKey(id), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis: revoke %s: %w", id, err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, id string) (bool, error) {
	err := d.rdb.Get(ctx, denyKey(id)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis: check revoked %s: %w", id, err)
	}
	return true, nil
}

// MemoryDenylist is the single-process denylist.
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{entries: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDenylist) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for k, exp := range d.entries {
		if now.After(exp) {
			delete(d.entries, k)
		}
	}
	d.entries[id] = now.Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	exp, ok := d.entries[id]
	if !ok {
		return false, nil
	}
	if d.now().After(exp) {
		delete(d.entries, id)
		return false, nil
	}
	return true, nil
}
