package sos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown suppresses repeat alerts for the same user within a window.
type Cooldown interface {
	// Acquire returns true when the caller may notify contacts now.
	Acquire(ctx context.Context, userID string) (bool, error)
}

// RedisCooldown uses SET NX with a TTL so replicas share one window per user.
type RedisCooldown struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisCooldown(client *redis.Client, ttl time.Duration) *RedisCooldown {
	return &RedisCooldown{redis: client, ttl: ttl}
}

func cooldownKey(userID string) string {
	return fmt.Sprintf("sos:cooldown:%s", userID)
}

func (c *RedisCooldown) Acquire(ctx context.Context, userID string) (bool, error) {
	if c.ttl <= 0 {
		return true, nil
	}
	ok, err := c.redis.SetNX(ctx, cooldownKey(userID), time.Now().UTC().Format(time.RFC3339), c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("sos: cooldown acquire: %w", err)
	}
	return ok, nil
}

// Reset clears the window, e.g. after a user marks themselves safe.
func (c *RedisCooldown) Reset(ctx context.Context, userID string) error {
	if err := c.redis.Del(ctx, cooldownKey(userID)).Err(); err != nil {
		return fmt.Errorf("sos: cooldown reset: %w", err)
	}
	return nil
}

// MemoryCooldown is the single-process fallback when Redis is not configured.
type MemoryCooldown struct {
	mu    sync.Mutex
	ttl   time.Duration
	until map[string]time.Time
	now   func() time.Time
}

func NewMemoryCooldown(ttl time.Duration) *MemoryCooldown {
	return &MemoryCooldown{ttl: ttl, until: make(map[string]time.Time), now: time.Now}
}

func (c *MemoryCooldown) Acquire(_ context.Context, userID string) (bool, error) {
	if c.ttl <= 0 {
		return true, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if until, ok := c.until[userID]; ok && now.Before(until) {
		return false, nil
	}
	c.until[userID] = now.Add(c.ttl)
	return true, nil
}

var (
	_ Cooldown = (*RedisCooldown)(nil)
	_ Cooldown = (*MemoryCooldown)(nil)
)
