package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codegate/gate-server-go/internal/model"
)

const reputationKeyPrefix = "reputation:"

// ReputationCache holds recent reputation lookups keyed by IP.
// Get returns nil, nil on a miss.
type ReputationCache interface {
	Get(ctx context.Context, ip string) (*model.Reputation, error)
	Set(ctx context.Context, ip string, rep *model.Reputation, ttl time.Duration) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type memEntry struct {
	rep       model.Reputation
	expiresAt time.Time
}

func (e memEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

type memoryReputationCache struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time
}

// NewMemoryReputationCache returns a process-local cache. Expired entries
// are dropped on read and by DeleteExpired.
func NewMemoryReputationCache() ReputationCache {
	return &memoryReputationCache{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

func (c *memoryReputationCache) Get(_ context.Context, ip string) (*model.Reputation, error) {
	c.mu.RLock()
	entry, ok := c.entries[ip]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if entry.isExpired(c.now()) {
		c.mu.Lock()
		delete(c.entries, ip)
		c.mu.Unlock()
		return nil, nil
	}
	rep := entry.rep
	return &rep, nil
}

func (c *memoryReputationCache) Set(_ context.Context, ip string, rep *model.Reputation, ttl time.Duration) error {
	if rep == nil || ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[ip] = memEntry{rep: *rep, expiresAt: c.now().Add(ttl)}
	return nil
}

// DeleteExpired removes every entry whose TTL has passed.
func (c *memoryReputationCache) DeleteExpired(_ context.Context) (int64, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	var count int64
	for ip, entry := range c.entries {
		if entry.isExpired(now) {
			delete(c.entries, ip)
			count++
		}
	}
	return count, nil
}

type redisReputationCache struct {
	client *redis.Client
}

// NewRedisReputationCache shares lookups between instances through Redis.
func NewRedisReputationCache(client *redis.Client) ReputationCache {
	return &redisReputationCache{client: client}
}

func (c *redisReputationCache) Get(ctx context.Context, ip string) (*model.Reputation, error) {
	data, err := c.client.Get(ctx, reputationKeyPrefix+ip).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reputation: %w", err)
	}

	var rep model.Reputation
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("unmarshal reputation: %w", err)
	}
	return &rep, nil
}

func (c *redisReputationCache) Set(ctx context.Context, ip string, rep *model.Reputation, ttl time.Duration) error {
	if rep == nil || ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal reputation: %w", err)
	}
	if err := c.client.Set(ctx, reputationKeyPrefix+ip, data, ttl).Err(); err != nil {
		return fmt.Errorf("store reputation: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: keys carry their own TTL in Redis.
func (c *redisReputationCache) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}
