package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studyslot/studyslot-api/internal/models"
)

// ErrCacheMiss signals the availability listing was not cached.
var ErrCacheMiss = errors.New("cache miss")

const openSlotsKey = "slots:open"

// SlotCache caches the open-slot availability listing in Redis. All methods
// are nil-receiver safe so the cache can be disabled by wiring nil.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSlotCache constructs a slot cache with the given entry TTL.
func NewSlotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SlotCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotCache{client: client, ttl: ttl, logger: logger}
}

// GetOpen returns the cached open-slot listing.
func (c *SlotCache) GetOpen(ctx context.Context) ([]models.OpenSlot, error) {
	if c == nil || c.client == nil {
		return nil, ErrCacheMiss
	}

	raw, err := c.client.Get(ctx, openSlotsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", openSlotsKey, err)
	}

	var slots []models.OpenSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, fmt.Errorf("unmarshal cached slots: %w", err)
	}
	return slots, nil
}

// SetOpen stores the open-slot listing.
func (c *SlotCache) SetOpen(ctx context.Context, slots []models.OpenSlot) error {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("marshal slots for cache: %w", err)
	}
	if err := c.client.Set(ctx, openSlotsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", openSlotsKey, err)
	}
	return nil
}

// Invalidate drops the cached listing. Called after any slot mutation.
func (c *SlotCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, openSlotsKey).Err(); err != nil {
		c.logger.Warn("failed to invalidate slot cache", zap.Error(err))
	}
}
