package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/grocery-api/internal/events"
)

const versionKey = "catalog:version"

// Cache wraps Redis helpers for listing payloads. Keys embed a version counter
// that is bumped whenever stock-affecting events fire, so stale listings fall
// out immediately instead of waiting for the TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// ListKey derives a cache key for the given listing parameters.
func (c *Cache) ListKey(ctx context.Context, params ListParams) string {
	if c == nil || c.client == nil {
		return ""
	}
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && err != redis.Nil {
		return ""
	}
	maxPrice := int64(-1)
	if params.MaxPrice != nil {
		maxPrice = *params.MaxPrice
	}
	return fmt.Sprintf("catalog:list:v%d:%s:%d:%s:%t:%d:%d",
		version, params.Search, maxPrice, params.Sort, params.Desc, params.Page, params.Limit)
}

// GetJSON unmarshals a cached JSON payload into dst. It reports whether the key existed.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil || c.client == nil || key == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serialises v as JSON and stores it with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil || key == "" || c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Notify implements events.Notifier: stock-affecting events invalidate all
// cached listings by bumping the version counter.
func (c *Cache) Notify(ctx context.Context, event events.Event) error {
	if c == nil || c.client == nil {
		return nil
	}
	for _, topic := range events.StockAffectingTopics() {
		if event.Topic == topic {
			return c.client.Incr(ctx, versionKey).Err()
		}
	}
	return nil
}
