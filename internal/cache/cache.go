// Package cache is a small read-through cache for dataset responses backed
// by Redis. A cache failure degrades to a database read and is never
// surfaced to the caller.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TTL is the time-to-live for cached dataset payloads.
const TTL = 5 * time.Minute

type Cache struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func datasetKey(datasetID uuid.UUID) string {
	return fmt.Sprintf("dataset:%s", datasetID)
}

// GetDataset returns the cached payload for datasetID into out. A miss or a
// Redis error both report ok=false.
func (c *Cache) GetDataset(ctx context.Context, datasetID uuid.UUID, out interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, datasetKey(datasetID)).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(data), out) == nil
}

// SetDataset caches the payload for datasetID.
func (c *Cache) SetDataset(ctx context.Context, datasetID uuid.UUID, payload interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	c.client.Set(ctx, datasetKey(datasetID), data, TTL)
}

// InvalidateDataset drops the cached payload for datasetID. Every write path
// through the catalog calls this.
func (c *Cache) InvalidateDataset(ctx context.Context, datasetID uuid.UUID) {
	if c == nil {
		return
	}
	c.client.Del(ctx, datasetKey(datasetID))
}
