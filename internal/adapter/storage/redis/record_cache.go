package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RecordCache implements ports.RecordCache using Redis. It holds
// confirmed-record JSON keyed by provider transaction id so duplicate
// deliveries short-circuit without a store round trip.
type RecordCache struct {
	client *goredis.Client
	prefix string
}

// NewRecordCache creates a new Redis-backed record cache.
func NewRecordCache(client *goredis.Client) *RecordCache {
	return &RecordCache{
		client: client,
		prefix: "donation:",
	}
}

// Get retrieves a cached record by provider transaction id.
// Returns nil, nil if the key does not exist.
func (c *RecordCache) Get(ctx context.Context, providerTxID string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+providerTxID).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis record cache get: %w", err)
	}
	return val, nil
}

// Set stores a record in the cache with TTL.
func (c *RecordCache) Set(ctx context.Context, providerTxID string, value []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+providerTxID, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis record cache set: %w", err)
	}
	return nil
}
