package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DedupGuard implements ports.DedupGuard using Redis SET NX. It is a
// fast-path tripwire for duplicate notifications racing ahead of the first
// commit; the ledger store's unique index remains authoritative.
type DedupGuard struct {
	client *goredis.Client
	prefix string
}

// NewDedupGuard creates a new Redis-backed dedup guard.
func NewDedupGuard(client *goredis.Client) *DedupGuard {
	return &DedupGuard{
		client: client,
		prefix: "dedup:",
	}
}

// MarkIfFirst atomically marks the provider transaction id.
// Returns true on first sight, false if the id was already marked.
func (g *DedupGuard) MarkIfFirst(ctx context.Context, providerTxID string, ttl time.Duration) (bool, error) {
	key := g.prefix + providerTxID
	result, err := g.client.SetArgs(ctx, key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists, the notification was seen before
			return false, nil
		}
		return false, fmt.Errorf("redis dedup mark: %w", err)
	}
	return result == "OK", nil
}
