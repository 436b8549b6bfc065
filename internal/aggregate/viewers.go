package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ViewerTracker counts distinct viewer identities per (product, date). The
// backing sets expire after a TTL, so unique-view counts are exact within the
// retention window and reset beyond it.
type ViewerTracker interface {
	// Add records viewerID for the key and returns the set cardinality.
	Add(ctx context.Context, productID string, date time.Time, viewerID string) (int64, error)
}

// RedisViewerTracker implements ViewerTracker on Redis sets with a TTL,
// shared across workers and across consumer instances.
type RedisViewerTracker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisViewerTracker creates a new Redis-backed viewer tracker
func NewRedisViewerTracker(client *redis.Client, ttl time.Duration) *RedisViewerTracker {
	return &RedisViewerTracker{
		client: client,
		ttl:    ttl,
	}
}

// Add inserts the viewer into the per-(product, date) set, refreshes the TTL
// and returns the resulting cardinality.
func (t *RedisViewerTracker) Add(ctx context.Context, productID string, date time.Time, viewerID string) (int64, error) {
	key := dateKey("viewers", date, productID)

	pipe := t.client.TxPipeline()
	pipe.SAdd(ctx, key, viewerID)
	pipe.Expire(ctx, key, t.ttl)
	card := pipe.SCard(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to track viewer: %w", err)
	}

	return card.Val(), nil
}
