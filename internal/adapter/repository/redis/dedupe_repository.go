package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupeKeyPrefix = "lifelog:update:"

// DedupeRepository implements domain.UpdateDeduper using Redis. Webhook
// platforms redeliver updates when an acknowledgment is slow or missing; a
// short-lived key per handled update ID suppresses the duplicates. The
// check and the mark are separate operations so a failed request is never
// recorded as handled.
type DedupeRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewDedupeRepository creates a new Redis-backed update deduper.
func NewDedupeRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *DedupeRepository {
	return &DedupeRepository{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "redis_dedupe"),
	}
}

// Seen reports whether the update ID was already marked as handled.
func (r *DedupeRepository) Seen(ctx context.Context, updateID int64) (bool, error) {
	n, err := r.client.Exists(ctx, dedupeKey(updateID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedupe exists: %w", err)
	}
	return n > 0, nil
}

// Mark records the update ID as handled for the TTL window.
func (r *DedupeRepository) Mark(ctx context.Context, updateID int64) error {
	if err := r.client.Set(ctx, dedupeKey(updateID), 1, r.ttl).Err(); err != nil {
		return fmt.Errorf("dedupe set: %w", err)
	}
	return nil
}

func dedupeKey(updateID int64) string {
	return fmt.Sprintf("%s%d", dedupeKeyPrefix, updateID)
}
