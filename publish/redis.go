package publish

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// LatestKey holds the JSON copy of the most recent snapshot
const LatestKey = "latest"

// HashStore is the subset of the Redis cache used for mirroring
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]any) error
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Redis mirrors snapshots into a Redis hash named after the document path
type Redis struct {
	store  HashStore
	prefix string
}

// NewRedis creates a mirror publisher; hash keys are prefix + path
func NewRedis(store HashStore, prefix string) *Redis {
	return &Redis{store: store, prefix: prefix}
}

// HashKey returns the hash that backs path
func (r *Redis) HashKey(path string) string {
	return r.prefix + strings.Trim(path, "/")
}

// Publish implements Publisher
func (r *Redis) Publish(ctx context.Context, path string, fields map[string]any) error {
	if err := r.store.HSet(ctx, r.HashKey(path), fields); err != nil {
		return fmt.Errorf("failed to mirror %s to redis: %w", path, err)
	}
	if err := r.store.SetJSON(ctx, r.prefix+LatestKey, fields, 0); err != nil {
		return fmt.Errorf("failed to store latest snapshot: %w", err)
	}
	return nil
}
