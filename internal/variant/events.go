package variant

import (
	"context"
	"time"
)

const (
	EventVariantCreated = "VariantCreated"
	EventVariantUpdated = "VariantUpdated"
	EventVariantDeleted = "VariantDeleted"
)

// EventPublisher emits variant change events. Implemented by the Kafka producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, key, eventType string, payload any) error
}

// Cache is the subset of the Redis client the reconciler needs: identity
// locks and invalidation of cached product listings.
type Cache interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}
