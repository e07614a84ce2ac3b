package webhooks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

const keyPrefix = "booking:webhook:processed"

// Cache remembers gateway events whose effects were committed.
// A hit lets a redelivery be acknowledged without opening a transaction;
// a miss always falls through to the database, which stays authoritative.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewCache(client redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Key redis key of one processed event
func Key(ev *domain.NormalizedPaymentEvent) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, ev.Provider, ev.Outcome, ev.ExternalID)
}

// Seen reports whether ev was processed before
func (c *Cache) Seen(ctx context.Context, ev *domain.NormalizedPaymentEvent) (bool, error) {
	n, err := c.client.Exists(ctx, Key(ev)).Result()
	if err != nil {
		return false, fmt.Errorf("webhooks.cache: exists: %w", err)
	}
	return n > 0, nil
}

// Remember marks ev as processed. Call only after the transaction committed.
func (c *Cache) Remember(ctx context.Context, ev *domain.NormalizedPaymentEvent) error {
	if err := c.client.Set(ctx, Key(ev), 1, c.ttl).Err(); err != nil {
		return fmt.Errorf("webhooks.cache: set: %w", err)
	}
	return nil
}

// NopCache used when redis is disabled
type NopCache struct{}

func (NopCache) Seen(context.Context, *domain.NormalizedPaymentEvent) (bool, error) { return false, nil }

func (NopCache) Remember(context.Context, *domain.NormalizedPaymentEvent) error { return nil }
