package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupTTL = 24 * time.Hour

// DeliveryDedup remembers identity-provider delivery ids so that redelivered
// notifications are acknowledged without being applied twice.
// Key format: portal:delivery:<delivery_id>
type DeliveryDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeliveryDedup wraps client. A non-positive ttl uses defaultDedupTTL.
func NewDeliveryDedup(client *redis.Client, ttl time.Duration) *DeliveryDedup {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &DeliveryDedup{client: client, ttl: ttl}
}

// Claim records deliveryID and reports whether it was seen for the first
// time. SET NX makes concurrent redeliveries race-free.
func (d *DeliveryDedup) Claim(ctx context.Context, deliveryID string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(deliveryID), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	return ok, nil
}

// Release forgets deliveryID so a failed delivery can be retried.
func (d *DeliveryDedup) Release(ctx context.Context, deliveryID string) error {
	if err := d.client.Del(ctx, d.key(deliveryID)).Err(); err != nil {
		return fmt.Errorf("dedup release: %w", err)
	}
	return nil
}

func (d *DeliveryDedup) key(deliveryID string) string {
	return "portal:delivery:" + deliveryID
}
