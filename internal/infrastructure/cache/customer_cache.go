// Package cache provides a Redis read-through cache in front of slow read models.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"inventra/internal/core/id"
	"inventra/internal/domain/ledger"
	"inventra/pkg/logger"
)

// DefaultCustomerTTL bounds how stale a cached credit limit may be.
const DefaultCustomerTTL = 5 * time.Minute

const customerKeyPrefix = "inventra:customer:"

var _ ledger.CustomerReader = (*CustomerCache)(nil)

// CustomerCache caches customer records (name and credit limit) in Redis.
// Ledger sums are never cached; only the slowly changing customer record is.
// Redis failures degrade to reading through, they never fail a check.
type CustomerCache struct {
	client *redis.Client
	next   ledger.CustomerReader
	ttl    time.Duration
}

// NewCustomerCache wraps next with a cache. ttl <= 0 uses DefaultCustomerTTL.
func NewCustomerCache(client *redis.Client, next ledger.CustomerReader, ttl time.Duration) *CustomerCache {
	if ttl <= 0 {
		ttl = DefaultCustomerTTL
	}
	return &CustomerCache{client: client, next: next, ttl: ttl}
}

func customerKey(customerID id.ID) string {
	return customerKeyPrefix + customerID.String()
}

// GetCustomer returns the cached customer, loading it from next on a miss.
// Not found results are not cached.
func (c *CustomerCache) GetCustomer(ctx context.Context, customerID id.ID) (ledger.Customer, error) {
	key := customerKey(customerID)

	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var customer ledger.Customer
		if jsonErr := json.Unmarshal(payload, &customer); jsonErr == nil {
			return customer, nil
		}
		logger.Warn(ctx, "discarding undecodable cached customer", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		logger.Warn(ctx, "customer cache read failed", "key", key, "error", err)
	}

	customer, err := c.next.GetCustomer(ctx, customerID)
	if err != nil {
		return ledger.Customer{}, err
	}

	if payload, err := json.Marshal(customer); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			logger.Warn(ctx, "customer cache write failed", "key", key, "error", err)
		}
	}
	return customer, nil
}

// Invalidate drops the cached record for customerID.
func (c *CustomerCache) Invalidate(ctx context.Context, customerID id.ID) error {
	if err := c.client.Del(ctx, customerKey(customerID)).Err(); err != nil {
		return fmt.Errorf("invalidate customer %s: %w", customerID, err)
	}
	return nil
}

// Ping backs the readiness check.
func (c *CustomerCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
