package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/core/types"
	"inventra/internal/domain/ledger"
)

type countingReader struct {
	customers map[id.ID]ledger.Customer
	calls     int
}

func (r *countingReader) GetCustomer(_ context.Context, customerID id.ID) (ledger.Customer, error) {
	r.calls++
	c, ok := r.customers[customerID]
	if !ok {
		return ledger.Customer{}, apperror.NewNotFound("customer", customerID.String())
	}
	return c, nil
}

func newTestCache(t *testing.T, next ledger.CustomerReader) (*CustomerCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCustomerCache(client, next, time.Minute), mr
}

func TestCustomerCache_ReadThrough(t *testing.T) {
	customerID := id.New()
	limit := types.MustMoney("1000.50")
	reader := &countingReader{customers: map[id.ID]ledger.Customer{
		customerID: {ID: customerID, Name: "شركة النور", CreditLimit: &limit},
	}}
	c, mr := newTestCache(t, reader)
	ctx := context.Background()

	first, err := c.GetCustomer(ctx, customerID)
	require.NoError(t, err)
	second, err := c.GetCustomer(ctx, customerID)
	require.NoError(t, err)

	assert.Equal(t, 1, reader.calls)
	assert.Equal(t, first.Name, second.Name)
	require.NotNil(t, second.CreditLimit)
	assert.True(t, second.CreditLimit.Equal(limit))
	assert.True(t, mr.Exists(customerKey(customerID)))
	assert.Equal(t, time.Minute, mr.TTL(customerKey(customerID)))
}

func TestCustomerCache_NotFoundIsNotCached(t *testing.T) {
	reader := &countingReader{}
	c, mr := newTestCache(t, reader)
	customerID := id.New()

	_, err := c.GetCustomer(context.Background(), customerID)
	assert.True(t, apperror.IsNotFound(err))
	assert.False(t, mr.Exists(customerKey(customerID)))
}

func TestCustomerCache_Invalidate(t *testing.T) {
	customerID := id.New()
	reader := &countingReader{customers: map[id.ID]ledger.Customer{customerID: {ID: customerID}}}
	c, _ := newTestCache(t, reader)
	ctx := context.Background()

	_, err := c.GetCustomer(ctx, customerID)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, customerID))
	_, err = c.GetCustomer(ctx, customerID)
	require.NoError(t, err)

	assert.Equal(t, 2, reader.calls)
}

func TestCustomerCache_RedisDownReadsThrough(t *testing.T) {
	customerID := id.New()
	reader := &countingReader{customers: map[id.ID]ledger.Customer{customerID: {ID: customerID, Name: "x"}}}
	c, mr := newTestCache(t, reader)
	mr.Close()

	customer, err := c.GetCustomer(context.Background(), customerID)
	require.NoError(t, err)
	assert.Equal(t, "x", customer.Name)
	assert.Error(t, c.Ping(context.Background()))
}

func TestCustomerCache_CorruptEntryIsReloaded(t *testing.T) {
	customerID := id.New()
	reader := &countingReader{customers: map[id.ID]ledger.Customer{customerID: {ID: customerID, Name: "y"}}}
	c, mr := newTestCache(t, reader)
	require.NoError(t, mr.Set(customerKey(customerID), "{not json"))

	customer, err := c.GetCustomer(context.Background(), customerID)
	require.NoError(t, err)
	assert.Equal(t, "y", customer.Name)
	assert.Equal(t, 1, reader.calls)
}
