package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/pkg/kv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService() (*CartService, kv.Store) {
	store := kv.NewMemoryStore()
	return NewCartService(store, 24*time.Hour, decimal.RequireFromString("3.99")), store
}

func pizza() entity.FoodItem {
	item := entity.FoodItem{Name: "Margherita Pizza", Price: decimal.RequireFromString("8.99"), RestaurantID: 1}
	item.ID = 1
	return item
}

func TestCartAddAndLoad(t *testing.T) {
	svc, _ := newCartService()
	ctx := context.Background()

	cart, err := svc.Add(ctx, 7, pizza(), 2, nil)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)

	got := svc.Load(ctx, 7)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, cart.Lines[0].ID, got.Lines[0].ID)
	assert.Equal(t, "8.99", got.Lines[0].FoodItem.Price.StringFixed(2))
}

func TestCartAddZeroQuantityDefaultsToOne(t *testing.T) {
	svc, _ := newCartService()
	cart, err := svc.Add(context.Background(), 7, pizza(), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
}

func TestCartUpdateQuantityZeroRemoves(t *testing.T) {
	svc, store := newCartService()
	ctx := context.Background()

	cart, err := svc.Add(ctx, 7, pizza(), 2, nil)
	require.NoError(t, err)
	lineID := cart.Lines[0].ID

	cart, err = svc.UpdateQuantity(ctx, 7, lineID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)

	// last line removed: the keys are gone, not an empty array
	_, err = store.Get(ctx, "cart:7")
	assert.ErrorIs(t, err, kv.ErrNotFound)
	_, err = store.Get(ctx, "cart-timestamp:7")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestCartUpdateQuantityUnknownLine(t *testing.T) {
	svc, _ := newCartService()
	ctx := context.Background()
	_, err := svc.Add(ctx, 7, pizza(), 1, nil)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, 7, "nope", 3)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestCartExpiryDiscardsAndFlags(t *testing.T) {
	svc, store := newCartService()
	ctx := context.Background()

	_, err := svc.Add(ctx, 7, pizza(), 1, nil)
	require.NoError(t, err)

	// one millisecond past the 24h window
	stale := time.Now().Add(-24*time.Hour - time.Millisecond).UnixMilli()
	require.NoError(t, store.Set(ctx, "cart-timestamp:7", strconv.FormatInt(stale, 10), 0))

	cart := svc.Load(ctx, 7)
	assert.Empty(t, cart.Lines)
	assert.True(t, cart.Expired)

	_, err = store.Get(ctx, "cart:7")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	// and the flag is one-shot: the next load is just an empty cart
	assert.False(t, svc.Load(ctx, 7).Expired)
}

func TestCartLoadMalformedJSON(t *testing.T) {
	svc, store := newCartService()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:7", "{not json", 0))
	cart := svc.Load(ctx, 7)
	assert.Empty(t, cart.Lines)

	_, err := store.Get(ctx, "cart:7")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestCartLoadDropsInvalidLinesOnly(t *testing.T) {
	svc, store := newCartService()
	ctx := context.Background()

	good, err := svc.Add(ctx, 7, pizza(), 1, nil)
	require.NoError(t, err)

	raw, err := store.Get(ctx, "cart:7")
	require.NoError(t, err)
	// splice in a zero-value entry next to the good one
	mixed := "[" + raw[1:len(raw)-1] + ",{}]"
	require.NoError(t, store.Set(ctx, "cart:7", mixed, 0))

	cart := svc.Load(ctx, 7)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, good.Lines[0].ID, cart.Lines[0].ID)
}

func TestCartDeliveryFeeOverride(t *testing.T) {
	svc, _ := newCartService()
	ctx := context.Background()

	assert.Equal(t, "3.99", svc.Load(ctx, 7).DeliveryFee.StringFixed(2))

	require.NoError(t, svc.SetDeliveryFee(ctx, 7, decimal.RequireFromString("1.50")))
	assert.Equal(t, "1.50", svc.Load(ctx, 7).DeliveryFee.StringFixed(2))

	assert.Error(t, svc.SetDeliveryFee(ctx, 7, decimal.RequireFromString("-1")))
}

func TestCartTotals(t *testing.T) {
	svc, _ := newCartService()
	ctx := context.Background()

	_, err := svc.Add(ctx, 7, pizza(), 2, nil)
	require.NoError(t, err)

	got := svc.Totals(ctx, 7)
	assert.Equal(t, "17.98", got.Subtotal.StringFixed(2))
	assert.Equal(t, "1.44", got.Tax.StringFixed(2))
	assert.Equal(t, "23.41", got.Total.StringFixed(2))
}

func TestCartClear(t *testing.T) {
	svc, store := newCartService()
	ctx := context.Background()

	_, err := svc.Add(ctx, 7, pizza(), 2, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, 7))

	_, err = store.Get(ctx, "cart:7")
	assert.ErrorIs(t, err, kv.ErrNotFound)
	assert.Empty(t, svc.Load(ctx, 7).Lines)
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	svc, _ := newCartService()
	ctx := context.Background()

	_, err := svc.Add(ctx, 7, pizza(), 1, nil)
	require.NoError(t, err)

	assert.Empty(t, svc.Load(ctx, 8).Lines)
}
