package store

import (
	"context"
	"encoding/json"
	"testing"

	"storefront-service/internal/models"
	"storefront-service/internal/persist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id string, price float64) models.Product {
	return models.Product{
		ID:          id,
		Title:       "Test Product " + id,
		Price:       price,
		Rating:      4.5,
		Category:    "test",
		Thumbnail:   "https://example.com/" + id + "/thumb.jpg",
		Images:      []string{"https://example.com/" + id + "/1.jpg"},
		Description: "Test description",
	}
}

func newTestCartStore() (*CartStore, *persist.MemoryGateway) {
	gateway := persist.NewMemoryGateway()
	return NewCartStore(gateway, persist.NewSyncWriter(gateway), nil), gateway
}

func TestAddToCart(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	state := cs.AddToCart(ctx, testProduct("p-1001", 100), 2)

	require.Len(t, state.Items, 1)
	assert.Equal(t, "p-1001", state.Items[0].Product.ID)
	assert.Equal(t, 2, state.Items[0].Quantity)
}

func TestAddToCartAccumulatesQuantity(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()
	product := testProduct("p-1001", 100)

	cs.AddToCart(ctx, product, 1)
	cs.AddToCart(ctx, product, 2)
	state := cs.AddToCart(ctx, product, 3)

	require.Len(t, state.Items, 1)
	assert.Equal(t, 6, state.Items[0].Quantity)
}

func TestAddToCartPreservesInsertionOrder(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	cs.AddToCart(ctx, testProduct("p-1001", 100), 1)
	cs.AddToCart(ctx, testProduct("p-1002", 50), 1)
	state := cs.AddToCart(ctx, testProduct("p-1001", 100), 1)

	require.Len(t, state.Items, 2)
	assert.Equal(t, "p-1001", state.Items[0].Product.ID)
	assert.Equal(t, "p-1002", state.Items[1].Product.ID)
}

func TestAddToCartClampsNonPositiveQuantity(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	state := cs.AddToCart(ctx, testProduct("p-1001", 100), -3)

	require.Len(t, state.Items, 1)
	assert.Equal(t, 1, state.Items[0].Quantity)
}

func TestRemoveFromCart(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	cs.AddToCart(ctx, testProduct("p-1001", 100), 1)
	cs.AddToCart(ctx, testProduct("p-1002", 50), 1)
	state := cs.RemoveFromCart(ctx, "p-1001")

	require.Len(t, state.Items, 1)
	assert.Equal(t, "p-1002", state.Items[0].Product.ID)
	assert.False(t, IsInCart(state, "p-1001"))
}

func TestRemoveFromCartAbsentIsNoop(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	cs.AddToCart(ctx, testProduct("p-1001", 100), 1)
	state := cs.RemoveFromCart(ctx, "p-9999")

	assert.Len(t, state.Items, 1)
}

func TestUpdateQuantity(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	cs.AddToCart(ctx, testProduct("p-1001", 100), 1)
	state := cs.UpdateQuantity(ctx, "p-1001", 5)

	assert.Equal(t, 5, ItemQuantity(state, "p-1001"))
}

func TestUpdateQuantityClampLaw(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()
	cs.AddToCart(ctx, testProduct("p-1", 100), 3)

	for _, q := range []int{0, -1, -5} {
		state := cs.UpdateQuantity(ctx, "p-1", q)
		assert.Equal(t, 1, ItemQuantity(state, "p-1"), "quantity %d should clamp to 1", q)
	}
}

func TestUpdateQuantityAbsentIsNoop(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	cs.AddToCart(ctx, testProduct("p-1001", 100), 2)
	state := cs.UpdateQuantity(ctx, "p-9999", 7)

	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.Equal(t, 0, ItemQuantity(state, "p-9999"))
}

func TestClearCart(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	cs.AddToCart(ctx, testProduct("p-1001", 100), 2)
	cs.ApplyPromoCode(ctx, "SAVE10")
	state := cs.ClearCart(ctx)

	assert.Empty(t, state.Items)
	assert.Empty(t, state.PromoCode)
	assert.Zero(t, state.Discount)
}

func TestApplyPromoCodeCaseInsensitive(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	for _, code := range []string{"save10", "SAVE10", "Save10"} {
		state, ok := cs.ApplyPromoCode(ctx, code)
		assert.True(t, ok)
		assert.Equal(t, "SAVE10", state.PromoCode)
		assert.Equal(t, 0.10, state.Discount)
	}
}

func TestApplyPromoCodeUnrecognized(t *testing.T) {
	cs, gateway := newTestCartStore()
	ctx := context.Background()

	cs.AddToCart(ctx, testProduct("p-1001", 100), 1)
	before, err := gateway.Get(ctx, persist.KeyCart)
	require.NoError(t, err)

	state, ok := cs.ApplyPromoCode(ctx, "bogus")

	assert.False(t, ok)
	assert.Empty(t, state.PromoCode)
	assert.Zero(t, state.Discount)

	// Rejected codes persist nothing.
	after, err := gateway.Get(ctx, persist.KeyCart)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRemovePromoCode(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	cs.ApplyPromoCode(ctx, "WELCOME")
	state := cs.RemovePromoCode(ctx)

	assert.Empty(t, state.PromoCode)
	assert.Zero(t, state.Discount)
}

func TestCartTotals(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	cs.AddToCart(ctx, testProduct("p-1001", 100), 2)
	state := cs.AddToCart(ctx, testProduct("p-1002", 50), 1)

	assert.Equal(t, 3, CartItemsCount(state))
	assert.InDelta(t, 250.0, CartSubtotal(state), 1e-9)
	assert.InDelta(t, 250.0, CartTotal(state), 1e-9)
}

func TestPromoDiscountScenario(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	cs.AddToCart(ctx, testProduct("p-1001", 100), 2)
	state, ok := cs.ApplyPromoCode(ctx, "SAVE10")

	require.True(t, ok)
	assert.InDelta(t, 200.0, CartSubtotal(state), 1e-9)
	assert.Equal(t, 0.10, state.Discount)
	assert.InDelta(t, 180.0, CartTotal(state), 1e-9)
}

func TestTotalInvariantAcrossMutations(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	check := func(state models.CartState) {
		assert.InDelta(t, CartSubtotal(state)*(1-state.Discount), CartTotal(state), 1e-9)
	}

	check(cs.AddToCart(ctx, testProduct("p-1001", 199.99), 2))
	check(cs.AddToCart(ctx, testProduct("p-1002", 79.99), 1))
	promoState, _ := cs.ApplyPromoCode(ctx, "SAVE20")
	check(promoState)
	check(cs.UpdateQuantity(ctx, "p-1001", 1))
	check(cs.RemoveFromCart(ctx, "p-1002"))
	check(cs.RemovePromoCode(ctx))
	check(cs.ClearCart(ctx))
}

func TestCartPersistsAfterMutation(t *testing.T) {
	cs, gateway := newTestCartStore()
	ctx := context.Background()

	cs.AddToCart(ctx, testProduct("p-1001", 100), 2)
	cs.ApplyPromoCode(ctx, "SAVE10")

	data, err := gateway.Get(ctx, persist.KeyCart)
	require.NoError(t, err)

	var persisted models.CartState
	require.NoError(t, json.Unmarshal(data, &persisted))
	require.Len(t, persisted.Items, 1)
	assert.Equal(t, 2, persisted.Items[0].Quantity)
	assert.Equal(t, "SAVE10", persisted.PromoCode)
	assert.Equal(t, 0.10, persisted.Discount)
}

func TestLoadCartEmptyStore(t *testing.T) {
	cs, _ := newTestCartStore()

	state := cs.Load(context.Background())

	assert.Equal(t, models.CartState{Items: []models.CartItem{}}, state)
}

func TestLoadCartReplacesWholesale(t *testing.T) {
	gateway := persist.NewMemoryGateway()
	ctx := context.Background()

	persisted := models.CartState{
		Items:     []models.CartItem{{Product: testProduct("p-1001", 100), Quantity: 4}},
		PromoCode: "SAVE20",
		Discount:  0.20,
	}
	data, err := json.Marshal(persisted)
	require.NoError(t, err)

	cs := NewCartStore(gateway, persist.NewSyncWriter(gateway), nil)
	cs.AddToCart(ctx, testProduct("p-9999", 10), 1)

	// Seed after the mutation so the persisted snapshot differs from the
	// in-memory one; Load must take the persisted cart wholesale.
	require.NoError(t, gateway.Set(ctx, persist.KeyCart, data))

	state := cs.Load(ctx)

	require.Len(t, state.Items, 1)
	assert.Equal(t, "p-1001", state.Items[0].Product.ID)
	assert.Equal(t, 4, state.Items[0].Quantity)
	assert.Equal(t, "SAVE20", state.PromoCode)
	assert.False(t, IsInCart(state, "p-9999"), "load replaces, never merges")
}

func TestLoadCartCorruptPayloadFallsBack(t *testing.T) {
	gateway := persist.NewMemoryGateway()
	ctx := context.Background()
	require.NoError(t, gateway.Set(ctx, persist.KeyCart, []byte("{not json")))

	cs := NewCartStore(gateway, persist.NewSyncWriter(gateway), nil)
	state := cs.Load(ctx)

	assert.Empty(t, state.Items)
	assert.Empty(t, state.PromoCode)
}

func TestIsInCartAndItemQuantity(t *testing.T) {
	cs, _ := newTestCartStore()
	ctx := context.Background()

	cs.AddToCart(ctx, testProduct("p-1001", 100), 3)

	assert.True(t, cs.IsInCart("p-1001"))
	assert.False(t, cs.IsInCart("p-1002"))
	assert.Equal(t, 3, cs.ItemQuantity("p-1001"))
	assert.Equal(t, 0, cs.ItemQuantity("p-1002"))
}
