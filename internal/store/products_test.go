package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"storefront-service/internal/models"
	"storefront-service/internal/persist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource is an in-test catalog source.
type stubSource struct {
	products []models.Product
	err      error
}

func (s *stubSource) FetchAllProducts(context.Context) ([]models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *stubSource) FetchProductByID(_ context.Context, id string) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, nil
}

func sampleCatalog() []models.Product {
	headphones := testProduct("p-1001", 199.99)
	headphones.Title = "Wireless Headphones"
	headphones.Category = "audio"
	headphones.Description = "Over-ear wireless headphones"

	mouse := testProduct("p-1002", 79.99)
	mouse.Title = "Gaming Mouse"
	mouse.Category = "gaming"
	mouse.Description = "Lightweight gaming mouse"

	keyboard := testProduct("p-1003", 129.50)
	keyboard.Title = "Mechanical Keyboard"
	keyboard.Category = "gaming"
	keyboard.Description = "Hot-swappable mechanical keyboard"

	return []models.Product{headphones, mouse, keyboard}
}

func newTestProductsStore(source *stubSource) (*ProductsStore, *persist.MemoryGateway) {
	gateway := persist.NewMemoryGateway()
	return NewProductsStore(source, gateway, persist.NewSyncWriter(gateway), nil), gateway
}

func TestFetchProductsSuccess(t *testing.T) {
	ps, gateway := newTestProductsStore(&stubSource{products: sampleCatalog()})
	ctx := context.Background()

	state, err := ps.FetchProducts(ctx)

	require.NoError(t, err)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Len(t, state.Items, 3)
	assert.NotZero(t, state.CachedAt)

	// Catalog cache is persisted alongside the fetch.
	data, err := gateway.Get(ctx, persist.KeyProductsCache)
	require.NoError(t, err)
	var cache models.ProductsCache
	require.NoError(t, json.Unmarshal(data, &cache))
	assert.Len(t, cache.Products, 3)
	assert.Equal(t, state.CachedAt, cache.CachedAt)
}

func TestFetchProductsFailureKeepsItems(t *testing.T) {
	source := &stubSource{products: sampleCatalog()}
	ps, _ := newTestProductsStore(source)
	ctx := context.Background()

	_, err := ps.FetchProducts(ctx)
	require.NoError(t, err)

	source.err = errors.New("network unreachable")
	state, err := ps.FetchProducts(ctx)

	require.Error(t, err)
	assert.False(t, state.Loading)
	assert.Equal(t, "network unreachable", state.Error)
	assert.Len(t, state.Items, 3, "stale items stay visible after a failed fetch")
}

func TestFetchProductsClearsPreviousError(t *testing.T) {
	source := &stubSource{err: errors.New("boom")}
	ps, _ := newTestProductsStore(source)
	ctx := context.Background()

	_, err := ps.FetchProducts(ctx)
	require.Error(t, err)

	source.err = nil
	source.products = sampleCatalog()
	state, err := ps.FetchProducts(ctx)

	require.NoError(t, err)
	assert.Empty(t, state.Error)
}

func TestLoadCachedProducts(t *testing.T) {
	gateway := persist.NewMemoryGateway()
	ctx := context.Background()

	cache := models.ProductsCache{Products: sampleCatalog(), CachedAt: 1724900000000}
	data, err := json.Marshal(cache)
	require.NoError(t, err)
	require.NoError(t, gateway.Set(ctx, persist.KeyProductsCache, data))

	ps := NewProductsStore(&stubSource{}, gateway, persist.NewSyncWriter(gateway), nil)
	state := ps.LoadCachedProducts(ctx)

	assert.Len(t, state.Items, 3)
	assert.Equal(t, int64(1724900000000), state.CachedAt)
}

func TestLoadCachedProductsMissLeavesStateUntouched(t *testing.T) {
	ps, _ := newTestProductsStore(&stubSource{products: sampleCatalog()})
	ctx := context.Background()

	_, err := ps.FetchProducts(ctx)
	require.NoError(t, err)

	// Cache key removed out from under the store; the miss must not clear
	// the fetched items.
	require.NoError(t, ps.gateway.Remove(ctx, persist.KeyProductsCache))
	state := ps.LoadCachedProducts(ctx)

	assert.Len(t, state.Items, 3)
}

func TestLoadCachedProductsEmptyCacheLeavesStateUntouched(t *testing.T) {
	ps, gateway := newTestProductsStore(&stubSource{products: sampleCatalog()})
	ctx := context.Background()

	_, err := ps.FetchProducts(ctx)
	require.NoError(t, err)

	empty, _ := json.Marshal(models.ProductsCache{Products: []models.Product{}})
	require.NoError(t, gateway.Set(ctx, persist.KeyProductsCache, empty))

	state := ps.LoadCachedProducts(ctx)
	assert.Len(t, state.Items, 3)
}

func TestIdentityFilterReturnsAllInOrder(t *testing.T) {
	ps, _ := newTestProductsStore(&stubSource{products: sampleCatalog()})
	_, err := ps.FetchProducts(context.Background())
	require.NoError(t, err)

	state := ps.Snapshot()
	assert.Empty(t, state.SearchQuery)
	assert.Empty(t, state.SelectedCategory)
	assert.Equal(t, models.DefaultPriceRange(), state.PriceRange)

	filtered := FilteredProducts(state)
	assert.Equal(t, state.Items, filtered)
}

func TestSearchFilterIsCaseInsensitive(t *testing.T) {
	ps, _ := newTestProductsStore(&stubSource{products: sampleCatalog()})
	ctx := context.Background()
	_, err := ps.FetchProducts(ctx)
	require.NoError(t, err)

	ps.SetSearchQuery("WIRELESS")
	filtered := ps.Filtered()

	require.Len(t, filtered, 1)
	assert.Equal(t, "p-1001", filtered[0].ID)
}

func TestSearchFilterMatchesDescription(t *testing.T) {
	ps, _ := newTestProductsStore(&stubSource{products: sampleCatalog()})
	_, err := ps.FetchProducts(context.Background())
	require.NoError(t, err)

	ps.SetSearchQuery("hot-swappable")
	filtered := ps.Filtered()

	require.Len(t, filtered, 1)
	assert.Equal(t, "p-1003", filtered[0].ID)
}

func TestCategoryFilter(t *testing.T) {
	ps, _ := newTestProductsStore(&stubSource{products: sampleCatalog()})
	_, err := ps.FetchProducts(context.Background())
	require.NoError(t, err)

	ps.SetSelectedCategory("gaming")
	filtered := ps.Filtered()

	require.Len(t, filtered, 2)
	assert.Equal(t, "p-1002", filtered[0].ID)
	assert.Equal(t, "p-1003", filtered[1].ID)
}

func TestPriceRangeFilterScenario(t *testing.T) {
	ps, _ := newTestProductsStore(&stubSource{products: sampleCatalog()[:2]})
	_, err := ps.FetchProducts(context.Background())
	require.NoError(t, err)

	ps.SetPriceRange(0, 100)
	filtered := ps.Filtered()

	require.Len(t, filtered, 1)
	assert.Equal(t, "p-1002", filtered[0].ID)
}

func TestFiltersComposeWithAnd(t *testing.T) {
	ps, _ := newTestProductsStore(&stubSource{products: sampleCatalog()})
	_, err := ps.FetchProducts(context.Background())
	require.NoError(t, err)

	ps.SetSelectedCategory("gaming")
	ps.SetPriceRange(100, 200)
	filtered := ps.Filtered()

	require.Len(t, filtered, 1)
	assert.Equal(t, "p-1003", filtered[0].ID)
}

func TestClearFilters(t *testing.T) {
	ps, _ := newTestProductsStore(&stubSource{products: sampleCatalog()})
	_, err := ps.FetchProducts(context.Background())
	require.NoError(t, err)

	ps.SetSearchQuery("mouse")
	ps.SetSelectedCategory("gaming")
	ps.SetPriceRange(10, 20)
	state := ps.ClearFilters()

	assert.Empty(t, state.SearchQuery)
	assert.Empty(t, state.SelectedCategory)
	assert.Equal(t, models.DefaultPriceRange(), state.PriceRange)
	assert.Len(t, ps.Filtered(), 3)
}

func TestCategoriesFirstOccurrenceOrder(t *testing.T) {
	ps, _ := newTestProductsStore(&stubSource{products: sampleCatalog()})
	_, err := ps.FetchProducts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"audio", "gaming"}, ps.Categories())
}

func TestProductByID(t *testing.T) {
	ps, _ := newTestProductsStore(&stubSource{products: sampleCatalog()})
	_, err := ps.FetchProducts(context.Background())
	require.NoError(t, err)

	state := ps.Snapshot()
	product := ProductByID(state, "p-1002")
	require.NotNil(t, product)
	assert.Equal(t, "Gaming Mouse", product.Title)

	assert.Nil(t, ProductByID(state, "p-9999"))
}
