package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/persist"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// ProductsStore owns the catalog snapshot and the active filter criteria.
// Filter setters are pure synchronous transitions and are not persisted;
// only the fetched catalog is cached to the gateway.
type ProductsStore struct {
	mu      sync.RWMutex
	state   models.ProductsState
	source  catalog.Source
	gateway persist.Gateway
	writer  persist.Writer
	events  *broker.EventPublisher
	logger  *zap.Logger
}

// NewProductsStore creates a catalog store with identity filters and no items.
func NewProductsStore(source catalog.Source, gateway persist.Gateway, writer persist.Writer, events *broker.EventPublisher) *ProductsStore {
	return &ProductsStore{
		state:   models.DefaultProductsState(),
		source:  source,
		gateway: gateway,
		writer:  writer,
		events:  events,
		logger:  util.GetLogger(),
	}
}

// SetSearchQuery updates the search filter.
func (ps *ProductsStore) SetSearchQuery(query string) models.ProductsState {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.state.SearchQuery = query
	return ps.state.Clone()
}

// SetSelectedCategory updates the category filter. An empty string means no
// category filter.
func (ps *ProductsStore) SetSelectedCategory(category string) models.ProductsState {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.state.SelectedCategory = category
	return ps.state.Clone()
}

// SetPriceRange updates the inclusive price filter.
func (ps *ProductsStore) SetPriceRange(min, max float64) models.ProductsState {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.state.PriceRange = models.PriceRange{Min: min, Max: max}
	return ps.state.Clone()
}

// ClearFilters resets query, category, and price range to their defaults.
func (ps *ProductsStore) ClearFilters() models.ProductsState {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.state.SearchQuery = ""
	ps.state.SelectedCategory = ""
	ps.state.PriceRange = models.DefaultPriceRange()
	return ps.state.Clone()
}

// FetchProducts fetches the catalog from the source. While the fetch is
// pending the snapshot shows loading with no error. On success the items are
// replaced wholesale, the cache is persisted, and the error cleared; on
// failure the error message is recorded and the previous items stay usable.
// In-flight fetches are not cancelled by later filter changes.
func (ps *ProductsStore) FetchProducts(ctx context.Context) (models.ProductsState, error) {
	ctx, span := util.StartSpan(ctx, "ProductsStore.FetchProducts")
	defer span.End()

	ps.mu.Lock()
	ps.state.Loading = true
	ps.state.Error = ""
	ps.mu.Unlock()

	start := time.Now()
	products, err := ps.source.FetchAllProducts(ctx)
	util.CatalogFetchLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		ps.mu.Lock()
		ps.state.Loading = false
		ps.state.Error = err.Error()
		snapshot := ps.state.Clone()
		ps.mu.Unlock()

		util.CatalogFetchesTotal.WithLabelValues("error").Inc()
		ps.logger.Warn("catalog fetch failed", zap.Error(err))
		ps.events.PublishCatalogFetchFailed(ctx, err.Error())
		return snapshot, err
	}

	cachedAt := time.Now().UnixMilli()

	ps.mu.Lock()
	ps.state.Loading = false
	ps.state.Error = ""
	ps.state.Items = products
	ps.state.CachedAt = cachedAt
	snapshot := ps.state.Clone()
	ps.mu.Unlock()

	ps.persistCache(ctx, snapshot.Items, cachedAt)
	util.CatalogFetchesTotal.WithLabelValues("success").Inc()
	ps.logger.Info("catalog fetched",
		zap.Int("products", len(snapshot.Items)))
	ps.events.PublishCatalogRefreshed(ctx, len(snapshot.Items), cachedAt)
	return snapshot, nil
}

// LoadCachedProducts reads the persisted catalog cache. A present,
// non-empty cache replaces items and cachedAt; anything else leaves the
// snapshot untouched, so existing items are never cleared by a miss.
func (ps *ProductsStore) LoadCachedProducts(ctx context.Context) models.ProductsState {
	data, err := ps.gateway.Get(ctx, persist.KeyProductsCache)
	if err != nil {
		if err != persist.ErrNotFound {
			ps.logger.Debug("catalog cache read failed", zap.Error(err))
		}
		util.CatalogCacheLoadsTotal.WithLabelValues("miss").Inc()
		return ps.Snapshot()
	}

	var cache models.ProductsCache
	if err := json.Unmarshal(data, &cache); err != nil {
		ps.logger.Debug("catalog cache decode failed", zap.Error(err))
		util.CatalogCacheLoadsTotal.WithLabelValues("miss").Inc()
		return ps.Snapshot()
	}

	if len(cache.Products) == 0 {
		util.CatalogCacheLoadsTotal.WithLabelValues("miss").Inc()
		return ps.Snapshot()
	}

	ps.mu.Lock()
	ps.state.Items = cache.Products
	ps.state.CachedAt = cache.CachedAt
	snapshot := ps.state.Clone()
	ps.mu.Unlock()

	util.CatalogCacheLoadsTotal.WithLabelValues("hit").Inc()
	ps.logger.Info("catalog loaded from cache",
		zap.Int("products", len(cache.Products)))
	return snapshot
}

func (ps *ProductsStore) persistCache(ctx context.Context, products []models.Product, cachedAt int64) {
	payload, err := json.Marshal(models.ProductsCache{Products: products, CachedAt: cachedAt})
	if err != nil {
		ps.logger.Debug("catalog cache encode failed", zap.Error(err))
		return
	}
	ps.writer.Write(ctx, persist.Command{Key: persist.KeyProductsCache, Value: payload})
}

// FetchProductByID looks a product up at the source, bypassing the snapshot.
func (ps *ProductsStore) FetchProductByID(ctx context.Context, id string) (*models.Product, error) {
	return ps.source.FetchProductByID(ctx, id)
}

// Snapshot returns the current catalog state.
func (ps *ProductsStore) Snapshot() models.ProductsState {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.state.Clone()
}

// Filtered returns the catalog filtered by the active criteria.
func (ps *ProductsStore) Filtered() []models.Product {
	return FilteredProducts(ps.Snapshot())
}

// Categories returns the distinct categories in the catalog.
func (ps *ProductsStore) Categories() []string {
	return Categories(ps.Snapshot())
}
