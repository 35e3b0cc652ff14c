package worker

import (
	"context"

	"storefront-service/internal/connectivity"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// RefreshWorker drives the catalog fetch lifecycle: one connectivity-gated
// fetch-or-load-cache at startup, then a fresh fetch on every transition to
// connected.
type RefreshWorker struct {
	monitor     connectivity.Monitor
	products    *store.ProductsStore
	logger      *zap.Logger
	unsubscribe func()
}

// NewRefreshWorker creates a refresh worker over the products store.
func NewRefreshWorker(monitor connectivity.Monitor, products *store.ProductsStore) *RefreshWorker {
	return &RefreshWorker{
		monitor:  monitor,
		products: products,
		logger:   util.GetLogger(),
	}
}

// Start performs the startup fetch-or-cache decision and subscribes to
// connectivity transitions. It returns once the initial catalog is in place.
func (w *RefreshWorker) Start(ctx context.Context) {
	if w.monitor.IsConnected(ctx) {
		w.logger.Info("online at startup, fetching catalog")
		if _, err := w.products.FetchProducts(ctx); err != nil {
			w.logger.Warn("startup fetch failed, falling back to cache", zap.Error(err))
			w.products.LoadCachedProducts(ctx)
		}
	} else {
		w.logger.Info("offline at startup, loading cached catalog")
		w.products.LoadCachedProducts(ctx)
	}

	w.unsubscribe = w.monitor.Subscribe(func(connected bool) {
		if !connected {
			return
		}
		w.logger.Info("connectivity restored, refreshing catalog")
		// Fetches run on the subscriber's goroutine; the store serializes
		// snapshot swaps, so overlapping refreshes stay last-write-wins.
		if _, err := w.products.FetchProducts(context.Background()); err != nil {
			w.logger.Warn("refresh fetch failed", zap.Error(err))
		}
	})
}

// Stop unsubscribes from connectivity transitions.
func (w *RefreshWorker) Stop() {
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
}
