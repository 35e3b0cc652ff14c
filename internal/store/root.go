package store

import (
	"context"
	"sync"

	"storefront-service/internal/broker"
	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/persist"
	"storefront-service/internal/util"
)

// Root composes the three stores into one explicitly constructed container.
// There is no ambient singleton; anything needing state receives a *Root.
type Root struct {
	Products  *ProductsStore
	Cart      *CartStore
	Favorites *FavoritesStore
}

// NewRoot wires the stores against a shared gateway, writer, and optional
// event publisher.
func NewRoot(source catalog.Source, gateway persist.Gateway, writer persist.Writer, events *broker.EventPublisher) *Root {
	return &Root{
		Products:  NewProductsStore(source, gateway, writer, events),
		Cart:      NewCartStore(gateway, writer, events),
		Favorites: NewFavoritesStore(gateway, writer, events),
	}
}

// LoadAll runs the cart and favorites loads concurrently and returns once
// both snapshots are in place. Load failures fall back to defaults inside
// the stores, so this never fails.
func (r *Root) LoadAll(ctx context.Context) {
	ctx, span := util.StartSpan(ctx, "Root.LoadAll")
	defer span.End()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		r.Cart.Load(ctx)
	}()
	go func() {
		defer wg.Done()
		r.Favorites.Load(ctx)
	}()

	wg.Wait()
}

// FavoriteProducts joins the current favorites set against the current
// catalog snapshot.
func (r *Root) FavoriteProducts() []models.Product {
	return FavoriteProducts(r.Products.Snapshot(), r.Favorites.Snapshot())
}
