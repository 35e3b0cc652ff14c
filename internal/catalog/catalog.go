// Package catalog provides the product data sources the products store
// fetches from. A source fails only by returning an error, never by
// returning malformed data.
package catalog

import (
	"context"

	"storefront-service/internal/models"
)

// Source is the catalog contract.
type Source interface {
	// FetchAllProducts returns the full product list.
	FetchAllProducts(ctx context.Context) ([]models.Product, error)
	// FetchProductByID returns a single product, or nil when absent.
	FetchProductByID(ctx context.Context, id string) (*models.Product, error)
}
