package store

import (
	"strings"

	"storefront-service/internal/models"
)

// Selectors are pure functions over snapshots. They take state as a value
// and never cache, so derived data can not go stale against the snapshot it
// was computed from.

// FilteredProducts returns the catalog items matching every active filter,
// in catalog order. An empty query, absent category, and default price range
// together form the identity filter.
func FilteredProducts(s models.ProductsState) []models.Product {
	query := strings.ToLower(s.SearchQuery)

	out := make([]models.Product, 0, len(s.Items))
	for _, p := range s.Items {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if s.SelectedCategory != "" && p.Category != s.SelectedCategory {
			continue
		}
		if p.Price < s.PriceRange.Min || p.Price > s.PriceRange.Max {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns the distinct category values present in the catalog,
// in first-occurrence order.
func Categories(s models.ProductsState) []string {
	seen := make(map[string]struct{}, len(s.Items))
	out := make([]string, 0)
	for _, p := range s.Items {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// ProductByID returns the catalog product with the given id, or nil. A nil
// result is a non-fatal empty state; stale favorite or cart ids after a
// catalog refresh land here.
func ProductByID(s models.ProductsState, id string) *models.Product {
	for i := range s.Items {
		if s.Items[i].ID == id {
			p := s.Items[i]
			return &p
		}
	}
	return nil
}

// CartItemsCount is the sum of all line quantities.
func CartItemsCount(s models.CartState) int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// CartSubtotal is the sum of price × quantity over all lines.
func CartSubtotal(s models.CartState) float64 {
	subtotal := 0.0
	for _, item := range s.Items {
		subtotal += item.Product.Price * float64(item.Quantity)
	}
	return subtotal
}

// CartTotal is the subtotal reduced by the applied discount fraction.
func CartTotal(s models.CartState) float64 {
	return CartSubtotal(s) * (1 - s.Discount)
}

// IsInCart reports whether the cart has a line for productID.
func IsInCart(s models.CartState, productID string) bool {
	for _, item := range s.Items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

// ItemQuantity returns the quantity for productID, 0 when absent.
func ItemQuantity(s models.CartState, productID string) int {
	for _, item := range s.Items {
		if item.Product.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// IsFavorite reports whether productID is in the favorites set.
func IsFavorite(s models.FavoritesState, productID string) bool {
	for _, id := range s.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// FavoriteProducts joins the favorites set against the catalog snapshot at
// read time, returning matches in catalog order. Favorited ids missing from
// the catalog are simply skipped.
func FavoriteProducts(products models.ProductsState, favorites models.FavoritesState) []models.Product {
	ids := make(map[string]struct{}, len(favorites.ProductIDs))
	for _, id := range favorites.ProductIDs {
		ids[id] = struct{}{}
	}

	out := make([]models.Product, 0, len(ids))
	for _, p := range products.Items {
		if _, ok := ids[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}
