package models

import "fmt"

// Default price-range bounds used when no filter is active.
const (
	DefaultPriceMin = 0
	DefaultPriceMax = 500
)

// Product represents a catalog product. Products are loaded wholesale from
// the catalog source and never mutated by the stores.
type Product struct {
	ID          string   `db:"id" json:"id"`
	Title       string   `db:"title" json:"title"`
	Price       float64  `db:"price" json:"price"`
	Rating      float64  `db:"rating" json:"rating"`
	Category    string   `db:"category" json:"category"`
	Thumbnail   string   `db:"thumbnail" json:"thumbnail"`
	Images      []string `json:"images"`
	Description string   `db:"description" json:"description"`
}

// FormatPrice renders a price with a currency symbol for display.
func FormatPrice(price float64, symbol string) string {
	if symbol == "" {
		symbol = "$"
	}
	return fmt.Sprintf("%s%.2f", symbol, price)
}

// CartItem is one cart line: a product and a positive quantity.
// At most one CartItem exists per product id within a cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartState is the cart snapshot. Discount is always exactly the promo
// table value for PromoCode, or 0 when no code is applied.
type CartState struct {
	Items     []CartItem `json:"items"`
	PromoCode string     `json:"promoCode,omitempty"`
	Discount  float64    `json:"discount"`
}

// DefaultCartState returns the empty cart.
func DefaultCartState() CartState {
	return CartState{Items: []CartItem{}}
}

// Clone returns a deep copy so callers can hold a snapshot while the store
// keeps mutating its own.
func (s CartState) Clone() CartState {
	out := s
	out.Items = make([]CartItem, len(s.Items))
	copy(out.Items, s.Items)
	return out
}

// FavoritesState is the set of favorited product ids. Insertion order is
// kept for deterministic iteration.
type FavoritesState struct {
	ProductIDs []string `json:"productIds"`
}

// DefaultFavoritesState returns the empty favorites set.
func DefaultFavoritesState() FavoritesState {
	return FavoritesState{ProductIDs: []string{}}
}

// Clone returns a copy of the favorites snapshot.
func (s FavoritesState) Clone() FavoritesState {
	out := s
	out.ProductIDs = make([]string, len(s.ProductIDs))
	copy(out.ProductIDs, s.ProductIDs)
	return out
}

// PriceRange is an inclusive [Min, Max] price filter.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultPriceRange returns the unfiltered bounds.
func DefaultPriceRange() PriceRange {
	return PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax}
}

// ProductsState is the catalog snapshot plus the active filter criteria.
// CachedAt is a unix-milliseconds timestamp, 0 when never cached.
type ProductsState struct {
	Items            []Product  `json:"items"`
	Loading          bool       `json:"loading"`
	Error            string     `json:"error,omitempty"`
	SearchQuery      string     `json:"searchQuery"`
	SelectedCategory string     `json:"selectedCategory,omitempty"`
	PriceRange       PriceRange `json:"priceRange"`
	CachedAt         int64      `json:"cachedAt,omitempty"`
}

// DefaultProductsState returns an empty catalog with identity filters.
func DefaultProductsState() ProductsState {
	return ProductsState{
		Items:      []Product{},
		PriceRange: DefaultPriceRange(),
	}
}

// Clone returns a copy of the catalog snapshot.
func (s ProductsState) Clone() ProductsState {
	out := s
	out.Items = make([]Product, len(s.Items))
	copy(out.Items, s.Items)
	return out
}

// ProductsCache is the persisted catalog payload.
type ProductsCache struct {
	Products []Product `json:"products"`
	CachedAt int64     `json:"cachedAt"`
}
