package models

import "time"

// Event types
const (
	EventTypeCartUpdated      = "CART_UPDATED"
	EventTypeCartCleared      = "CART_CLEARED"
	EventTypePromoApplied     = "PROMO_APPLIED"
	EventTypePromoRemoved     = "PROMO_REMOVED"
	EventTypeFavoritesUpdated = "FAVORITES_UPDATED"
	EventTypeCatalogRefreshed = "CATALOG_REFRESHED"
	EventTypeCatalogFetchFail = "CATALOG_FETCH_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CartUpdatedEvent published after any cart line mutation
type CartUpdatedEvent struct {
	BaseEvent
	ProductID  string  `json:"product_id,omitempty"`
	ItemsCount int     `json:"items_count"`
	Subtotal   float64 `json:"subtotal"`
	Total      float64 `json:"total"`
}

// CartClearedEvent published when the cart is emptied
type CartClearedEvent struct {
	BaseEvent
}

// PromoAppliedEvent published when a promo code is accepted
type PromoAppliedEvent struct {
	BaseEvent
	PromoCode string  `json:"promo_code"`
	Discount  float64 `json:"discount"`
}

// PromoRemovedEvent published when the promo code is cleared
type PromoRemovedEvent struct {
	BaseEvent
}

// FavoritesUpdatedEvent published after a favorite toggle or clear
type FavoritesUpdatedEvent struct {
	BaseEvent
	ProductID string `json:"product_id,omitempty"`
	Count     int    `json:"count"`
}

// CatalogRefreshedEvent published when a fetch replaces the catalog
type CatalogRefreshedEvent struct {
	BaseEvent
	ProductCount int   `json:"product_count"`
	CachedAt     int64 `json:"cached_at"`
}

// CatalogFetchFailedEvent published when a catalog fetch fails
type CatalogFetchFailedEvent struct {
	BaseEvent
	Reason string `json:"reason"`
}
