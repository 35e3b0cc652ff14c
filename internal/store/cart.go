package store

import (
	"context"
	"encoding/json"
	"sync"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/persist"
	"storefront-service/internal/promo"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// CartStore owns the cart snapshot. Mutations apply a pure transition under
// the lock, then emit a persist command and a domain event; neither is
// awaited, so the in-memory effect is immediately visible and durability is
// best-effort.
type CartStore struct {
	mu      sync.RWMutex
	state   models.CartState
	gateway persist.Gateway
	writer  persist.Writer
	events  *broker.EventPublisher
	logger  *zap.Logger
}

// NewCartStore creates a cart store starting from the empty cart.
func NewCartStore(gateway persist.Gateway, writer persist.Writer, events *broker.EventPublisher) *CartStore {
	return &CartStore{
		state:   models.DefaultCartState(),
		gateway: gateway,
		writer:  writer,
		events:  events,
		logger:  util.GetLogger(),
	}
}

// Pure transitions. Each returns a fresh snapshot; the input is not mutated.

// clampQuantity floors non-positive quantities to 1. Both AddToCart and
// UpdateQuantity clamp, so a quantity below 1 is unreachable through either
// entry point.
func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

func reduceAddToCart(s models.CartState, product models.Product, quantity int) models.CartState {
	next := s.Clone()
	quantity = clampQuantity(quantity)

	for i := range next.Items {
		if next.Items[i].Product.ID == product.ID {
			next.Items[i].Quantity += quantity
			return next
		}
	}

	next.Items = append(next.Items, models.CartItem{Product: product, Quantity: quantity})
	return next
}

func reduceRemoveFromCart(s models.CartState, productID string) models.CartState {
	next := s.Clone()
	items := next.Items[:0]
	for _, item := range next.Items {
		if item.Product.ID != productID {
			items = append(items, item)
		}
	}
	next.Items = items
	return next
}

func reduceUpdateQuantity(s models.CartState, productID string, quantity int) models.CartState {
	next := s.Clone()
	for i := range next.Items {
		if next.Items[i].Product.ID == productID {
			next.Items[i].Quantity = clampQuantity(quantity)
			break
		}
	}
	return next
}

func reduceClearCart(models.CartState) models.CartState {
	return models.DefaultCartState()
}

func reduceApplyPromoCode(s models.CartState, code string) (models.CartState, bool) {
	discount, ok := promo.Discount(code)
	if !ok {
		return s, false
	}
	next := s.Clone()
	next.PromoCode = promo.Normalize(code)
	next.Discount = discount
	return next, true
}

func reduceRemovePromoCode(s models.CartState) models.CartState {
	next := s.Clone()
	next.PromoCode = ""
	next.Discount = 0
	return next
}

// apply runs one transition atomically, swaps in the next snapshot, and
// emits its persist command.
func (cs *CartStore) apply(ctx context.Context, reduce func(models.CartState) models.CartState) models.CartState {
	cs.mu.Lock()
	cs.state = reduce(cs.state)
	snapshot := cs.state.Clone()
	cs.mu.Unlock()

	payload, err := json.Marshal(snapshot)
	if err != nil {
		cs.logger.Debug("cart snapshot encode failed", zap.Error(err))
		return snapshot
	}
	cs.writer.Write(ctx, persist.Command{Key: persist.KeyCart, Value: payload})
	return snapshot
}

// AddToCart adds quantity of product, merging into an existing line for the
// same product id. Non-positive quantities are clamped to 1.
func (cs *CartStore) AddToCart(ctx context.Context, product models.Product, quantity int) models.CartState {
	snapshot := cs.apply(ctx, func(s models.CartState) models.CartState {
		return reduceAddToCart(s, product, quantity)
	})
	util.CartMutationsTotal.WithLabelValues("add").Inc()
	cs.events.PublishCartUpdated(ctx, product.ID, CartItemsCount(snapshot), CartSubtotal(snapshot), CartTotal(snapshot))
	return snapshot
}

// RemoveFromCart removes the line for productID; no-op when absent.
func (cs *CartStore) RemoveFromCart(ctx context.Context, productID string) models.CartState {
	snapshot := cs.apply(ctx, func(s models.CartState) models.CartState {
		return reduceRemoveFromCart(s, productID)
	})
	util.CartMutationsTotal.WithLabelValues("remove").Inc()
	cs.events.PublishCartUpdated(ctx, productID, CartItemsCount(snapshot), CartSubtotal(snapshot), CartTotal(snapshot))
	return snapshot
}

// UpdateQuantity sets the line's quantity to max(1, quantity); no-op when
// the line is absent.
func (cs *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) models.CartState {
	snapshot := cs.apply(ctx, func(s models.CartState) models.CartState {
		return reduceUpdateQuantity(s, productID, quantity)
	})
	util.CartMutationsTotal.WithLabelValues("update_quantity").Inc()
	cs.events.PublishCartUpdated(ctx, productID, CartItemsCount(snapshot), CartSubtotal(snapshot), CartTotal(snapshot))
	return snapshot
}

// ClearCart empties the cart and resets promo state.
func (cs *CartStore) ClearCart(ctx context.Context) models.CartState {
	snapshot := cs.apply(ctx, reduceClearCart)
	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	cs.events.PublishCartCleared(ctx)
	return snapshot
}

// ApplyPromoCode applies a recognized code (case-insensitive) and reports
// whether it was accepted. Unrecognized codes leave the state untouched and
// persist nothing; callers validate with promo.Validate before dispatching.
func (cs *CartStore) ApplyPromoCode(ctx context.Context, code string) (models.CartState, bool) {
	if !promo.Validate(code) {
		util.PromoRejectedTotal.Inc()
		cs.logger.Debug("unrecognized promo code", zap.String("code", code))
		return cs.Snapshot(), false
	}

	snapshot := cs.apply(ctx, func(s models.CartState) models.CartState {
		next, _ := reduceApplyPromoCode(s, code)
		return next
	})
	util.PromoAppliedTotal.WithLabelValues(snapshot.PromoCode).Inc()
	cs.events.PublishPromoApplied(ctx, snapshot.PromoCode, snapshot.Discount)
	return snapshot, true
}

// RemovePromoCode clears the promo code and discount.
func (cs *CartStore) RemovePromoCode(ctx context.Context) models.CartState {
	snapshot := cs.apply(ctx, reduceRemovePromoCode)
	cs.events.PublishPromoRemoved(ctx)
	return snapshot
}

// Load replaces the cart wholesale from the persisted snapshot, defaulting
// to the empty cart on absence or parse failure.
func (cs *CartStore) Load(ctx context.Context) models.CartState {
	state := models.DefaultCartState()

	data, err := cs.gateway.Get(ctx, persist.KeyCart)
	if err == nil {
		var loaded models.CartState
		if jsonErr := json.Unmarshal(data, &loaded); jsonErr == nil {
			if loaded.Items == nil {
				loaded.Items = []models.CartItem{}
			}
			state = loaded
		} else {
			cs.logger.Debug("cart snapshot decode failed", zap.Error(jsonErr))
		}
	} else if err != persist.ErrNotFound {
		cs.logger.Debug("cart snapshot read failed", zap.Error(err))
	}

	cs.mu.Lock()
	cs.state = state
	snapshot := cs.state.Clone()
	cs.mu.Unlock()
	return snapshot
}

// Snapshot returns the current cart state.
func (cs *CartStore) Snapshot() models.CartState {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.state.Clone()
}

// IsInCart reports whether a line exists for productID.
func (cs *CartStore) IsInCart(productID string) bool {
	return IsInCart(cs.Snapshot(), productID)
}

// ItemQuantity returns the quantity for productID, 0 when absent.
func (cs *CartStore) ItemQuantity(productID string) int {
	return ItemQuantity(cs.Snapshot(), productID)
}
