package broker

import (
	"context"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher fans storefront mutations out to Kafka. Publishing is
// fire-and-forget from the stores' point of view: failures are logged and
// swallowed, never surfaced to the mutation caller. A nil *EventPublisher
// is valid and publishes nothing, so the state core stays embeddable
// without a broker.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

func (ep *EventPublisher) publish(ctx context.Context, key string, event interface{}) {
	if ep == nil || ep.producer == nil {
		return
	}
	if err := ep.producer.PublishEvent(ctx, key, event); err != nil {
		util.GetLogger().Warn("event publish failed",
			zap.String("key", key),
			zap.Error(err))
	}
}

// PublishCartUpdated publishes CartUpdated after a cart line mutation
func (ep *EventPublisher) PublishCartUpdated(ctx context.Context, productID string, itemsCount int, subtotal, total float64) {
	ep.publish(ctx, "cart", &models.CartUpdatedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeCartUpdated),
		ProductID:  productID,
		ItemsCount: itemsCount,
		Subtotal:   subtotal,
		Total:      total,
	})
}

// PublishCartCleared publishes CartCleared
func (ep *EventPublisher) PublishCartCleared(ctx context.Context) {
	ep.publish(ctx, "cart", &models.CartClearedEvent{
		BaseEvent: newBaseEvent(models.EventTypeCartCleared),
	})
}

// PublishPromoApplied publishes PromoApplied
func (ep *EventPublisher) PublishPromoApplied(ctx context.Context, code string, discount float64) {
	ep.publish(ctx, "cart", &models.PromoAppliedEvent{
		BaseEvent: newBaseEvent(models.EventTypePromoApplied),
		PromoCode: code,
		Discount:  discount,
	})
}

// PublishPromoRemoved publishes PromoRemoved
func (ep *EventPublisher) PublishPromoRemoved(ctx context.Context) {
	ep.publish(ctx, "cart", &models.PromoRemovedEvent{
		BaseEvent: newBaseEvent(models.EventTypePromoRemoved),
	})
}

// PublishFavoritesUpdated publishes FavoritesUpdated
func (ep *EventPublisher) PublishFavoritesUpdated(ctx context.Context, productID string, count int) {
	ep.publish(ctx, "favorites", &models.FavoritesUpdatedEvent{
		BaseEvent: newBaseEvent(models.EventTypeFavoritesUpdated),
		ProductID: productID,
		Count:     count,
	})
}

// PublishCatalogRefreshed publishes CatalogRefreshed after a successful fetch
func (ep *EventPublisher) PublishCatalogRefreshed(ctx context.Context, productCount int, cachedAt int64) {
	ep.publish(ctx, "catalog", &models.CatalogRefreshedEvent{
		BaseEvent:    newBaseEvent(models.EventTypeCatalogRefreshed),
		ProductCount: productCount,
		CachedAt:     cachedAt,
	})
}

// PublishCatalogFetchFailed publishes CatalogFetchFailed
func (ep *EventPublisher) PublishCatalogFetchFailed(ctx context.Context, reason string) {
	ep.publish(ctx, "catalog", &models.CatalogFetchFailedEvent{
		BaseEvent: newBaseEvent(models.EventTypeCatalogFetchFail),
		Reason:    reason,
	})
}
