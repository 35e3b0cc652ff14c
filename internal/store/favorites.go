package store

import (
	"context"
	"encoding/json"
	"sync"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/persist"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// FavoritesStore owns the favorited-product-id set. The persisted payload
// is the bare id list, not the wrapping struct.
type FavoritesStore struct {
	mu      sync.RWMutex
	state   models.FavoritesState
	gateway persist.Gateway
	writer  persist.Writer
	events  *broker.EventPublisher
	logger  *zap.Logger
}

// NewFavoritesStore creates an empty favorites store.
func NewFavoritesStore(gateway persist.Gateway, writer persist.Writer, events *broker.EventPublisher) *FavoritesStore {
	return &FavoritesStore{
		state:   models.DefaultFavoritesState(),
		gateway: gateway,
		writer:  writer,
		events:  events,
		logger:  util.GetLogger(),
	}
}

func reduceToggleFavorite(s models.FavoritesState, productID string) models.FavoritesState {
	next := s.Clone()
	for i, id := range next.ProductIDs {
		if id == productID {
			next.ProductIDs = append(next.ProductIDs[:i], next.ProductIDs[i+1:]...)
			return next
		}
	}
	next.ProductIDs = append(next.ProductIDs, productID)
	return next
}

func (fs *FavoritesStore) apply(ctx context.Context, reduce func(models.FavoritesState) models.FavoritesState) models.FavoritesState {
	fs.mu.Lock()
	fs.state = reduce(fs.state)
	snapshot := fs.state.Clone()
	fs.mu.Unlock()

	payload, err := json.Marshal(snapshot.ProductIDs)
	if err != nil {
		fs.logger.Debug("favorites snapshot encode failed", zap.Error(err))
		return snapshot
	}
	fs.writer.Write(ctx, persist.Command{Key: persist.KeyFavorites, Value: payload})
	return snapshot
}

// ToggleFavorite removes productID from the set when present, adds it when
// absent. Applying it twice restores the original set.
func (fs *FavoritesStore) ToggleFavorite(ctx context.Context, productID string) models.FavoritesState {
	snapshot := fs.apply(ctx, func(s models.FavoritesState) models.FavoritesState {
		return reduceToggleFavorite(s, productID)
	})
	util.FavoriteTogglesTotal.Inc()
	fs.events.PublishFavoritesUpdated(ctx, productID, len(snapshot.ProductIDs))
	return snapshot
}

// ClearFavorites empties the set.
func (fs *FavoritesStore) ClearFavorites(ctx context.Context) models.FavoritesState {
	snapshot := fs.apply(ctx, func(models.FavoritesState) models.FavoritesState {
		return models.DefaultFavoritesState()
	})
	fs.events.PublishFavoritesUpdated(ctx, "", 0)
	return snapshot
}

// Load replaces the set wholesale from the persisted id list, defaulting to
// empty on absence or parse failure.
func (fs *FavoritesStore) Load(ctx context.Context) models.FavoritesState {
	state := models.DefaultFavoritesState()

	data, err := fs.gateway.Get(ctx, persist.KeyFavorites)
	if err == nil {
		var ids []string
		if jsonErr := json.Unmarshal(data, &ids); jsonErr == nil {
			if ids == nil {
				ids = []string{}
			}
			state.ProductIDs = ids
		} else {
			fs.logger.Debug("favorites snapshot decode failed", zap.Error(jsonErr))
		}
	} else if err != persist.ErrNotFound {
		fs.logger.Debug("favorites snapshot read failed", zap.Error(err))
	}

	fs.mu.Lock()
	fs.state = state
	snapshot := fs.state.Clone()
	fs.mu.Unlock()
	return snapshot
}

// Snapshot returns the current favorites state.
func (fs *FavoritesStore) Snapshot() models.FavoritesState {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.state.Clone()
}

// IsFavorite reports whether productID is favorited.
func (fs *FavoritesStore) IsFavorite(productID string) bool {
	return IsFavorite(fs.Snapshot(), productID)
}

// Count returns the number of favorited products.
func (fs *FavoritesStore) Count() int {
	return len(fs.Snapshot().ProductIDs)
}
