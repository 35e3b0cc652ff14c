package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/models"
)

//go:embed data/products.json
var productsData []byte

// StaticSource serves the bundled product dataset with an artificial delay
// to mimic network behavior.
type StaticSource struct {
	products []models.Product
	delay    time.Duration
}

// NewStaticSource parses the embedded dataset.
func NewStaticSource(delay time.Duration) (*StaticSource, error) {
	var payload struct {
		Products []models.Product `json:"products"`
	}
	if err := json.Unmarshal(productsData, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}

	return &StaticSource{
		products: payload.Products,
		delay:    delay,
	}, nil
}

func (s *StaticSource) sleep(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FetchAllProducts returns a copy of the bundled product list.
func (s *StaticSource) FetchAllProducts(ctx context.Context) ([]models.Product, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}

	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// FetchProductByID returns the matching product, or nil.
func (s *StaticSource) FetchProductByID(ctx context.Context, id string) (*models.Product, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}

	for _, p := range s.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, nil
}
