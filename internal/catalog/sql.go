package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// productRow mirrors the products table. Image lists are stored as a JSON
// array column.
type productRow struct {
	ID          string  `db:"id"`
	Title       string  `db:"title"`
	Price       float64 `db:"price"`
	Rating      float64 `db:"rating"`
	Category    string  `db:"category"`
	Thumbnail   string  `db:"thumbnail"`
	Images      []byte  `db:"images"`
	Description string  `db:"description"`
}

func (r productRow) toProduct() (models.Product, error) {
	p := models.Product{
		ID:          r.ID,
		Title:       r.Title,
		Price:       r.Price,
		Rating:      r.Rating,
		Category:    r.Category,
		Thumbnail:   r.Thumbnail,
		Description: r.Description,
	}
	if len(r.Images) > 0 {
		if err := json.Unmarshal(r.Images, &p.Images); err != nil {
			return models.Product{}, fmt.Errorf("failed to decode images for %s: %w", r.ID, err)
		}
	}
	return p, nil
}

// SQLSource serves the catalog from Postgres. It honors the same contract
// as the static source, so the products store does not care which one it
// was wired with.
type SQLSource struct {
	db *sqlx.DB
}

// NewSQLSource connects to the database holding the products table.
func NewSQLSource(databaseURL string) (*SQLSource, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLSource{db: db}, nil
}

// Close closes the database connection.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// FetchAllProducts retrieves all products in catalog order.
func (s *SQLSource) FetchAllProducts(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, title, price, rating, category, thumbnail, images, description FROM products ORDER BY position, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		p, err := r.toProduct()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// FetchProductByID retrieves a single product, nil when absent.
func (s *SQLSource) FetchProductByID(ctx context.Context, id string) (*models.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row,
		"SELECT id, title, price, rating, category, thumbnail, images, description FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product %s: %w", id, err)
	}

	p, err := row.toProduct()
	if err != nil {
		return nil, err
	}
	return &p, nil
}
