package repositories

import (
	"context"

	"catalog/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// Implementations return models.ErrNotFound for unknown ids and
// models.ErrDuplicate when a write collides with another product's
// (name, price, category, company) tuple. The check must be atomic in the store.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id string, fields models.ProductFields) (*models.Product, error)
	Delete(ctx context.Context, id string) (*models.Product, error)
	// Search returns products where any field contains key, ignoring case.
	// key is always a literal substring.
	Search(ctx context.Context, key string) ([]models.Product, error)
}
