package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"catalog/internal/models"

	"github.com/google/uuid"
)

type productKey struct {
	name, price, category, company string
}

func keyOf(p models.Product) productKey {
	return productKey{p.Name, p.Price, p.Category, p.Company}
}

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[string]models.Product
	keys     map[productKey]string
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
		keys:     make(map[productKey]string),
	}
}

// GetAll returns all products, oldest first.
func (r *MemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sortProducts(productList)
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.keys[keyOf(*product)]; taken {
		return fmt.Errorf("create product: %w", models.ErrDuplicate)
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now
	r.products[product.ID] = *product
	r.keys[keyOf(*product)] = product.ID
	return nil
}

// Update replaces the mutable fields of an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, id string, fields models.ProductFields) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	oldKey := keyOf(product)
	fields.Apply(&product)
	newKey := keyOf(product)
	if owner, taken := r.keys[newKey]; taken && owner != id {
		return nil, fmt.Errorf("update product %s: %w", id, models.ErrDuplicate)
	}
	product.UpdatedAt = time.Now()
	delete(r.keys, oldKey)
	r.keys[newKey] = id
	r.products[id] = product
	return &product, nil
}

// Delete removes a product by its ID and returns it.
func (r *MemoryProductRepository) Delete(_ context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	delete(r.products, id)
	delete(r.keys, keyOf(product))
	return &product, nil
}

// Search returns products with key in any of their fields, ignoring case.
func (r *MemoryProductRepository) Search(_ context.Context, key string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(key)
	var result []models.Product
	for _, p := range r.products {
		for _, field := range []string{p.Name, p.Price, p.Category, p.Company} {
			if strings.Contains(strings.ToLower(field), needle) {
				result = append(result, p)
				break
			}
		}
	}
	sortProducts(result)
	return result, nil
}

func sortProducts(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID < products[j].ID
		}
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
}
