package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	productSearchClause = `LOWER(name) LIKE ? ESCAPE '\' OR LOWER(price) LIKE ? ESCAPE '\' OR ` +
		`LOWER(category) LIKE ? ESCAPE '\' OR LOWER(company) LIKE ? ESCAPE '\'`
	productSearchClausePostgres = `name ILIKE ? ESCAPE '\' OR price ILIKE ? ESCAPE '\' OR ` +
		`category ILIKE ? ESCAPE '\' OR company ILIKE ? ESCAPE '\'`
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db           *gorm.DB
	searchClause string
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	clause := productSearchClause
	if db.Dialector.Name() == "postgres" {
		clause = productSearchClausePostgres
	}
	return &GORMProductRepository{
		db:           db,
		searchClause: clause,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("create product: %w", models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces the four catalog fields of a product and returns the stored row.
func (r *GORMProductRepository) Update(ctx context.Context, id string, fields models.ProductFields) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]any{
			"name":     fields.Name,
			"price":    fields.Price,
			"category": fields.Category,
			"company":  fields.Company,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&product, "id = ?", id).Error
	})
	switch {
	case err == nil:
		return &product, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	case isDuplicate(err):
		return nil, fmt.Errorf("update product %s: %w", id, models.ErrDuplicate)
	default:
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
}

// Delete deletes a product by its ID and returns the removed row.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return &product, nil
}

// Search matches key as a literal, case-insensitive substring of any catalog field.
func (r *GORMProductRepository) Search(ctx context.Context, key string) ([]models.Product, error) {
	pattern := likePattern(key)
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where(r.searchClause, pattern, pattern, pattern, pattern).
		Order("created_at, id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}
