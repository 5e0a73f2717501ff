package services

import (
	"context"
	"fmt"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/validation"

	"github.com/rs/zerolog"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	logger    zerolog.Logger
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With().Str("component", "product_service").Logger(),
	}
}

// GetAllProducts retrieves all products. An empty catalog is models.ErrNotFound.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products: %w", models.ErrNotFound)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct stores a product built from validated body values.
func (s *ProductService) CreateProduct(ctx context.Context, values validation.Values) (*models.Product, error) {
	product := &models.Product{}
	productFields(values).Apply(product)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", product.ID).Msg("product added")
	publishEvent(s.publisher, s.logger, EventProductCreated, product.ID, product)
	return product, nil
}

// UpdateProduct replaces all four catalog fields of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, values validation.Values) (*models.Product, error) {
	product, err := s.repo.Update(ctx, id, productFields(values))
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", id).Msg("product updated")
	publishEvent(s.publisher, s.logger, EventProductUpdated, id, product)
	return product, nil
}

// DeleteProduct deletes a product by its ID and returns it.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	publishEvent(s.publisher, s.logger, EventProductDeleted, id, product)
	return product, nil
}

// SearchProducts finds products containing key in any field. No match is models.ErrNotFound.
func (s *ProductService) SearchProducts(ctx context.Context, key string) ([]models.Product, error) {
	products, err := s.repo.Search(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products matching %q: %w", key, models.ErrNotFound)
	}
	return products, nil
}

func productFields(v validation.Values) models.ProductFields {
	return models.ProductFields{
		Name:     v["name"],
		Price:    v["price"],
		Category: v["category"],
		Company:  v["company"],
	}
}
