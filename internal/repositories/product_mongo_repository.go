package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"catalog/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductsCollection is the Mongo collection holding products.
const ProductsCollection = "products"

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a repository over db's products collection.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection(ProductsCollection)}
}

var byCreation = options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

// GetAll retrieves all products.
func (r *MongoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, byCreation)
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a product by its ID.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create inserts a product; the unique index rejects duplicate tuples.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	product.CreatedAt, product.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create product: %w", models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces the catalog fields of a product and returns the new document.
func (r *MongoProductRepository) Update(ctx context.Context, id string, fields models.ProductFields) (*models.Product, error) {
	update := bson.M{"$set": bson.M{
		"name":      fields.Name,
		"price":     fields.Price,
		"category":  fields.Category,
		"company":   fields.Company,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&product)
	switch {
	case err == nil:
		return &product, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return nil, fmt.Errorf("update product %s: %w", id, models.ErrDuplicate)
	default:
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
}

// Delete removes a product and returns the deleted document.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return &product, nil
}

// Search matches key as a literal, case-insensitive substring of any catalog field.
func (r *MongoProductRepository) Search(ctx context.Context, key string) ([]models.Product, error) {
	cur, err := r.coll.Find(ctx, SearchFilter(key), byCreation)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// SearchFilter builds the $or filter used by Search. Regex metacharacters in
// key are quoted so user input never becomes a pattern.
func SearchFilter(key string) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(key), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"price": re},
		bson.M{"category": re},
		bson.M{"company": re},
	}}
}
