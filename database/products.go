package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dipanshukale/CraftCrazy/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const searchLimit = 20

type ProductRepository struct {
	coll    *mongo.Collection
	nowFunc func() time.Time
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		coll:    db.Collection(ProductsCollection),
		nowFunc: time.Now,
	}
}

func (r *ProductRepository) Insert(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	now := r.nowFunc().UTC()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Replace overwrites every editable field, keeping id and createdAt.
func (r *ProductRepository) Replace(ctx context.Context, id primitive.ObjectID, product *models.Product) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	raw, err := bson.Marshal(product)
	if err != nil {
		return nil, fmt.Errorf("marshal product: %w", err)
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("marshal product: %w", err)
	}
	delete(set, "_id")
	delete(set, "createdAt")
	set["updatedAt"] = r.nowFunc().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &updated, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := findOne[models.Product](ctx, r.coll, bson.M{"_id": id})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, err
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	products, err := findAll[models.Product](ctx, r.coll, bson.M{}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// FindByCategory matches the normalized category key exactly.
func (r *ProductRepository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := findAll[models.Product](ctx, r.coll, bson.M{"category": category}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return products, nil
}

// SearchByName does a case-insensitive substring match on the product name.
// The query is matched literally.
func (r *ProductRepository) SearchByName(ctx context.Context, query string) ([]models.Product, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}}
	opts := options.Find().
		SetLimit(searchLimit).
		SetProjection(bson.M{"name": 1, "category": 1, "price": 1, "createdAt": 1})

	products, err := findAll[models.Product](ctx, r.coll, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	deleted, err := deleteByID(ctx, r.coll, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return deleted, nil
}
