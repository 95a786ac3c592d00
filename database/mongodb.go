package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	OrdersCollection        = "orders"
	ContactsCollection      = "contacts"
	ProductsCollection      = "products"
	DemandsCollection       = "demands"
	ReviewsCollection       = "reviews"
	IdempotencyCollection   = "idempotency"
	defaultOperationTimeout = 10 * time.Second
)

var (
	// ErrNotFound is returned when no document matches the id.
	ErrNotFound = errors.New("document not found")
	// ErrConditionFailed indicates the document exists but a guarded update did not apply.
	ErrConditionFailed = errors.New("conditional update failed")
)

// ConnectDB dials MongoDB, pings it and returns the named database.
func ConnectDB(ctx context.Context, uri, name string, logger zerolog.Logger) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	// Ping the database
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info().Str("database", name).Msg("connected to MongoDB")
	return client.Database(name), nil
}

// EnsureIndexes creates the indexes the repositories rely on for sorting and lookups.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	byCreated := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}
	if _, err := db.Collection(OrdersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		byCreated,
		{Keys: bson.D{{Key: "orderStatus", Value: 1}}},
		{Keys: bson.D{{Key: "transactionStatus", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("orders indexes: %w", err)
	}
	if _, err := db.Collection(ContactsCollection).Indexes().CreateOne(ctx, byCreated); err != nil {
		return fmt.Errorf("contacts indexes: %w", err)
	}
	if _, err := db.Collection(ProductsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		byCreated,
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("products indexes: %w", err)
	}
	if _, err := db.Collection(DemandsCollection).Indexes().CreateOne(ctx, byCreated); err != nil {
		return fmt.Errorf("demands indexes: %w", err)
	}
	if _, err := db.Collection(ReviewsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "date", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("reviews indexes: %w", err)
	}
	if _, err := db.Collection(IdempotencyCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}); err != nil {
		return fmt.Errorf("idempotency indexes: %w", err)
	}
	return nil
}

// ParseID converts a hex string into an ObjectID. Malformed ids map to ErrNotFound
// since no document can carry them.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return id, nil
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
