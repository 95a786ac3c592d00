package database

import (
	"context"
	"fmt"
	"time"

	"github.com/dipanshukale/CraftCrazy/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewRepository struct {
	coll    *mongo.Collection
	nowFunc func() time.Time
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{
		coll:    db.Collection(ReviewsCollection),
		nowFunc: time.Now,
	}
}

var latestReviewFirst = bson.D{{Key: "date", Value: -1}}

// Insert stores a review dated now.
func (r *ReviewRepository) Insert(ctx context.Context, review *models.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	review.Date = r.nowFunc().UTC()

	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) FindAll(ctx context.Context) ([]models.Review, error) {
	reviews, err := findAll[models.Review](ctx, r.coll, bson.M{}, options.Find().SetSort(latestReviewFirst))
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// FindByProduct returns at most limit reviews of productID, latest first.
func (r *ReviewRepository) FindByProduct(ctx context.Context, productID string, limit int64) ([]models.Review, error) {
	opts := options.Find().SetSort(latestReviewFirst).SetLimit(limit)
	reviews, err := findAll[models.Review](ctx, r.coll, bson.M{"productId": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list product reviews: %w", err)
	}
	return reviews, nil
}

// StatsByProduct counts and averages every review of productID. A product with
// no reviews yields zero values.
func (r *ReviewRepository) StatsByProduct(ctx context.Context, productID string) (models.ReviewStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"productId": productID}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$productId",
			"count":     bson.M{"$sum": 1},
			"avgRating": bson.M{"$avg": "$rating"},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.ReviewStats{}, fmt.Errorf("review stats: %w", err)
	}
	defer cursor.Close(ctx)

	var stats models.ReviewStats
	if cursor.Next(ctx) {
		if err := cursor.Decode(&stats); err != nil {
			return models.ReviewStats{}, fmt.Errorf("decode review stats: %w", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return models.ReviewStats{}, fmt.Errorf("review stats: %w", err)
	}
	return stats, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	deleted, err := deleteByID(ctx, r.coll, id)
	if err != nil {
		return false, fmt.Errorf("delete review: %w", err)
	}
	return deleted, nil
}
