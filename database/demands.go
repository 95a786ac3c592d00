package database

import (
	"context"
	"fmt"
	"time"

	"github.com/dipanshukale/CraftCrazy/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DemandRepository struct {
	coll    *mongo.Collection
	nowFunc func() time.Time
}

func NewDemandRepository(db *mongo.Database) *DemandRepository {
	return &DemandRepository{
		coll:    db.Collection(DemandsCollection),
		nowFunc: time.Now,
	}
}

func (r *DemandRepository) Insert(ctx context.Context, demand *models.Demand) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	now := r.nowFunc().UTC()
	if demand.ID.IsZero() {
		demand.ID = primitive.NewObjectID()
	}
	demand.CreatedAt = now
	demand.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, demand); err != nil {
		return fmt.Errorf("insert demand: %w", err)
	}
	return nil
}

func (r *DemandRepository) FindAll(ctx context.Context) ([]models.Demand, error) {
	demands, err := findAll[models.Demand](ctx, r.coll, bson.M{}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list demands: %w", err)
	}
	return demands, nil
}
