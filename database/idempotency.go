package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dipanshukale/CraftCrazy/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AttemptLease is how long an IN_PROGRESS attempt is trusted before another
// request may take it over.
const AttemptLease = 2 * time.Minute

// IdempotencyRepository tracks gateway-order attempts so a retried request
// never opens a second gateway order for the same store order.
type IdempotencyRepository struct {
	coll      *mongo.Collection
	ttlWindow time.Duration
	lease     time.Duration
	nowFunc   func() time.Time
}

// NewIdempotencyRepository returns a repository whose records expire after ttlWindow.
func NewIdempotencyRepository(db *mongo.Database, ttlWindow time.Duration) *IdempotencyRepository {
	return &IdempotencyRepository{
		coll:      db.Collection(IdempotencyCollection),
		ttlWindow: ttlWindow,
		lease:     AttemptLease,
		nowFunc:   time.Now,
	}
}

// CreateIfNotExists inserts an IN_PROGRESS record for key.
// Returns (true, nil) when created and (false, nil) when the key already exists.
func (r *IdempotencyRepository) CreateIfNotExists(ctx context.Context, key, orderID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	now := r.nowFunc().UTC()
	rec := models.GatewayTransaction{
		Key:       key,
		Status:    models.TxStatusInProgress,
		OrderID:   orderID,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(r.ttlWindow),
	}
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert idempotency record: %w", err)
	}
	return true, nil
}

// Get retrieves a record by key. If not found, returns (nil, nil).
func (r *IdempotencyRepository) Get(ctx context.Context, key string) (*models.GatewayTransaction, error) {
	rec, err := findOne[models.GatewayTransaction](ctx, r.coll, bson.M{"_id": key})
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get idempotency record: %w", err)
	}
	return rec, nil
}

// Reacquire moves a FAILED record, or an IN_PROGRESS one whose lease ran out,
// back to a fresh IN_PROGRESS. Only one caller wins.
func (r *IdempotencyRepository) Reacquire(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	now := r.nowFunc().UTC()
	filter := bson.M{
		"_id": key,
		"$or": bson.A{
			bson.M{"status": models.TxStatusFailed},
			bson.M{"status": models.TxStatusInProgress, "updatedAt": bson.M{"$lt": now.Add(-r.lease)}},
		},
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"status":    models.TxStatusInProgress,
		"updatedAt": now,
	}})
	if err != nil {
		return false, fmt.Errorf("reacquire idempotency record: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// MarkDone stores the gateway order that the attempt produced.
func (r *IdempotencyRepository) MarkDone(ctx context.Context, key string, gw models.GatewayTransaction) error {
	return r.setStatus(ctx, key, bson.M{
		"status":         models.TxStatusDone,
		"gatewayOrderId": gw.GatewayOrderID,
		"amountMinor":    gw.AmountMinor,
		"currency":       gw.Currency,
	})
}

// MarkFailed marks the attempt FAILED so a later retry may reacquire it.
func (r *IdempotencyRepository) MarkFailed(ctx context.Context, key, note string) error {
	return r.setStatus(ctx, key, bson.M{
		"status": models.TxStatusFailed,
		"note":   note,
	})
}

func (r *IdempotencyRepository) setStatus(ctx context.Context, key string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	set["updatedAt"] = r.nowFunc().UTC()
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("update idempotency record (%s): %w", set["status"], err)
	}
	return nil
}
