package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dipanshukale/CraftCrazy/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository persists orders. Every mutation is a single guarded
// FindOneAndUpdate so concurrent writers never overwrite each other.
type OrderRepository struct {
	coll    *mongo.Collection
	nowFunc func() time.Time
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		coll:    db.Collection(OrdersCollection),
		nowFunc: time.Now,
	}
}

// Insert stores a new order, assigning its id and timestamps.
func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	now := r.nowFunc().UTC()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Version = 0

	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := findOne[models.Order](ctx, r.coll, bson.M{"_id": id})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, err
}

// FindAll returns every order, newest first.
func (r *OrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	orders, err := findAll[models.Order](ctx, r.coll, bson.M{}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// FindByOrderStatus returns orders in any of the given statuses, newest first.
func (r *OrderRepository) FindByOrderStatus(ctx context.Context, statuses ...models.OrderStatus) ([]models.Order, error) {
	orders, err := findAll[models.Order](ctx, r.coll, bson.M{"orderStatus": bson.M{"$in": statuses}}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list orders by status: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) FindByTransactionStatus(ctx context.Context, status models.TransactionStatus) ([]models.Order, error) {
	orders, err := findAll[models.Order](ctx, r.coll, bson.M{"transactionStatus": status}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list orders by transaction status: %w", err)
	}
	return orders, nil
}

// SetGatewayOrder records the gateway order id. It only applies while the order
// has none yet, or already holds the same id.
func (r *OrderRepository) SetGatewayOrder(ctx context.Context, id primitive.ObjectID, gatewayOrderID string) (*models.Order, error) {
	filter := bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"razorPayOrderId": bson.M{"$exists": false}},
			bson.M{"razorPayOrderId": ""},
			bson.M{"razorPayOrderId": gatewayOrderID},
		},
	}
	return r.guardedUpdate(ctx, id, filter, bson.M{"razorPayOrderId": gatewayOrderID})
}

// MarkPaid captures a verified payment. The update is skipped when the order
// already succeeded or belongs to a different gateway order.
func (r *OrderRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, gatewayOrderID, paymentID, signature string) (*models.Order, error) {
	filter := bson.M{
		"_id":               id,
		"razorPayOrderId":   gatewayOrderID,
		"transactionStatus": bson.M{"$ne": models.TransactionSucceeded},
	}
	return r.guardedUpdate(ctx, id, filter, bson.M{
		"razorpayPaymentId":    paymentID,
		"razorpaySignature":    signature,
		"transactionStatus":    models.TransactionSucceeded,
		"orderStatus":          models.OrderStatusProcessing,
		"paymentFailureReason": "",
	})
}

// MarkFailed records a failed payment attempt unless the order is already paid.
func (r *OrderRepository) MarkFailed(ctx context.Context, id primitive.ObjectID, reason string) (*models.Order, error) {
	filter := bson.M{
		"_id":               id,
		"transactionStatus": bson.M{"$ne": models.TransactionSucceeded},
	}
	return r.guardedUpdate(ctx, id, filter, bson.M{
		"transactionStatus":    models.TransactionFailed,
		"paymentFailureReason": reason,
	})
}

// UpdateStatus sets orderStatus. A non-negative expectedVersion makes the
// write conditional on the stored __v.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, expectedVersion int64) (*models.Order, error) {
	filter := bson.M{"_id": id}
	if expectedVersion >= 0 {
		filter["__v"] = expectedVersion
	}
	return r.guardedUpdate(ctx, id, filter, bson.M{"orderStatus": status})
}

func (r *OrderRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	deleted, err := deleteByID(ctx, r.coll, id)
	if err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}
	return deleted, nil
}

func (r *OrderRepository) guardedUpdate(ctx context.Context, id primitive.ObjectID, filter bson.M, set bson.M) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	set["updatedAt"] = r.nowFunc().UTC()
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"__v": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update order: %w", err)
	}

	// Nothing matched: tell a missing order apart from a failed guard.
	n, cerr := r.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if cerr != nil {
		return nil, fmt.Errorf("update order: %w", cerr)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrConditionFailed
}
