package database

import (
	"context"
	"testing"
	"time"

	"github.com/dipanshukale/CraftCrazy/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func orderRepo(mt *mtest.T) *OrderRepository {
	return &OrderRepository{coll: mt.Coll, nowFunc: func() time.Time { return fixedNow }}
}

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := ParseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrNotFound, bad)
	}
}

func TestOrderRepository_Insert(t *testing.T) {
	mt := newMock(t)

	mt.Run("assigns id and timestamps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		order := &models.Order{Version: 7}

		require.NoError(mt, orderRepo(mt).Insert(context.Background(), order))
		assert.False(mt, order.ID.IsZero())
		assert.Equal(mt, fixedNow, order.CreatedAt)
		assert.Equal(mt, fixedNow, order.UpdatedAt)
		assert.Zero(mt, order.Version)
	})
}

func TestOrderRepository_FindByID(t *testing.T) {
	mt := newMock(t)

	mt.Run("found", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "orderStatus", Value: "Pending"},
			{Key: "__v", Value: int64(2)},
		}))

		got, err := orderRepo(mt).FindByID(context.Background(), id)
		require.NoError(mt, err)
		assert.Equal(mt, id, got.ID)
		assert.Equal(mt, models.OrderStatusPending, got.OrderStatus)
		assert.Equal(mt, int64(2), got.Version)
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := orderRepo(mt).FindByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestOrderRepository_GuardedUpdate(t *testing.T) {
	mt := newMock(t)
	id := primitive.NewObjectID()

	mt.Run("applied", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "orderStatus", Value: "Shipped"},
			{Key: "__v", Value: int64(4)},
		}}))

		got, err := orderRepo(mt).UpdateStatus(context.Background(), id, models.OrderStatusShipped, 3)
		require.NoError(mt, err)
		assert.Equal(mt, models.OrderStatusShipped, got.OrderStatus)
		assert.Equal(mt, int64(4), got.Version)
	})

	mt.Run("guard failed", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		_, err := orderRepo(mt).MarkPaid(context.Background(), id, "order_gw1", "pay_1", "sig")
		assert.ErrorIs(mt, err, ErrConditionFailed)
	})

	mt.Run("missing order", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
		)

		_, err := orderRepo(mt).MarkFailed(context.Background(), id, "declined")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestIdempotencyRepository_CreateIfNotExists(t *testing.T) {
	mt := newMock(t)

	repo := func(mt *mtest.T) *IdempotencyRepository {
		return &IdempotencyRepository{coll: mt.Coll, ttlWindow: time.Hour, nowFunc: func() time.Time { return fixedNow }}
	}

	mt.Run("created", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := repo(mt).CreateIfNotExists(context.Background(), "gateway-order:abc", "abc")
		require.NoError(mt, err)
		assert.True(mt, created)
	})

	mt.Run("duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		created, err := repo(mt).CreateIfNotExists(context.Background(), "gateway-order:abc", "abc")
		require.NoError(mt, err)
		assert.False(mt, created)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		rec, err := repo(mt).Get(context.Background(), "gateway-order:none")
		require.NoError(mt, err)
		assert.Nil(mt, rec)
	})
}

func TestIdempotencyRepository_Reacquire(t *testing.T) {
	mt := newMock(t)

	repo := func(mt *mtest.T) *IdempotencyRepository {
		return &IdempotencyRepository{coll: mt.Coll, ttlWindow: time.Hour, lease: AttemptLease, nowFunc: func() time.Time { return fixedNow }}
	}

	mt.Run("failed or stale attempt", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		ok, err := repo(mt).Reacquire(context.Background(), "gateway-order:abc")
		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("live attempt", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		ok, err := repo(mt).Reacquire(context.Background(), "gateway-order:abc")
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestContactRepository_UpdateStatusMissing(t *testing.T) {
	mt := newMock(t)

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))
		repo := &ContactRepository{coll: mt.Coll, nowFunc: func() time.Time { return fixedNow }}

		_, err := repo.UpdateStatus(context.Background(), primitive.NewObjectID(), models.ContactResolved)
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestReviewRepository_StatsByProduct(t *testing.T) {
	mt := newMock(t)

	repo := func(mt *mtest.T) *ReviewRepository {
		return &ReviewRepository{coll: mt.Coll, nowFunc: func() time.Time { return fixedNow }}
	}

	mt.Run("reviewed product", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "p1"},
			{Key: "count", Value: int32(3)},
			{Key: "avgRating", Value: 4.5},
		}))

		stats, err := repo(mt).StatsByProduct(context.Background(), "p1")
		require.NoError(mt, err)
		assert.Equal(mt, models.ReviewStats{Count: 3, AverageRating: 4.5}, stats)
	})

	mt.Run("no reviews", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		stats, err := repo(mt).StatsByProduct(context.Background(), "p2")
		require.NoError(mt, err)
		assert.Zero(mt, stats)
	})

	mt.Run("insert dates the review", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		review := &models.Review{ProductID: "p1", Name: "Kavya", Comment: "Nice", Rating: 4}

		require.NoError(mt, repo(mt).Insert(context.Background(), review))
		assert.False(mt, review.ID.IsZero())
		assert.Equal(mt, fixedNow, review.Date)
	})
}
