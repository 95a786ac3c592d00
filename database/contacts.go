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

type ContactRepository struct {
	coll    *mongo.Collection
	nowFunc func() time.Time
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{
		coll:    db.Collection(ContactsCollection),
		nowFunc: time.Now,
	}
}

func (r *ContactRepository) Insert(ctx context.Context, contact *models.Contact) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	now := r.nowFunc().UTC()
	if contact.ID.IsZero() {
		contact.ID = primitive.NewObjectID()
	}
	contact.CreatedAt = now
	contact.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, contact); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) FindAll(ctx context.Context) ([]models.Contact, error) {
	contacts, err := findAll[models.Contact](ctx, r.coll, bson.M{}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ContactStatus) (*models.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": r.nowFunc().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var contact models.Contact
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&contact); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return &contact, nil
}
