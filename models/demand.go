package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Demand is a request for a customised piece that is not in the catalog.
type Demand struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone" json:"phone"`
	Product       string             `bson:"product" json:"product"`
	Customization string             `bson:"customization,omitempty" json:"customization,omitempty"`
	ImageURL      string             `bson:"imageUrl" json:"imageUrl"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
