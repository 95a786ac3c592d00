package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ProductID string             `bson:"productId" json:"productId"`
	VariantID string             `bson:"variantId,omitempty" json:"variantId,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Comment   string             `bson:"comment" json:"comment"`
	Rating    float64            `bson:"rating" json:"rating"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Date      time.Time          `bson:"date" json:"date"`
}

// ProductReviews is the storefront view of one product's reviews.
type ProductReviews struct {
	Reviews       []Review `json:"reviews"`
	ReviewCount   int64    `json:"reviewCount"`
	AverageRating float64  `json:"averageRating"`
}

// ReviewStats is the aggregate over every review of a product.
type ReviewStats struct {
	Count         int64   `bson:"count"`
	AverageRating float64 `bson:"avgRating"`
}
