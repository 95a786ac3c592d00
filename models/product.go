package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name                   string             `bson:"name" json:"name"`
	Description            string             `bson:"description,omitempty" json:"description,omitempty"`
	Price                  float64            `bson:"price" json:"price"`
	Rating                 float64            `bson:"rating" json:"rating"`
	Reviews                int                `bson:"reviews" json:"reviews"`
	Discount               float64            `bson:"discount" json:"discount"`
	Highlight              string             `bson:"highlight,omitempty" json:"highlight,omitempty"`
	Category               string             `bson:"category" json:"category"`
	Tags                   []string           `bson:"tags" json:"tags"`
	Brand                  string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Seller                 string             `bson:"seller,omitempty" json:"seller,omitempty"`
	InStock                bool               `bson:"inStock" json:"inStock"`
	Warranty               string             `bson:"warranty,omitempty" json:"warranty,omitempty"`
	ReturnPolicy           string             `bson:"returnPolicy,omitempty" json:"returnPolicy,omitempty"`
	ImageURL               []string           `bson:"imageUrl" json:"imageUrl"`
	Occasion               string             `bson:"occasion,omitempty" json:"occasion,omitempty"`
	Material               string             `bson:"material,omitempty" json:"material,omitempty"`
	Dimensions             string             `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Weight                 string             `bson:"weight,omitempty" json:"weight,omitempty"`
	CareInstructions       string             `bson:"careInstructions,omitempty" json:"careInstructions,omitempty"`
	MaxOrderQuantity       int                `bson:"maxOrderQuantity" json:"maxOrderQuantity"`
	DeliveryType           string             `bson:"deliveryType,omitempty" json:"deliveryType,omitempty"`
	DeliveryAvailability   string             `bson:"deliveryAvailability,omitempty" json:"deliveryAvailability,omitempty"`
	DeliveryEstimated      string             `bson:"deliveryEstimated,omitempty" json:"deliveryEstimated,omitempty"`
	CustomizationAvailable bool               `bson:"customizationAvailable" json:"customizationAvailable"`
	CustomizationOptions   []string           `bson:"customizationOptions,omitempty" json:"customizationOptions,omitempty"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SearchHit is the compact shape returned by product search.
type SearchHit struct {
	ID       primitive.ObjectID `json:"_id"`
	Name     string             `json:"name"`
	Category string             `json:"category"`
	Price    float64            `json:"price"`
	Type     string             `json:"type"`
}
