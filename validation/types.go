package validation

import (
	"encoding/json"

	"github.com/dipanshukale/CraftCrazy/utils"
)

type CustomerInput struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Contact   string `json:"contact" validate:"required"`
	Address   string `json:"address" validate:"required"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Pincode   string `json:"pincode" validate:"required"`
}

// ItemInput is a single cart line as sent by the storefront.
type ItemInput struct {
	ProductID     string  `json:"productId" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Price         float64 `json:"price" validate:"gte=0"`
	Quantity      int     `json:"quantity" validate:"required,min=1"`
	Customization string  `json:"customization,omitempty"`
}

// CreateOrderRequest is the payload for POST /api/order/createOrder.
type CreateOrderRequest struct {
	Customer      CustomerInput `json:"customer" validate:"required"`
	Items         []ItemInput   `json:"items" validate:"required,min=1,dive"`
	TotalAmount   float64       `json:"totalAmount" validate:"gte=0"`
	Currency      string        `json:"currency,omitempty" validate:"omitempty,len=3"`
	PaymentMethod string        `json:"paymentMethod" validate:"required,oneof=UPI CASH CARD"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type ContactStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending resolved"`
}

// DemandRequest arrives as JSON or as the storefront's form post.
type DemandRequest struct {
	Name          string `json:"name" form:"name" validate:"required"`
	Email         string `json:"email" form:"email" validate:"required,email"`
	Phone         string `json:"phone" form:"phone" validate:"required"`
	Product       string `json:"product" form:"product" validate:"required"`
	Customization string `json:"customization" form:"customization"`
	ImageURL      string `json:"imageUrl" form:"imageUrl" validate:"required,url"`
}

type ReviewRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	VariantID string  `json:"variantId"`
	Name      string  `json:"name" validate:"required"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Title     string  `json:"title"`
	Comment   string  `json:"comment" validate:"required"`
	Rating    float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Image     string  `json:"image" validate:"omitempty,url"`
}

type ProductRequest struct {
	Name                   string   `json:"name" validate:"required"`
	Description            string   `json:"description"`
	Price                  float64  `json:"price" validate:"gt=0"`
	Rating                 float64  `json:"rating" validate:"gte=0,lte=5"`
	Reviews                int      `json:"reviews" validate:"gte=0"`
	Discount               float64  `json:"discount" validate:"gte=0,lte=100"`
	Highlight              string   `json:"highlight"`
	Category               string   `json:"category" validate:"required"`
	Tags                   Tags     `json:"tags"`
	Brand                  string   `json:"brand"`
	Seller                 string   `json:"seller"`
	InStock                *bool    `json:"inStock"`
	Warranty               string   `json:"warranty"`
	ReturnPolicy           string   `json:"returnPolicy"`
	ImageURL               []string `json:"imageUrl" validate:"required,min=1,dive,url"`
	Occasion               string   `json:"occasion"`
	Material               string   `json:"material"`
	Dimensions             string   `json:"dimensions"`
	Weight                 string   `json:"weight"`
	CareInstructions       string   `json:"careInstructions"`
	MaxOrderQuantity       int      `json:"maxOrderQuantity" validate:"gte=0"`
	DeliveryType           string   `json:"deliveryType"`
	DeliveryAvailability   string   `json:"deliveryAvailability"`
	DeliveryEstimated      string   `json:"deliveryEstimated"`
	CustomizationAvailable bool     `json:"customizationAvailable"`
	CustomizationOptions   []string `json:"customizationOptions"`
}

// Tags accepts either a JSON array or a comma separated string.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = utils.SplitTags(raw)
	return nil
}
