package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// AdminSettable reports whether an administrator may move an order to s.
// Pending is only ever assigned at creation.
func (s OrderStatus) AdminSettable() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "Payment Pending"
	TransactionSucceeded TransactionStatus = "Payment Succeed"
	TransactionFailed    TransactionStatus = "Payment Failed"
)

type PaymentMethod string

const (
	PaymentUPI  PaymentMethod = "UPI"
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)

const DefaultCurrency = "INR"

type Customer struct {
	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	Contact   string `bson:"contact" json:"contact"`
	Address   string `bson:"address" json:"address"`
	Apartment string `bson:"apartment,omitempty" json:"apartment,omitempty"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Pincode   string `bson:"pincode" json:"pincode"`
}

// FormattedAddress renders "<address>, <apartment> <city>, <state> - <pincode>".
func (c Customer) FormattedAddress() string {
	return strings.TrimSpace(c.Address + ", " + c.Apartment + " " + c.City + ", " + c.State + " - " + c.Pincode)
}

type OrderItem struct {
	ProductID     string  `bson:"productId" json:"productId"`
	Name          string  `bson:"name" json:"name"`
	Price         float64 `bson:"price" json:"price"`
	Quantity      int     `bson:"quantity" json:"quantity"`
	Customization string  `bson:"customization,omitempty" json:"customization,omitempty"`
}

type Order struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Customer             Customer           `bson:"customer" json:"customer"`
	Items                []OrderItem        `bson:"items" json:"items"`
	TotalAmount          float64            `bson:"totalAmount" json:"totalAmount"`
	Currency             string             `bson:"currency" json:"currency"`
	PaymentMethod        PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	RazorpayOrderID      string             `bson:"razorPayOrderId,omitempty" json:"razorPayOrderId,omitempty"`
	RazorpayPaymentID    string             `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`
	RazorpaySignature    string             `bson:"razorpaySignature,omitempty" json:"razorpaySignature,omitempty"`
	PaymentFailureReason string             `bson:"paymentFailureReason,omitempty" json:"paymentFailureReason,omitempty"`
	OrderStatus          OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	TransactionStatus    TransactionStatus  `bson:"transactionStatus" json:"transactionStatus"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
	Version              int64              `bson:"__v" json:"__v"`
}

// CustomerSummary is one row of the admin customer list.
type CustomerSummary struct {
	ID        primitive.ObjectID `json:"_id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
	Address   string             `json:"address"`
	CreatedAt time.Time          `json:"createdAt"`
}
