package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type InvoiceStatus string

const (
	InvoicePaid      InvoiceStatus = "Paid"
	InvoiceCancelled InvoiceStatus = "Cancelled"
	InvoicePending   InvoiceStatus = "Pending"
	InvoiceDueSoon   InvoiceStatus = "Due Soon"
)

type InvoiceItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

// Invoice is derived from an Order on every read and never stored.
type Invoice struct {
	ID         primitive.ObjectID `json:"_id"`
	InvoiceID  string             `json:"invoiceId"`
	Client     string             `json:"client"`
	Email      string             `json:"email"`
	DateIssued string             `json:"dateIssued"`
	DueDate    string             `json:"dueDate"`
	Amount     float64            `json:"amount"`
	Status     InvoiceStatus      `json:"status"`
	Items      []InvoiceItem      `json:"items"`
}

// InvoiceDetail extends Invoice with the fields shown on a single invoice page.
type InvoiceDetail struct {
	Invoice
	Address       string            `json:"address"`
	PaymentStatus TransactionStatus `json:"paymentStatus"`
	OrderStatus   OrderStatus       `json:"orderStatus"`
}
