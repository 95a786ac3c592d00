package services

import (
	"context"
	"strings"

	"github.com/dipanshukale/CraftCrazy/database"
	"github.com/dipanshukale/CraftCrazy/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	invoiceDateLayout = "2006-01-02"
	invoiceDueDays    = 7
)

// InvoiceSource is the read side of the order store.
type InvoiceSource interface {
	FindAll(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
}

type InvoiceService struct {
	orders InvoiceSource
}

func NewInvoiceService(orders InvoiceSource) *InvoiceService {
	return &InvoiceService{orders: orders}
}

// List projects every order into an invoice, newest first.
func (s *InvoiceService) List(ctx context.Context) ([]models.Invoice, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, storeError("Invoices", err)
	}
	out := make([]models.Invoice, 0, len(orders))
	for i := range orders {
		out = append(out, ProjectInvoice(&orders[i]))
	}
	return out, nil
}

func (s *InvoiceService) Get(ctx context.Context, id string) (*models.InvoiceDetail, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return nil, storeError("Invoice", err)
	}
	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		return nil, storeError("Invoice", err)
	}
	detail := ProjectInvoiceDetail(order)
	return &detail, nil
}

// ProjectInvoice derives the invoice view of an order. It has no side effects.
func ProjectInvoice(o *models.Order) models.Invoice {
	hex := o.ID.Hex()
	created := o.CreatedAt.UTC()

	items := make([]models.InvoiceItem, 0, len(o.Items))
	for _, it := range o.Items {
		total := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, models.InvoiceItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Total:    total.InexactFloat64(),
		})
	}

	return models.Invoice{
		ID:         o.ID,
		InvoiceID:  "INV-" + strings.ToUpper(hex[len(hex)-6:]),
		Client:     o.Customer.Name,
		Email:      o.Customer.Email,
		DateIssued: created.Format(invoiceDateLayout),
		DueDate:    created.AddDate(0, 0, invoiceDueDays).Format(invoiceDateLayout),
		Amount:     o.TotalAmount,
		Status:     InvoiceStatusOf(o),
		Items:      items,
	}
}

// ProjectInvoiceDetail adds the street address and raw statuses to the list projection.
func ProjectInvoiceDetail(o *models.Order) models.InvoiceDetail {
	return models.InvoiceDetail{
		Invoice:       ProjectInvoice(o),
		Address:       o.Customer.Address,
		PaymentStatus: o.TransactionStatus,
		OrderStatus:   o.OrderStatus,
	}
}

// InvoiceStatusOf applies Paid > Cancelled > Pending > Due Soon.
func InvoiceStatusOf(o *models.Order) models.InvoiceStatus {
	switch {
	case o.TransactionStatus == models.TransactionSucceeded:
		return models.InvoicePaid
	case o.OrderStatus == models.OrderStatusCancelled:
		return models.InvoiceCancelled
	case o.OrderStatus == models.OrderStatusPending:
		return models.InvoicePending
	default:
		return models.InvoiceDueSoon
	}
}
