package models

import (
	"time"
)

// Status values for gateway transaction records
const (
	TxStatusInProgress = "IN_PROGRESS"
	TxStatusDone       = "DONE"
	TxStatusFailed     = "FAILED"
)

// GatewayTransaction is the idempotency record kept per gateway-order attempt.
// Key is "gateway-order:<order id>".
type GatewayTransaction struct {
	Key            string    `bson:"_id"`
	Status         string    `bson:"status"`
	OrderID        string    `bson:"orderId"`
	GatewayOrderID string    `bson:"gatewayOrderId,omitempty"`
	AmountMinor    int64     `bson:"amountMinor,omitempty"`
	Currency       string    `bson:"currency,omitempty"`
	Note           string    `bson:"note,omitempty"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
	ExpiresAt      time.Time `bson:"expiresAt"`
}
