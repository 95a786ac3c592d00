package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dipanshukale/CraftCrazy/metrics"
	"github.com/razorpay/razorpay-go"
	rzputils "github.com/razorpay/razorpay-go/utils"
)

var (
	ErrMissingCredentials = errors.New("razorpay credentials are not configured")
	ErrGateway            = errors.New("payment gateway error")
)

// GatewayOrder is the subset of a Razorpay order the checkout needs.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
}

// orderCreator is satisfied by the razorpay-go Order resource.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type PaymentProcessor struct {
	orders orderCreator
	keyID  string
	secret string
}

func NewPaymentProcessor(keyID, secret string) (*PaymentProcessor, error) {
	if keyID == "" || secret == "" {
		return nil, ErrMissingCredentials
	}
	client := razorpay.NewClient(keyID, secret)
	return &PaymentProcessor{
		orders: client.Order,
		keyID:  keyID,
		secret: secret,
	}, nil
}

// KeyID is the public key the storefront passes to Razorpay checkout.
func (p *PaymentProcessor) KeyID() string { return p.keyID }

// CreateGatewayOrder opens a Razorpay order for amountMinor (paise for INR).
func (p *PaymentProcessor) CreateGatewayOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if amountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %d", ErrGateway, amountMinor)
	}

	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := p.orders.Create(data, nil)
		done <- result{body, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		metrics.GatewayRequests.WithLabelValues("create_order", "cancelled").Inc()
		return nil, ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		metrics.GatewayRequests.WithLabelValues("create_order", "error").Inc()
		return nil, fmt.Errorf("%w: create order: %v", ErrGateway, res.err)
	}

	id, _ := res.body["id"].(string)
	if id == "" {
		metrics.GatewayRequests.WithLabelValues("create_order", "error").Inc()
		return nil, fmt.Errorf("%w: create order: response has no id", ErrGateway)
	}
	metrics.GatewayRequests.WithLabelValues("create_order", "ok").Inc()

	order := &GatewayOrder{ID: id, Amount: amountMinor, Currency: currency}
	if amt, ok := toInt64(res.body["amount"]); ok {
		order.Amount = amt
	}
	if cur, ok := res.body["currency"].(string); ok && cur != "" {
		order.Currency = cur
	}
	return order, nil
}

// VerifyPaymentSignature checks HMAC_SHA256(orderID + "|" + paymentID) against signature.
func (p *PaymentProcessor) VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool {
	if gatewayOrderID == "" || paymentID == "" || signature == "" {
		metrics.GatewayRequests.WithLabelValues("verify_signature", "rejected").Inc()
		return false
	}
	ok := rzputils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   gatewayOrderID,
		"razorpay_payment_id": paymentID,
	}, signature, p.secret)
	if ok {
		metrics.GatewayRequests.WithLabelValues("verify_signature", "ok").Inc()
	} else {
		metrics.GatewayRequests.WithLabelValues("verify_signature", "rejected").Inc()
	}
	return ok
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}
