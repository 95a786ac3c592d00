package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dipanshukale/CraftCrazy/database"
	"github.com/dipanshukale/CraftCrazy/events"
	"github.com/dipanshukale/CraftCrazy/metrics"
	"github.com/dipanshukale/CraftCrazy/models"
	"github.com/dipanshukale/CraftCrazy/utils"
	"github.com/dipanshukale/CraftCrazy/validation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const gatewayKeyPrefix = "gateway-order:"

// AnyVersion skips the optimistic version check on status updates.
const AnyVersion int64 = -1

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	FindByOrderStatus(ctx context.Context, statuses ...models.OrderStatus) ([]models.Order, error)
	FindByTransactionStatus(ctx context.Context, status models.TransactionStatus) ([]models.Order, error)
	SetGatewayOrder(ctx context.Context, id primitive.ObjectID, gatewayOrderID string) (*models.Order, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID, gatewayOrderID, paymentID, signature string) (*models.Order, error)
	MarkFailed(ctx context.Context, id primitive.ObjectID, reason string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, expectedVersion int64) (*models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type IdempotencyStore interface {
	CreateIfNotExists(ctx context.Context, key, orderID string) (bool, error)
	Get(ctx context.Context, key string) (*models.GatewayTransaction, error)
	Reacquire(ctx context.Context, key string) (bool, error)
	MarkDone(ctx context.Context, key string, gw models.GatewayTransaction) error
	MarkFailed(ctx context.Context, key, note string) error
}

type PaymentGateway interface {
	CreateGatewayOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*utils.GatewayOrder, error)
	VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool
	KeyID() string
}

// CreateOrderResult is what the storefront needs to continue checkout.
// Gateway fields are only set for UPI orders.
type CreateOrderResult struct {
	OrderDBID string `json:"orderDBId"`
	OrderID   string `json:"orderId,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
	Currency  string `json:"currency,omitempty"`
	KeyID     string `json:"keyId,omitempty"`
}

type CompleteOrderInput struct {
	OrderDBID      string
	PaymentID      string
	GatewayOrderID string
	Signature      string
}

type OrderService struct {
	store     OrderStore
	idem      IdempotencyStore
	gateway   PaymentGateway
	notifier  events.Notifier
	validator *validation.Validator
	logger    zerolog.Logger
}

func NewOrderService(store OrderStore, idem IdempotencyStore, gateway PaymentGateway, notifier events.Notifier, v *validation.Validator, logger zerolog.Logger) *OrderService {
	return &OrderService{
		store:     store,
		idem:      idem,
		gateway:   gateway,
		notifier:  notifier,
		validator: v,
		logger:    logger.With().Str("component", "order-service").Logger(),
	}
}

// CreateOrder validates and persists an order. UPI orders also get a gateway
// order. When the gateway fails the order stays saved and the returned result
// still carries its id alongside the error.
func (s *OrderService) CreateOrder(ctx context.Context, req validation.CreateOrderRequest) (*CreateOrderResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, invalid("%s", validation.Describe(err))
	}

	order := newOrder(req)
	if err := s.store.Insert(ctx, order); err != nil {
		return nil, storeError("Order", err)
	}
	metrics.OrdersCreated.WithLabelValues(string(order.PaymentMethod)).Inc()

	result := &CreateOrderResult{OrderDBID: order.ID.Hex()}
	log := s.logger.With().Str("order_id", result.OrderDBID).Str("payment_method", string(order.PaymentMethod)).Logger()

	if order.PaymentMethod != models.PaymentUPI {
		log.Info().Msg("order created")
		s.emitOrder(order)
		return result, nil
	}

	gw, updated, err := s.openGatewayOrder(ctx, order)
	if err != nil {
		log.Error().Err(err).Msg("order saved without gateway order")
		s.emitOrder(order)
		return result, err
	}
	s.fillGateway(result, gw)
	log.Info().Str("gateway_order_id", gw.ID).Msg("order created")
	s.emitOrder(updated)
	return result, nil
}

// RetryPayment opens (or returns the existing) gateway order for a saved UPI order.
func (s *OrderService) RetryPayment(ctx context.Context, orderID string) (*CreateOrderResult, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentUPI {
		return nil, invalid("order %s is not paid online", orderID)
	}
	if order.TransactionStatus == models.TransactionSucceeded {
		return nil, newError(ErrConflict, "order %s is already paid", orderID)
	}

	hadGateway := order.RazorpayOrderID != ""
	gw, updated, err := s.openGatewayOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	result := &CreateOrderResult{OrderDBID: order.ID.Hex()}
	s.fillGateway(result, gw)
	if !hadGateway {
		s.emitOrder(updated)
	}
	return result, nil
}

// CompleteOrder captures a payment after checking the gateway signature.
// Replaying the same payment returns the stored order unchanged.
func (s *OrderService) CompleteOrder(ctx context.Context, in CompleteOrderInput) (*models.Order, error) {
	order, err := s.getOrder(ctx, in.OrderDBID)
	if err != nil {
		return nil, err
	}
	if in.PaymentID == "" {
		return nil, invalid("payment id is required")
	}
	if order.RazorpayOrderID == "" {
		return nil, newError(ErrPaymentVerification, "order %s has no gateway order", in.OrderDBID)
	}
	if in.GatewayOrderID != "" && in.GatewayOrderID != order.RazorpayOrderID {
		metrics.PaymentsCaptured.WithLabelValues("rejected").Inc()
		return nil, newError(ErrPaymentVerification, "gateway order does not belong to order %s", in.OrderDBID)
	}
	if !s.gateway.VerifyPaymentSignature(order.RazorpayOrderID, in.PaymentID, in.Signature) {
		metrics.PaymentsCaptured.WithLabelValues("rejected").Inc()
		s.logger.Warn().Str("order_id", in.OrderDBID).Str("payment_id", in.PaymentID).Msg("payment signature mismatch")
		return nil, newError(ErrPaymentVerification, "invalid payment signature")
	}
	if order.TransactionStatus == models.TransactionSucceeded {
		return s.replayedPayment(order, in.PaymentID)
	}

	updated, err := s.store.MarkPaid(ctx, order.ID, order.RazorpayOrderID, in.PaymentID, in.Signature)
	if errors.Is(err, database.ErrConditionFailed) {
		current, ferr := s.store.FindByID(ctx, order.ID)
		if ferr != nil {
			return nil, storeError("Order", ferr)
		}
		return s.replayedPayment(current, in.PaymentID)
	}
	if err != nil {
		return nil, storeError("Order", err)
	}

	metrics.PaymentsCaptured.WithLabelValues("captured").Inc()
	s.logger.Info().Str("order_id", in.OrderDBID).Str("payment_id", in.PaymentID).Msg("payment captured")
	s.emitOrder(updated)
	return updated, nil
}

func (s *OrderService) replayedPayment(order *models.Order, paymentID string) (*models.Order, error) {
	if order.TransactionStatus == models.TransactionSucceeded && order.RazorpayPaymentID == paymentID {
		return order, nil
	}
	return nil, newError(ErrConflict, "order %s is already paid", order.ID.Hex())
}

// FailOrder records a failed payment attempt. Paid orders are never downgraded.
func (s *OrderService) FailOrder(ctx context.Context, orderID, reason string) (*models.Order, error) {
	id, err := database.ParseID(orderID)
	if err != nil {
		return nil, storeError("Order", err)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Payment failed"
	}

	updated, err := s.store.MarkFailed(ctx, id, reason)
	if errors.Is(err, database.ErrConditionFailed) {
		return nil, newError(ErrConflict, "order %s is already paid", orderID)
	}
	if err != nil {
		return nil, storeError("Order", err)
	}

	metrics.PaymentsCaptured.WithLabelValues("failed").Inc()
	s.logger.Info().Str("order_id", orderID).Str("reason", reason).Msg("payment failed")
	s.emitOrder(updated)
	return updated, nil
}

// UpdateOrderStatus applies an admin status change. Any settable status may
// follow any other. An expectedVersion other than AnyVersion rejects stale writers.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, status string, expectedVersion int64) (*models.Order, error) {
	next := models.OrderStatus(status)
	if !next.AdminSettable() {
		return nil, invalid("invalid order status")
	}
	id, err := database.ParseID(orderID)
	if err != nil {
		return nil, storeError("Order", err)
	}

	updated, err := s.store.UpdateStatus(ctx, id, next, expectedVersion)
	if errors.Is(err, database.ErrConditionFailed) {
		return nil, newError(ErrConflict, "order %s changed since version %d", orderID, expectedVersion)
	}
	if err != nil {
		return nil, storeError("Order", err)
	}

	s.logger.Info().Str("order_id", orderID).Str("status", status).Msg("order status updated")
	s.emitOrder(updated)
	return updated, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.getOrder(ctx, orderID)
}

// ListOrders returns every order, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, storeError("Orders", err)
	}
	return orders, nil
}

func (s *OrderService) ListByOrderStatus(ctx context.Context, status string) ([]models.Order, error) {
	st := models.OrderStatus(status)
	if st != models.OrderStatusPending && !st.AdminSettable() {
		return nil, invalid("invalid order status")
	}
	orders, err := s.store.FindByOrderStatus(ctx, st)
	if err != nil {
		return nil, storeError("Orders", err)
	}
	return orders, nil
}

func (s *OrderService) ListByTransactionStatus(ctx context.Context, status string) ([]models.Order, error) {
	st := models.TransactionStatus(status)
	switch st {
	case models.TransactionPending, models.TransactionSucceeded, models.TransactionFailed:
	default:
		return nil, invalid("invalid transaction status")
	}
	orders, err := s.store.FindByTransactionStatus(ctx, st)
	if err != nil {
		return nil, storeError("Orders", err)
	}
	return orders, nil
}

// ListActive returns orders still waiting to ship.
func (s *OrderService) ListActive(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.FindByOrderStatus(ctx, models.OrderStatusPending, models.OrderStatusProcessing)
	if err != nil {
		return nil, storeError("Orders", err)
	}
	return orders, nil
}

// ListCustomers returns one row per customer email, taken from their most
// recent order. Orders without an email are skipped.
func (s *OrderService) ListCustomers(ctx context.Context) ([]models.CustomerSummary, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(orders))
	customers := make([]models.CustomerSummary, 0, len(orders))
	for _, o := range orders {
		email := o.Customer.Email
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		customers = append(customers, models.CustomerSummary{
			ID:        o.ID,
			Name:      o.Customer.Name,
			Email:     email,
			Phone:     o.Customer.Contact,
			Address:   o.Customer.FormattedAddress(),
			CreatedAt: o.CreatedAt,
		})
	}
	return customers, nil
}

// ListLineItems flattens the items of every order, newest order first.
func (s *OrderService) ListLineItems(ctx context.Context) ([]models.OrderItem, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]models.OrderItem, 0, len(orders))
	for _, o := range orders {
		items = append(items, o.Items...)
	}
	return items, nil
}

// DeleteOrder hard-deletes an order. Unknown or malformed ids report false.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	id, err := database.ParseID(orderID)
	if err != nil {
		return false, nil
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, storeError("Order", err)
	}
	if deleted {
		s.logger.Info().Str("order_id", orderID).Msg("order deleted")
		s.notifier.Emit(events.TrendUpdate, nil)
	}
	return deleted, nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID string) (*models.Order, error) {
	id, err := database.ParseID(orderID)
	if err != nil {
		return nil, storeError("Order", err)
	}
	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("Order", err)
	}
	return order, nil
}

// openGatewayOrder creates at most one gateway order per store order, using an
// idempotency record keyed by the order id.
func (s *OrderService) openGatewayOrder(ctx context.Context, order *models.Order) (*utils.GatewayOrder, *models.Order, error) {
	if order.RazorpayOrderID != "" {
		return &utils.GatewayOrder{
			ID:       order.RazorpayOrderID,
			Amount:   minorUnits(order.TotalAmount),
			Currency: order.Currency,
		}, order, nil
	}

	orderID := order.ID.Hex()
	key := gatewayKeyPrefix + orderID

	created, err := s.idem.CreateIfNotExists(ctx, key, orderID)
	if err != nil {
		return nil, nil, storeError("Payment attempt", err)
	}
	if !created {
		rec, err := s.idem.Get(ctx, key)
		if err != nil {
			return nil, nil, storeError("Payment attempt", err)
		}
		switch {
		case rec == nil:
			return nil, nil, newError(ErrConflict, "payment attempt for order %s expired, retry", orderID)
		case rec.Status == models.TxStatusDone:
			gw := &utils.GatewayOrder{ID: rec.GatewayOrderID, Amount: rec.AmountMinor, Currency: rec.Currency}
			updated, err := s.store.SetGatewayOrder(ctx, order.ID, gw.ID)
			if err != nil {
				return nil, nil, storeError("Order", err)
			}
			return gw, updated, nil
		default:
			ok, err := s.idem.Reacquire(ctx, key)
			if err != nil {
				return nil, nil, storeError("Payment attempt", err)
			}
			if !ok {
				return nil, nil, newError(ErrConflict, "payment attempt for order %s is in progress", orderID)
			}
		}
	}

	gw, err := s.gateway.CreateGatewayOrder(ctx, minorUnits(order.TotalAmount), order.Currency, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("gateway order creation failed")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// the gateway call may still land; the attempt lease recovers the record
			return nil, nil, &Error{Kind: ErrUpstream, Message: "payment gateway unavailable, retry payment later"}
		}
		if merr := s.idem.MarkFailed(context.WithoutCancel(ctx), key, err.Error()); merr != nil {
			s.logger.Error().Err(merr).Str("order_id", orderID).Msg("mark payment attempt failed")
		}
		return nil, nil, &Error{Kind: ErrUpstream, Message: "payment gateway unavailable, retry payment later"}
	}

	updated, err := s.store.SetGatewayOrder(ctx, order.ID, gw.ID)
	if err != nil {
		_ = s.idem.MarkFailed(context.WithoutCancel(ctx), key, err.Error())
		return nil, nil, storeError("Order", err)
	}
	if err := s.idem.MarkDone(ctx, key, models.GatewayTransaction{
		GatewayOrderID: gw.ID,
		AmountMinor:    gw.Amount,
		Currency:       gw.Currency,
	}); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("mark payment attempt done")
	}
	return gw, updated, nil
}

func (s *OrderService) fillGateway(r *CreateOrderResult, gw *utils.GatewayOrder) {
	r.OrderID = gw.ID
	r.Amount = gw.Amount
	r.Currency = gw.Currency
	r.KeyID = s.gateway.KeyID()
}

func (s *OrderService) emitOrder(order *models.Order) {
	s.notifier.Emit(events.OrderUpdated, order)
	s.notifier.Emit(events.TrendUpdate, nil)
}

func newOrder(req validation.CreateOrderRequest) *models.Order {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.OrderItem{
			ProductID:     it.ProductID,
			Name:          it.Name,
			Price:         it.Price,
			Quantity:      it.Quantity,
			Customization: it.Customization,
		})
	}
	c := req.Customer
	return &models.Order{
		Customer: models.Customer{
			Name:      strings.TrimSpace(c.Name),
			Email:     strings.ToLower(strings.TrimSpace(c.Email)),
			Contact:   strings.TrimSpace(c.Contact),
			Address:   strings.TrimSpace(c.Address),
			Apartment: strings.TrimSpace(c.Apartment),
			City:      strings.TrimSpace(c.City),
			State:     strings.TrimSpace(c.State),
			Pincode:   strings.TrimSpace(c.Pincode),
		},
		Items:             items,
		TotalAmount:       req.TotalAmount,
		Currency:          currency,
		PaymentMethod:     models.PaymentMethod(req.PaymentMethod),
		OrderStatus:       models.OrderStatusPending,
		TransactionStatus: models.TransactionPending,
	}
}

// minorUnits converts a major-unit amount to paise, rounding half away from zero.
func minorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
