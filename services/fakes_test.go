package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dipanshukale/CraftCrazy/database"
	"github.com/dipanshukale/CraftCrazy/models"
	"github.com/dipanshukale/CraftCrazy/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memOrderStore mimics the guarded updates of database.OrderRepository.
type memOrderStore struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]models.Order
	now    time.Time
	calls  []string

	insertErr error
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{
		orders: make(map[primitive.ObjectID]models.Order),
		now:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (m *memOrderStore) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *memOrderStore) tick() time.Time {
	m.now = m.now.Add(time.Minute)
	return m.now
}

func (m *memOrderStore) put(o models.Order) models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = m.tick()
	}
	m.orders[o.ID] = o
	return o
}

func (m *memOrderStore) get(id primitive.ObjectID) models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

func (m *memOrderStore) Insert(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Insert")
	if m.insertErr != nil {
		return m.insertErr
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	order.CreatedAt = m.tick()
	order.UpdatedAt = order.CreatedAt
	m.orders[order.ID] = *order
	return nil
}

func (m *memOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindByID")
	o, ok := m.orders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &o, nil
}

func (m *memOrderStore) list(keep func(models.Order) bool) []models.Order {
	out := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memOrderStore) FindAll(context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindAll")
	return m.list(func(models.Order) bool { return true }), nil
}

func (m *memOrderStore) FindByOrderStatus(_ context.Context, statuses ...models.OrderStatus) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindByOrderStatus")
	return m.list(func(o models.Order) bool {
		for _, s := range statuses {
			if o.OrderStatus == s {
				return true
			}
		}
		return false
	}), nil
}

func (m *memOrderStore) FindByTransactionStatus(_ context.Context, status models.TransactionStatus) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindByTransactionStatus")
	return m.list(func(o models.Order) bool { return o.TransactionStatus == status }), nil
}

func (m *memOrderStore) update(id primitive.ObjectID, guard func(models.Order) bool, apply func(*models.Order)) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if !guard(o) {
		return nil, database.ErrConditionFailed
	}
	apply(&o)
	o.Version++
	o.UpdatedAt = m.tick()
	m.orders[id] = o
	return &o, nil
}

func (m *memOrderStore) SetGatewayOrder(_ context.Context, id primitive.ObjectID, gatewayOrderID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetGatewayOrder")
	return m.update(id,
		func(o models.Order) bool { return o.RazorpayOrderID == "" || o.RazorpayOrderID == gatewayOrderID },
		func(o *models.Order) { o.RazorpayOrderID = gatewayOrderID })
}

func (m *memOrderStore) MarkPaid(_ context.Context, id primitive.ObjectID, gatewayOrderID, paymentID, signature string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("MarkPaid")
	return m.update(id,
		func(o models.Order) bool {
			return o.RazorpayOrderID == gatewayOrderID && o.TransactionStatus != models.TransactionSucceeded
		},
		func(o *models.Order) {
			o.RazorpayPaymentID = paymentID
			o.RazorpaySignature = signature
			o.TransactionStatus = models.TransactionSucceeded
			o.OrderStatus = models.OrderStatusProcessing
			o.PaymentFailureReason = ""
		})
}

func (m *memOrderStore) MarkFailed(_ context.Context, id primitive.ObjectID, reason string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("MarkFailed")
	return m.update(id,
		func(o models.Order) bool { return o.TransactionStatus != models.TransactionSucceeded },
		func(o *models.Order) {
			o.TransactionStatus = models.TransactionFailed
			o.PaymentFailureReason = reason
		})
}

func (m *memOrderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus, expectedVersion int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateStatus")
	return m.update(id,
		func(o models.Order) bool { return expectedVersion < 0 || o.Version == expectedVersion },
		func(o *models.Order) { o.OrderStatus = status })
}

func (m *memOrderStore) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Delete")
	if _, ok := m.orders[id]; !ok {
		return false, nil
	}
	delete(m.orders, id)
	return true, nil
}

func (m *memOrderStore) writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.calls {
		if !strings.HasPrefix(c, "Find") {
			out = append(out, c)
		}
	}
	return out
}

type memIdempotencyStore struct {
	mu      sync.Mutex
	records map[string]models.GatewayTransaction
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{records: make(map[string]models.GatewayTransaction)}
}

func (m *memIdempotencyStore) CreateIfNotExists(_ context.Context, key, orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[key]; ok {
		return false, nil
	}
	now := time.Now()
	m.records[key] = models.GatewayTransaction{Key: key, OrderID: orderID, Status: models.TxStatusInProgress, CreatedAt: now, UpdatedAt: now}
	return true, nil
}

func (m *memIdempotencyStore) Get(_ context.Context, key string) (*models.GatewayTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memIdempotencyStore) Reacquire(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	if !ok {
		return false, nil
	}
	stale := rec.Status == models.TxStatusInProgress && rec.UpdatedAt.Before(time.Now().Add(-database.AttemptLease))
	if rec.Status != models.TxStatusFailed && !stale {
		return false, nil
	}
	rec.Status = models.TxStatusInProgress
	rec.UpdatedAt = time.Now()
	m.records[key] = rec
	return true, nil
}

func (m *memIdempotencyStore) MarkDone(_ context.Context, key string, gw models.GatewayTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.records[key]
	rec.Status = models.TxStatusDone
	rec.GatewayOrderID = gw.GatewayOrderID
	rec.AmountMinor = gw.AmountMinor
	rec.Currency = gw.Currency
	m.records[key] = rec
	return nil
}

func (m *memIdempotencyStore) MarkFailed(_ context.Context, key, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.records[key]
	rec.Status = models.TxStatusFailed
	rec.Note = note
	m.records[key] = rec
	return nil
}

type createCall struct {
	AmountMinor int64
	Currency    string
	Receipt     string
}

// fakeGateway accepts signatures of the form "sig:<order>|<payment>".
type fakeGateway struct {
	mu        sync.Mutex
	creates   []createCall
	verifies  int
	createErr error
	nextID    int
}

func (g *fakeGateway) CreateGatewayOrder(_ context.Context, amountMinor int64, currency, receipt string) (*utils.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.creates = append(g.creates, createCall{amountMinor, currency, receipt})
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.nextID++
	return &utils.GatewayOrder{ID: fmt.Sprintf("order_gw%d", g.nextID), Amount: amountMinor, Currency: currency}, nil
}

func (g *fakeGateway) VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifies++
	return signature == validSignature(gatewayOrderID, paymentID)
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func (g *fakeGateway) createCalls() []createCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]createCall(nil), g.creates...)
}

func validSignature(gatewayOrderID, paymentID string) string {
	return "sig:" + gatewayOrderID + "|" + paymentID
}

type emitted struct {
	Event   string
	Payload any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []emitted
}

func (r *recordingNotifier) Emit(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{event, payload})
}

func (r *recordingNotifier) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Event)
	}
	return out
}

func (r *recordingNotifier) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

var errBoom = errors.New("boom")
