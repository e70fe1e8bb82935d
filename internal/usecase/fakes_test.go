package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"medimart-backend/internal/domain"
	"medimart-backend/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

// --- order repository fake ---

type memOrderRepo struct {
	mu         sync.Mutex
	orders     map[string]*domain.Order
	failCreate bool
	getCalls   int

	statusUpdates        int
	paymentStatusUpdates int
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[string]*domain.Order{}}
}

func (r *memOrderRepo) put(o *domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	r.orders[o.ID] = o
}

func (r *memOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	if r.failCreate {
		return errors.New("connection refused")
	}
	r.put(order)
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	order, ok := r.orders[id]
	if !ok {
		return nil, errors.New("order not found")
	}
	return order, nil
}

func (r *memOrderRepo) GetByUserID(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) GetAll(_ context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	order.Status = status
	r.statusUpdates++
	return nil
}

func (r *memOrderRepo) UpdatePaymentStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	order.PaymentStatus = status
	r.paymentStatusUpdates++
	return nil
}

func (r *memOrderRepo) GetByStatuses(_ context.Context, statuses []string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		for _, s := range statuses {
			if o.Status == s {
				out = append(out, *o)
				break
			}
		}
	}
	return out, nil
}

func (r *memOrderRepo) GetStalePending(_ context.Context, cutoff time.Time) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.Status == domain.OrderStatusPending && o.CreatedAt.Before(cutoff) {
			out = append(out, *o)
		}
	}
	return out, nil
}

// --- tracking repository fake ---

type memTrackingRepo struct {
	mu     sync.Mutex
	events map[string][]domain.ShipmentTrackingEvent
}

func newMemTrackingRepo() *memTrackingRepo {
	return &memTrackingRepo{events: map[string][]domain.ShipmentTrackingEvent{}}
}

func (r *memTrackingRepo) Append(_ context.Context, event *domain.ShipmentTrackingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	r.events[event.OrderID] = append(r.events[event.OrderID], *event)
	return nil
}

// GetByOrderID returns newest first, matching the real repository.
func (r *memTrackingRepo) GetByOrderID(_ context.Context, orderID string) ([]domain.ShipmentTrackingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.events[orderID]
	out := make([]domain.ShipmentTrackingEvent, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}

func (r *memTrackingRepo) count(orderID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events[orderID])
}

// --- payment repository fake ---

type memPaymentRepo struct {
	mu      sync.Mutex
	records map[string]*domain.PaymentRecord // by id
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{records: map[string]*domain.PaymentRecord{}}
}

func (r *memPaymentRepo) Create(_ context.Context, rec *domain.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *rec
	r.records[rec.ID] = &copied
	return nil
}

func (r *memPaymentRepo) GetByProviderOrderID(_ context.Context, providerOrderID string) (*domain.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ProviderOrderID == providerOrderID {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memPaymentRepo) UpdateStatus(_ context.Context, id, status, providerPaymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return errors.New("payment record not found")
	}
	rec.Status = status
	if providerPaymentID != "" {
		rec.ProviderPaymentID = providerPaymentID
	}
	return nil
}

func (r *memPaymentRepo) GetByOrderID(_ context.Context, orderID string) ([]domain.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.PaymentRecord
	for _, rec := range r.records {
		if rec.OrderID == orderID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) statusOf(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok {
		return rec.Status
	}
	return ""
}

// --- rate table repository fake ---

type memRateRepo struct {
	mu    sync.Mutex
	table *domain.RateTable
	err   error
	gets  int
}

func (r *memRateRepo) GetRateTable(_ context.Context) (*domain.RateTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	return r.table, r.err
}

func (r *memRateRepo) SaveRateTable(_ context.Context, table *domain.RateTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = table
	return nil
}

func (r *memRateRepo) fetchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gets
}

// --- transaction manager fake ---

// nopTxManager runs the function directly. Usecase code must behave the
// same whether or not a real transaction wraps it.
type nopTxManager struct{}

func (nopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- gateway fake ---

type fakeGateway struct {
	createID     string
	createErr    error
	goodSig      string
	lastAmount   int64
	lastReceipt  string
	lastCurrency string
}

func (g *fakeGateway) CreateOrder(_ context.Context, amountPaise int64, currency, receiptID string) (string, error) {
	g.lastAmount = amountPaise
	g.lastCurrency = currency
	g.lastReceipt = receiptID
	if g.createErr != nil {
		return "", g.createErr
	}
	return g.createID, nil
}

func (g *fakeGateway) VerifySignature(_, _, signature string) bool {
	return signature == g.goodSig
}

// --- carrier feed fake ---

type fakeCarrier struct {
	events []domain.ShipmentTrackingEvent
	err    error
	calls  int
}

func (c *fakeCarrier) Track(_ context.Context, _ string) ([]domain.ShipmentTrackingEvent, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.events, nil
}

// --- cache fake ---

type memCacheFake struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func newMemCacheFake() *memCacheFake {
	return &memCacheFake{items: map[string]interface{}{}}
}

func (c *memCacheFake) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *memCacheFake) Set(key string, value interface{}, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *memCacheFake) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *memCacheFake) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]interface{}{}
}
