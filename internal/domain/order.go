package domain

import (
	"context"
	"time"
)

type OrderFilter struct {
	Page          int
	Limit         int
	Status        string
	PaymentStatus string
}

// --- Cart ---

// CartLine is what the storefront submits at checkout. It is ephemeral:
// owned by the client session until an Order is built from it.
type CartLine struct {
	ProductID     string  `json:"productId"`
	Name          string  `json:"name"`
	UnitPrice     float64 `json:"unitPrice"`
	Quantity      int     `json:"quantity"`
	WeightKg      float64 `json:"weightKg"`
	GSTPercentage float64 `json:"gstPercentage"` // <=0 or >100 falls back to the default rate
}

// --- Order Entities ---

// Order is the canonical order shape. Money fields are immutable once the
// payment is verified; nothing recomputes totals after that point.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"paymentStatus"`
	PaymentMethod   string      `json:"paymentMethod"`
	Subtotal        float64     `json:"subtotal"`
	TaxAmount       float64     `json:"taxAmount"`
	ShippingCost    float64     `json:"shippingCost"`
	GrandTotal      float64     `json:"grandTotal"`
	ShippingAddress JSONB       `json:"shippingAddress"`
	Items           []OrderLine `json:"items"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type OrderLine struct {
	ID            string  `json:"id"`
	OrderID       string  `json:"orderId"`
	ProductID     string  `json:"productId"`
	Name          string  `json:"name"`
	UnitPrice     float64 `json:"unitPrice"` // price at time of purchase
	Quantity      int     `json:"quantity"`
	WeightKg      float64 `json:"weightKg"`
	GSTPercentage float64 `json:"gstPercentage"`
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByUserID(ctx context.Context, userID string) ([]Order, error)
	GetAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdatePaymentStatus(ctx context.Context, id, status string) error

	// GetByStatuses returns orders currently in any of the given statuses.
	GetByStatuses(ctx context.Context, statuses []string) ([]Order, error)
	// GetStalePending returns pending orders created before the cutoff.
	GetStalePending(ctx context.Context, cutoff time.Time) ([]Order, error)
}

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
