package domain

import (
	"context"
	"time"
)

// PaymentRecord tracks one provider-side payment attempt. An order may have
// several records if earlier attempts failed, but at most one verified.
type PaymentRecord struct {
	ID                string    `json:"id"`
	OrderID           string    `json:"orderId"`
	ProviderOrderID   string    `json:"providerOrderId"`
	ProviderPaymentID string    `json:"providerPaymentId,omitempty"`
	Amount            float64   `json:"amount"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"` // created, verified, failed
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// PaymentCallback is the provider's signed notification. The signature is
// verified server-side with the shared secret; nothing here is trusted
// from the client alone.
type PaymentCallback struct {
	ProviderOrderID   string `json:"providerOrderId"`
	ProviderPaymentID string `json:"providerPaymentId"`
	Signature         string `json:"signature"`
	AmountPaise       int64  `json:"amountPaise"`
}

// PaymentIntent is what the storefront needs to open the provider's UI.
type PaymentIntent struct {
	ProviderOrderID string  `json:"providerOrderId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

type PaymentRepository interface {
	Create(ctx context.Context, rec *PaymentRecord) error
	GetByProviderOrderID(ctx context.Context, providerOrderID string) (*PaymentRecord, error)
	UpdateStatus(ctx context.Context, id, status, providerPaymentID string) error
	GetByOrderID(ctx context.Context, orderID string) ([]PaymentRecord, error)
}

// PaymentGateway abstracts the external provider.
type PaymentGateway interface {
	// CreateOrder registers a provider-side intent for amountPaise and
	// returns the provider's order id.
	CreateOrder(ctx context.Context, amountPaise int64, currency, receiptID string) (string, error)
	// VerifySignature checks the provider's HMAC over orderID|paymentID.
	VerifySignature(providerOrderID, providerPaymentID, signature string) bool
}
