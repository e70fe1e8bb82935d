package domain

import (
	"context"
	"time"
)

// ShipmentTrackingEvent is an append-only progress record. The most recent
// event is the current shipment status shown on tracking pages.
type ShipmentTrackingEvent struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	Location  *string   `json:"location,omitempty"`
	Remarks   *string   `json:"remarks,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type TrackingRepository interface {
	Append(ctx context.Context, event *ShipmentTrackingEvent) error
	// GetByOrderID returns events newest first.
	GetByOrderID(ctx context.Context, orderID string) ([]ShipmentTrackingEvent, error)
}

// CarrierFeed is an optional live carrier integration. When it is absent
// or failing, tracking views fall back to the internal event log.
type CarrierFeed interface {
	Track(ctx context.Context, orderID string) ([]ShipmentTrackingEvent, error)
}
