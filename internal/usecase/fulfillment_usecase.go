package usecase

import (
	"context"
	"time"

	"medimart-backend/internal/domain"
	"medimart-backend/pkg/cache"
	"medimart-backend/pkg/logger"
	"medimart-backend/pkg/metrics"

	"github.com/google/uuid"
)

// FulfillmentUsecase owns order status after payment: validated forward
// transitions, the append-only tracking trail and the tracking view read
// by polling clients.
type FulfillmentUsecase struct {
	orderRepo    domain.OrderRepository
	trackingRepo domain.TrackingRepository
	txManager    domain.TransactionManager
	carrier      domain.CarrierFeed // nil when no live integration exists
	cache        cache.CacheService
	snapshotTTL  time.Duration
	metrics      *metrics.Metrics
}

func NewFulfillmentUsecase(orderRepo domain.OrderRepository, trackingRepo domain.TrackingRepository, txManager domain.TransactionManager, carrier domain.CarrierFeed, c cache.CacheService, snapshotTTL time.Duration, m *metrics.Metrics) *FulfillmentUsecase {
	return &FulfillmentUsecase{
		orderRepo:    orderRepo,
		trackingRepo: trackingRepo,
		txManager:    txManager,
		carrier:      carrier,
		cache:        c,
		snapshotTTL:  snapshotTTL,
		metrics:      m,
	}
}

// validateTransition enforces the strict forward sequence. Cancellation is
// allowed from every state except delivered; everything else must move
// strictly later in the sequence. No regressing, no re-ordering.
func validateTransition(current, target string) error {
	if current == domain.OrderStatusCancelled {
		return &domain.InvalidTransitionError{From: current, To: target}
	}
	if target == domain.OrderStatusCancelled {
		if current == domain.OrderStatusDelivered {
			return &domain.InvalidTransitionError{From: current, To: target}
		}
		return nil
	}

	currentIdx := domain.StatusIndex(current)
	targetIdx := domain.StatusIndex(target)
	if currentIdx < 0 || targetIdx < 0 || targetIdx <= currentIdx {
		return &domain.InvalidTransitionError{From: current, To: target}
	}
	return nil
}

// Advance moves an order to targetStatus and appends a tracking event,
// atomically. Illegal transitions are rejected with no state change.
func (u *FulfillmentUsecase) Advance(ctx context.Context, orderID, targetStatus string, location, remarks *string) error {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := validateTransition(order.Status, targetStatus); err != nil {
		return err
	}

	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.orderRepo.UpdateStatus(txCtx, orderID, targetStatus); err != nil {
			return err
		}
		event := &domain.ShipmentTrackingEvent{
			ID:       uuid.NewString(),
			OrderID:  orderID,
			Status:   targetStatus,
			Location: location,
			Remarks:  remarks,
		}
		return u.trackingRepo.Append(txCtx, event)
	})
	if err != nil {
		return &domain.PersistenceError{Op: "advance order status", Err: err}
	}

	u.cache.Delete(trackingCacheKey(orderID))
	u.metrics.StatusTransitions.WithLabelValues(targetStatus).Inc()
	logger.WithContext(ctx).Info().
		Str("order_id", orderID).
		Str("from", order.Status).
		Str("to", targetStatus).
		Msg("Order status advanced")

	return nil
}

// TrackingView is what order history and tracking pages render. Source
// tells the client whether it is looking at live carrier data or the last
// known internal status.
type TrackingView struct {
	OrderID string                         `json:"orderId"`
	Status  string                         `json:"status"`
	Current *domain.ShipmentTrackingEvent  `json:"current,omitempty"`
	Events  []domain.ShipmentTrackingEvent `json:"events"`
	Source  string                         `json:"source"` // carrier | internal
}

// GetTracking builds the tracking view for an order. Carrier feed outages
// degrade to the internal event log rather than erroring; snapshots are
// cached for one polling cycle.
func (u *FulfillmentUsecase) GetTracking(ctx context.Context, orderID string) (*TrackingView, error) {
	if cached, ok := u.cache.Get(trackingCacheKey(orderID)); ok {
		if view, ok := cached.(*TrackingView); ok {
			return view, nil
		}
	}

	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	view := &TrackingView{OrderID: orderID, Status: order.Status, Source: "internal"}

	if u.carrier != nil {
		events, err := u.carrier.Track(ctx, orderID)
		if err == nil && len(events) > 0 {
			view.Events = events
			view.Source = "carrier"
		} else if err != nil {
			logger.WithContext(ctx).Warn().Err(err).Str("order_id", orderID).Msg("Carrier feed unavailable, falling back to internal events")
		}
	}

	if view.Source == "internal" {
		events, err := u.trackingRepo.GetByOrderID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		view.Events = events
	}

	if len(view.Events) > 0 {
		view.Current = &view.Events[0]
	}

	u.cache.Set(trackingCacheKey(orderID), view, u.snapshotTTL)
	return view, nil
}

// CancelStalePending cancels pending orders older than maxAge. Wired to a
// configurable policy; disabled by default so abandoned payment attempts
// stay open for manual reconciliation.
func (u *FulfillmentUsecase) CancelStalePending(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	stale, err := u.orderRepo.GetStalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	remarks := "Auto-cancelled: payment not completed"
	cancelled := 0
	for _, order := range stale {
		if err := u.Advance(ctx, order.ID, domain.OrderStatusCancelled, nil, &remarks); err != nil {
			logger.WithContext(ctx).Error().Err(err).Str("order_id", order.ID).Msg("Failed to auto-cancel stale order")
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

func trackingCacheKey(orderID string) string {
	return "tracking:" + orderID
}
