package usecase

import (
	"context"
	"math/rand/v2"
	"time"

	"medimart-backend/internal/domain"
	"medimart-backend/pkg/logger"
)

// ShipmentSimulator is the degraded-mode stand-in for a live carrier
// webhook: on a fixed interval it probabilistically advances confirmed,
// in-flight orders by one step through the authoritative state machine.
// It never touches transition validation itself, never advances past
// delivered and never resurrects a cancelled order. A real carrier
// integration replaces this component without touching FulfillmentUsecase.
type ShipmentSimulator struct {
	fulfillment *FulfillmentUsecase
	orderRepo   domain.OrderRepository
	interval    time.Duration
	stepOdds    float64
	pendingTTL  time.Duration // 0 disables stale-pending cancellation
	randFn      func() float64
	cancel      context.CancelFunc
}

func NewShipmentSimulator(fulfillment *FulfillmentUsecase, orderRepo domain.OrderRepository, interval time.Duration, stepOdds float64, pendingTTL time.Duration) *ShipmentSimulator {
	return &ShipmentSimulator{
		fulfillment: fulfillment,
		orderRepo:   orderRepo,
		interval:    interval,
		stepOdds:    stepOdds,
		pendingTTL:  pendingTTL,
		randFn:      rand.Float64,
	}
}

// Start launches the background loop. Call Shutdown to stop it.
func (s *ShipmentSimulator) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)
}

func (s *ShipmentSimulator) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *ShipmentSimulator) tick(ctx context.Context) {
	if s.pendingTTL > 0 {
		if n, err := s.fulfillment.CancelStalePending(ctx, s.pendingTTL); err != nil {
			logger.WithContext(ctx).Error().Err(err).Msg("Stale pending sweep failed")
		} else if n > 0 {
			logger.WithContext(ctx).Info().Int("cancelled", n).Msg("Auto-cancelled stale pending orders")
		}
	}

	// Only paid-for orders progress. Pending orders are waiting on payment
	// reconciliation, not on a courier.
	active, err := s.orderRepo.GetByStatuses(ctx, []string{
		domain.OrderStatusConfirmed,
		domain.OrderStatusProcessing,
		domain.OrderStatusShipped,
		domain.OrderStatusOutForDelivery,
	})
	if err != nil {
		logger.WithContext(ctx).Error().Err(err).Msg("Simulator could not list in-flight orders")
		return
	}

	remarks := "Simulated carrier update"
	for _, order := range active {
		if s.randFn() >= s.stepOdds {
			continue
		}
		next := nextForwardStatus(order.Status)
		if next == "" {
			continue
		}
		if err := s.fulfillment.Advance(ctx, order.ID, next, nil, &remarks); err != nil {
			// A race with an admin action can make this transition stale.
			logger.WithContext(ctx).Warn().Err(err).Str("order_id", order.ID).Msg("Simulated advance rejected")
		}
	}
}

// nextForwardStatus returns the next status in the delivery sequence, or
// "" when there is no forward step (delivered, cancelled, unknown).
func nextForwardStatus(status string) string {
	idx := domain.StatusIndex(status)
	if idx < 0 || idx+1 >= len(domain.StatusSequence) {
		return ""
	}
	return domain.StatusSequence[idx+1]
}

// Shutdown stops the background loop.
func (s *ShipmentSimulator) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
}
