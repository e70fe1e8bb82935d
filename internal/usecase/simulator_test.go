package usecase

import (
	"context"
	"testing"
	"time"

	"medimart-backend/internal/domain"
)

func newSimulatorEnv(stepOdds float64, pendingTTL time.Duration) (*ShipmentSimulator, *fulfillmentEnv) {
	env := newFulfillmentEnv(nil)
	sim := NewShipmentSimulator(env.uc, env.orders, time.Minute, stepOdds, pendingTTL)
	return sim, env
}

func TestNextForwardStatus(t *testing.T) {
	cases := map[string]string{
		"pending":          "confirmed",
		"confirmed":        "processing",
		"processing":       "shipped",
		"shipped":          "out_for_delivery",
		"out_for_delivery": "delivered",
		"delivered":        "",
		"cancelled":        "",
		"bogus":            "",
	}
	for status, want := range cases {
		if got := nextForwardStatus(status); got != want {
			t.Errorf("nextForwardStatus(%s) = %q, want %q", status, got, want)
		}
	}
}

func TestTickAdvancesOneStep(t *testing.T) {
	sim, env := newSimulatorEnv(0.25, 0)
	sim.randFn = func() float64 { return 0 } // always below the odds

	env.seedOrder("ord-1", domain.OrderStatusConfirmed)
	env.seedOrder("ord-2", domain.OrderStatusOutForDelivery)
	env.seedOrder("ord-3", domain.OrderStatusPending)
	env.seedOrder("ord-4", domain.OrderStatusCancelled)

	sim.tick(context.Background())

	for id, want := range map[string]string{
		"ord-1": domain.OrderStatusProcessing,
		"ord-2": domain.OrderStatusDelivered,
		"ord-3": domain.OrderStatusPending,   // waits on payment, not a courier
		"ord-4": domain.OrderStatusCancelled, // never resurrected
	} {
		order, _ := env.orders.GetByID(context.Background(), id)
		if order.Status != want {
			t.Errorf("%s status = %s, want %s", id, order.Status, want)
		}
	}
}

func TestTickNeverAdvancesPastDelivered(t *testing.T) {
	sim, env := newSimulatorEnv(1, 0)
	sim.randFn = func() float64 { return 0 }

	env.seedOrder("ord-1", domain.OrderStatusOutForDelivery)

	for i := 0; i < 5; i++ {
		sim.tick(context.Background())
	}

	order, _ := env.orders.GetByID(context.Background(), "ord-1")
	if order.Status != domain.OrderStatusDelivered {
		t.Errorf("status = %s, want delivered", order.Status)
	}
}

func TestTickRespectsOdds(t *testing.T) {
	sim, env := newSimulatorEnv(0.25, 0)
	sim.randFn = func() float64 { return 0.9 } // always above the odds

	env.seedOrder("ord-1", domain.OrderStatusConfirmed)

	sim.tick(context.Background())

	order, _ := env.orders.GetByID(context.Background(), "ord-1")
	if order.Status != domain.OrderStatusConfirmed {
		t.Errorf("status = %s, want unchanged confirmed", order.Status)
	}
}

func TestTickSweepsStalePending(t *testing.T) {
	sim, env := newSimulatorEnv(0.25, time.Hour)
	sim.randFn = func() float64 { return 1 } // isolate the sweep

	stale := env.seedOrder("ord-1", domain.OrderStatusPending)
	stale.CreatedAt = time.Now().Add(-2 * time.Hour)
	fresh := env.seedOrder("ord-2", domain.OrderStatusPending)
	fresh.CreatedAt = time.Now()

	sim.tick(context.Background())

	staleAfter, _ := env.orders.GetByID(context.Background(), "ord-1")
	if staleAfter.Status != domain.OrderStatusCancelled {
		t.Errorf("stale order status = %s, want cancelled", staleAfter.Status)
	}
	freshAfter, _ := env.orders.GetByID(context.Background(), "ord-2")
	if freshAfter.Status != domain.OrderStatusPending {
		t.Errorf("fresh order status = %s, want pending", freshAfter.Status)
	}
}

func TestTickDisabledSweepLeavesPendingAlone(t *testing.T) {
	sim, env := newSimulatorEnv(0.25, 0)
	sim.randFn = func() float64 { return 1 }

	stale := env.seedOrder("ord-1", domain.OrderStatusPending)
	stale.CreatedAt = time.Now().Add(-48 * time.Hour)

	sim.tick(context.Background())

	order, _ := env.orders.GetByID(context.Background(), "ord-1")
	if order.Status != domain.OrderStatusPending {
		t.Errorf("status = %s, want pending (sweep disabled)", order.Status)
	}
}
