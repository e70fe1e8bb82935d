package usecase

import (
	"context"
	"errors"
	"testing"

	"medimart-backend/internal/domain"
	"medimart-backend/pkg/utils"
)

type checkoutEnv struct {
	uc       *OrderUsecase
	orders   *memOrderRepo
	tracking *memTrackingRepo
}

func newCheckoutEnv() *checkoutEnv {
	orders := newMemOrderRepo()
	tracking := newMemTrackingRepo()
	shipping, _, _ := newShippingEnv(nil)
	return &checkoutEnv{
		uc:       NewOrderUsecase(orders, tracking, shipping, nopTxManager{}, newTestMetrics()),
		orders:   orders,
		tracking: tracking,
	}
}

func TestCheckoutTotals(t *testing.T) {
	env := newCheckoutEnv()

	order, err := env.uc.Checkout(context.Background(), "user-1", CheckoutReq{
		Payment: domain.PaymentMethodOnline,
		Address: domain.JSONB{"region": "dhaka"},
		Items: []domain.CartLine{
			{ProductID: "p1", Name: "BP Monitor", UnitPrice: 100, Quantity: 2, WeightKg: 3, GSTPercentage: 5},
			{ProductID: "p2", Name: "Thermometer", UnitPrice: 50, Quantity: 1, WeightKg: 1},
		},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	// Line 1: 200 subtotal, 10 tax, 2x400 shipping.
	// Line 2: 50 subtotal, default 18% -> 9 tax, 200 shipping.
	if order.Subtotal != 250 {
		t.Errorf("Subtotal = %v, want 250", order.Subtotal)
	}
	if order.TaxAmount != 19 {
		t.Errorf("TaxAmount = %v, want 19", order.TaxAmount)
	}
	if order.ShippingCost != 1000 {
		t.Errorf("ShippingCost = %v, want 1000", order.ShippingCost)
	}
	if order.GrandTotal != 1269 {
		t.Errorf("GrandTotal = %v, want 1269", order.GrandTotal)
	}
	if order.Status != domain.OrderStatusPending || order.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("new online order in %s/%s, want pending/pending", order.Status, order.PaymentStatus)
	}
	if order.Items[1].GSTPercentage != 18 {
		t.Errorf("default GST = %v, want 18", order.Items[1].GSTPercentage)
	}
	if utils.Round2(order.GrandTotal) != order.GrandTotal {
		t.Errorf("GrandTotal %v is not rounded to 2 decimals", order.GrandTotal)
	}
}

func TestCheckoutSingleItemWithShipping(t *testing.T) {
	env := newCheckoutEnv()

	order, err := env.uc.Checkout(context.Background(), "user-1", CheckoutReq{
		Payment: domain.PaymentMethodOnline,
		Address: domain.JSONB{"deliveryLocation": "chittagong"},
		Items: []domain.CartLine{
			{ProductID: "p1", Name: "Wheelchair", UnitPrice: 10000, Quantity: 1, WeightKg: 3, GSTPercentage: 18},
		},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if order.TaxAmount != 1800 {
		t.Errorf("TaxAmount = %v, want 1800", order.TaxAmount)
	}
	if order.ShippingCost != 400 {
		t.Errorf("ShippingCost = %v, want 400", order.ShippingCost)
	}
	if order.GrandTotal != 12200 {
		t.Errorf("GrandTotal = %v, want 12200", order.GrandTotal)
	}
}

func TestCheckoutValidation(t *testing.T) {
	env := newCheckoutEnv()
	ctx := context.Background()
	validItem := domain.CartLine{ProductID: "p1", UnitPrice: 10, Quantity: 1, WeightKg: 1}

	cases := []struct {
		name string
		req  CheckoutReq
	}{
		{"empty cart", CheckoutReq{Payment: domain.PaymentMethodOnline}},
		{"unknown payment method", CheckoutReq{Payment: "crypto", Items: []domain.CartLine{validItem}}},
		{"zero quantity", CheckoutReq{Payment: domain.PaymentMethodCOD, Items: []domain.CartLine{{ProductID: "p1", UnitPrice: 10, Quantity: 0}}}},
		{"negative price", CheckoutReq{Payment: domain.PaymentMethodCOD, Items: []domain.CartLine{{ProductID: "p1", UnitPrice: -1, Quantity: 1}}}},
		{"negative weight", CheckoutReq{Payment: domain.PaymentMethodCOD, Items: []domain.CartLine{{ProductID: "p1", UnitPrice: 10, Quantity: 1, WeightKg: -1}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.uc.Checkout(ctx, "user-1", tc.req)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}

	if len(env.orders.orders) != 0 {
		t.Errorf("rejected checkouts persisted %d orders", len(env.orders.orders))
	}
}

func TestCheckoutGSTOutOfRangeFallsBack(t *testing.T) {
	env := newCheckoutEnv()

	order, err := env.uc.Checkout(context.Background(), "user-1", CheckoutReq{
		Payment: domain.PaymentMethodCOD,
		Items: []domain.CartLine{
			{ProductID: "p1", UnitPrice: 100, Quantity: 1, GSTPercentage: 150},
			{ProductID: "p2", UnitPrice: 100, Quantity: 1, GSTPercentage: -5},
		},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	for i, line := range order.Items {
		if line.GSTPercentage != 18 {
			t.Errorf("items[%d].GSTPercentage = %v, want default 18", i, line.GSTPercentage)
		}
	}
}

func TestCheckoutCOD(t *testing.T) {
	env := newCheckoutEnv()

	order, err := env.uc.Checkout(context.Background(), "user-1", CheckoutReq{
		Payment: domain.PaymentMethodCOD,
		Items:   []domain.CartLine{{ProductID: "p1", UnitPrice: 500, Quantity: 1, WeightKg: 1}},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if order.Status != domain.OrderStatusConfirmed {
		t.Errorf("COD order status = %s, want confirmed", order.Status)
	}
	if order.PaymentStatus != domain.PaymentStatusCODPending {
		t.Errorf("COD payment status = %s, want cod_pending", order.PaymentStatus)
	}
	if n := env.tracking.count(order.ID); n != 2 {
		t.Errorf("COD tracking events = %d, want 2 (placed + confirmed)", n)
	}
}

func TestCheckoutOnlineStaysPending(t *testing.T) {
	env := newCheckoutEnv()

	order, err := env.uc.Checkout(context.Background(), "user-1", CheckoutReq{
		Payment: domain.PaymentMethodOnline,
		Items:   []domain.CartLine{{ProductID: "p1", UnitPrice: 500, Quantity: 1, WeightKg: 1}},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if n := env.tracking.count(order.ID); n != 1 {
		t.Errorf("online tracking events = %d, want 1", n)
	}
}

func TestCheckoutPersistenceFailure(t *testing.T) {
	env := newCheckoutEnv()
	env.orders.failCreate = true

	_, err := env.uc.Checkout(context.Background(), "user-1", CheckoutReq{
		Payment: domain.PaymentMethodOnline,
		Items:   []domain.CartLine{{ProductID: "p1", UnitPrice: 500, Quantity: 1, WeightKg: 1}},
	})
	var pErr *domain.PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("err = %v, want PersistenceError", err)
	}
}

func TestRegionFromAddress(t *testing.T) {
	cases := []struct {
		addr domain.JSONB
		want string
	}{
		{domain.JSONB{"region": "dhaka"}, "dhaka"},
		{domain.JSONB{"deliveryLocation": "sylhet"}, "sylhet"},
		{domain.JSONB{"region": "dhaka", "deliveryLocation": "sylhet"}, "dhaka"},
		{domain.JSONB{"region": ""}, ""},
		{domain.JSONB{"city": "khulna"}, ""},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := regionFromAddress(tc.addr); got != tc.want {
			t.Errorf("regionFromAddress(%v) = %q, want %q", tc.addr, got, tc.want)
		}
	}
}
