package usecase

import (
	"context"
	"fmt"

	"medimart-backend/internal/domain"
	"medimart-backend/pkg/logger"
	"medimart-backend/pkg/metrics"
	"medimart-backend/pkg/utils"

	"github.com/google/uuid"
)

// Per-line GST rate applied when a line carries no usable percentage.
const defaultGSTPercentage = 18.0

type OrderUsecase struct {
	orderRepo    domain.OrderRepository
	trackingRepo domain.TrackingRepository
	shipping     *ShippingUsecase
	txManager    domain.TransactionManager
	metrics      *metrics.Metrics
}

func NewOrderUsecase(orderRepo domain.OrderRepository, trackingRepo domain.TrackingRepository, shipping *ShippingUsecase, txManager domain.TransactionManager, m *metrics.Metrics) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:    orderRepo,
		trackingRepo: trackingRepo,
		shipping:     shipping,
		txManager:    txManager,
		metrics:      m,
	}
}

type CheckoutReq struct {
	Items   []domain.CartLine `json:"items"`
	Address domain.JSONB      `json:"address"`
	Payment string            `json:"paymentMethod"`
}

// Checkout builds and persists a pending order from the submitted cart.
// The grand total is rounded once, on the final sum; components stay
// unrounded so drift cannot compound. COD orders confirm immediately,
// everything else waits for payment verification.
func (u *OrderUsecase) Checkout(ctx context.Context, userID string, req CheckoutReq) (*domain.Order, error) {
	if len(req.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "cart is empty"}
	}
	if req.Payment != domain.PaymentMethodCOD && req.Payment != domain.PaymentMethodOnline {
		return nil, &domain.ValidationError{Field: "paymentMethod", Reason: fmt.Sprintf("unsupported payment method %q", req.Payment)}
	}

	var subtotal, taxAmount float64
	lines := make([]domain.OrderLine, 0, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity < 1 {
			return nil, &domain.ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "quantity must be at least 1"}
		}
		if item.UnitPrice < 0 {
			return nil, &domain.ValidationError{Field: fmt.Sprintf("items[%d].unitPrice", i), Reason: "unit price cannot be negative"}
		}
		if item.WeightKg < 0 {
			return nil, &domain.ValidationError{Field: fmt.Sprintf("items[%d].weightKg", i), Reason: "weight cannot be negative"}
		}

		gst := item.GSTPercentage
		if gst <= 0 || gst > 100 {
			gst = defaultGSTPercentage
		}

		lineTotal := item.UnitPrice * float64(item.Quantity)
		subtotal += lineTotal
		taxAmount += lineTotal * gst / 100

		lines = append(lines, domain.OrderLine{
			ID:            uuid.NewString(),
			ProductID:     item.ProductID,
			Name:          item.Name,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			WeightKg:      item.WeightKg,
			GSTPercentage: gst,
		})
	}

	region := regionFromAddress(req.Address)
	shippingCost := u.shipping.QuoteForCart(ctx, req.Items, region)

	order := &domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusPending,
		PaymentMethod:   req.Payment,
		Subtotal:        subtotal,
		TaxAmount:       taxAmount,
		ShippingCost:    shippingCost,
		GrandTotal:      utils.Round2(subtotal + taxAmount + shippingCost),
		ShippingAddress: req.Address,
		Items:           lines,
	}

	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.orderRepo.CreateOrder(txCtx, order); err != nil {
			return err
		}
		if err := u.appendEvent(txCtx, order.ID, domain.OrderStatusPending, "Order placed"); err != nil {
			return err
		}

		// COD skips the provider round-trip entirely.
		if req.Payment == domain.PaymentMethodCOD {
			if err := u.orderRepo.UpdateStatus(txCtx, order.ID, domain.OrderStatusConfirmed); err != nil {
				return err
			}
			if err := u.orderRepo.UpdatePaymentStatus(txCtx, order.ID, domain.PaymentStatusCODPending); err != nil {
				return err
			}
			if err := u.appendEvent(txCtx, order.ID, domain.OrderStatusConfirmed, "Confirmed, payable on delivery"); err != nil {
				return err
			}
			order.Status = domain.OrderStatusConfirmed
			order.PaymentStatus = domain.PaymentStatusCODPending
		}
		return nil
	})
	if err != nil {
		// Caller must not proceed to payment on this failure.
		return nil, &domain.PersistenceError{Op: "create order", Err: err}
	}

	u.metrics.OrdersCreated.Inc()
	logger.WithContext(ctx).Info().
		Str("order_id", order.ID).
		Str("user_id", userID).
		Str("payment_method", req.Payment).
		Float64("grand_total", order.GrandTotal).
		Msg("Order created")

	return order, nil
}

func (u *OrderUsecase) appendEvent(ctx context.Context, orderID, status, remarks string) error {
	event := &domain.ShipmentTrackingEvent{
		ID:      uuid.NewString(),
		OrderID: orderID,
		Status:  status,
	}
	if remarks != "" {
		event.Remarks = &remarks
	}
	return u.trackingRepo.Append(ctx, event)
}

func (u *OrderUsecase) GetMyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return u.orderRepo.GetByUserID(ctx, userID)
}

func (u *OrderUsecase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return u.orderRepo.GetByID(ctx, id)
}

func (u *OrderUsecase) GetAllOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	return u.orderRepo.GetAll(ctx, filter)
}

// regionFromAddress normalizes the loosely-shaped address document to a
// region key. Legacy clients send deliveryLocation, newer ones region.
func regionFromAddress(addr domain.JSONB) string {
	if region, ok := addr["region"].(string); ok && region != "" {
		return region
	}
	if loc, ok := addr["deliveryLocation"].(string); ok {
		return loc
	}
	return ""
}
