package usecase

import (
	"context"

	"medimart-backend/internal/domain"
	"medimart-backend/pkg/logger"
	"medimart-backend/pkg/metrics"
	"medimart-backend/pkg/utils"

	"github.com/google/uuid"
)

type PaymentUsecase struct {
	orderRepo    domain.OrderRepository
	paymentRepo  domain.PaymentRepository
	trackingRepo domain.TrackingRepository
	gateway      domain.PaymentGateway
	txManager    domain.TransactionManager
	currency     string
	metrics      *metrics.Metrics
}

func NewPaymentUsecase(orderRepo domain.OrderRepository, paymentRepo domain.PaymentRepository, trackingRepo domain.TrackingRepository, gateway domain.PaymentGateway, txManager domain.TransactionManager, currency string, m *metrics.Metrics) *PaymentUsecase {
	return &PaymentUsecase{
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		trackingRepo: trackingRepo,
		gateway:      gateway,
		txManager:    txManager,
		currency:     currency,
		metrics:      m,
	}
}

// CreateIntent registers a provider-side payment intent for exactly the
// order's grand total and records the attempt. A failed earlier attempt
// does not block a new one.
func (u *PaymentUsecase) CreateIntent(ctx context.Context, userID, orderID string) (*domain.PaymentIntent, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, &domain.ValidationError{Field: "orderId", Reason: "order not found"}
	}
	if userID != "" && order.UserID != userID {
		return nil, &domain.ValidationError{Field: "orderId", Reason: "order not found"}
	}
	if order.PaymentMethod == domain.PaymentMethodCOD {
		return nil, &domain.ValidationError{Field: "orderId", Reason: "cash-on-delivery orders have no payment intent"}
	}
	if order.PaymentStatus == domain.PaymentStatusCaptured {
		return nil, &domain.ValidationError{Field: "orderId", Reason: "order is already paid"}
	}

	amountPaise := utils.ToPaise(order.GrandTotal)
	providerOrderID, err := u.gateway.CreateOrder(ctx, amountPaise, u.currency, order.ID)
	if err != nil {
		// Order stays pending/unpaid; the caller may retry.
		return nil, &domain.GatewayError{Op: "create order", Err: err}
	}

	record := &domain.PaymentRecord{
		ID:              uuid.NewString(),
		OrderID:         order.ID,
		ProviderOrderID: providerOrderID,
		Amount:          order.GrandTotal,
		Currency:        u.currency,
		Status:          domain.PaymentRecordCreated,
	}
	if err := u.paymentRepo.Create(ctx, record); err != nil {
		return nil, &domain.PersistenceError{Op: "create payment record", Err: err}
	}

	logger.WithContext(ctx).Info().
		Str("order_id", order.ID).
		Str("provider_order_id", providerOrderID).
		Int64("amount_paise", amountPaise).
		Msg("Payment intent created")

	return &domain.PaymentIntent{
		ProviderOrderID: providerOrderID,
		Amount:          order.GrandTotal,
		Currency:        u.currency,
	}, nil
}

// Verify reconciles a provider callback against the recorded attempt and
// the order total. Signature and amount mismatches are hard rejections.
// Verifying an already-verified record is a no-op, so retried webhooks
// cannot double-apply side effects.
func (u *PaymentUsecase) Verify(ctx context.Context, cb domain.PaymentCallback) (*domain.PaymentRecord, error) {
	log := logger.WithContext(ctx)

	record, err := u.paymentRepo.GetByProviderOrderID(ctx, cb.ProviderOrderID)
	if err != nil || record == nil {
		u.metrics.VerificationFailures.Inc()
		return nil, &domain.VerificationError{Reason: "no payment attempt for provider order " + cb.ProviderOrderID}
	}

	if record.Status == domain.PaymentRecordVerified {
		log.Info().Str("order_id", record.OrderID).Str("provider_order_id", cb.ProviderOrderID).Msg("Duplicate payment callback, already verified")
		return record, nil
	}
	if record.Status != domain.PaymentRecordCreated {
		u.metrics.VerificationFailures.Inc()
		return nil, &domain.VerificationError{OrderID: record.OrderID, Reason: "payment attempt is in status " + record.Status}
	}

	order, err := u.orderRepo.GetByID(ctx, record.OrderID)
	if err != nil {
		u.metrics.VerificationFailures.Inc()
		return nil, &domain.VerificationError{OrderID: record.OrderID, Reason: "order not found"}
	}

	if !u.gateway.VerifySignature(cb.ProviderOrderID, cb.ProviderPaymentID, cb.Signature) {
		return nil, u.reject(ctx, record, cb, "signature mismatch")
	}
	if cb.AmountPaise != utils.ToPaise(order.GrandTotal) {
		return nil, u.reject(ctx, record, cb, "callback amount does not equal order grand total")
	}

	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.paymentRepo.UpdateStatus(txCtx, record.ID, domain.PaymentRecordVerified, cb.ProviderPaymentID); err != nil {
			return err
		}
		if err := u.orderRepo.UpdatePaymentStatus(txCtx, order.ID, domain.PaymentStatusCaptured); err != nil {
			return err
		}
		// The order may have been cancelled while payment was in flight;
		// only a pending order moves to confirmed.
		if order.Status == domain.OrderStatusPending {
			if err := u.orderRepo.UpdateStatus(txCtx, order.ID, domain.OrderStatusConfirmed); err != nil {
				return err
			}
			remarks := "Payment verified"
			event := &domain.ShipmentTrackingEvent{
				ID:      uuid.NewString(),
				OrderID: order.ID,
				Status:  domain.OrderStatusConfirmed,
				Remarks: &remarks,
			}
			if err := u.trackingRepo.Append(txCtx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, &domain.PersistenceError{Op: "apply verified payment", Err: err}
	}

	record.Status = domain.PaymentRecordVerified
	record.ProviderPaymentID = cb.ProviderPaymentID

	u.metrics.PaymentsVerified.Inc()
	log.Info().
		Str("order_id", order.ID).
		Str("provider_payment_id", cb.ProviderPaymentID).
		Msg("Payment verified, order confirmed")

	return record, nil
}

// reject marks the attempt failed and surfaces a VerificationError. The
// order is left unpaid for manual reconciliation; this is never silently
// swallowed.
func (u *PaymentUsecase) reject(ctx context.Context, record *domain.PaymentRecord, cb domain.PaymentCallback, reason string) error {
	if err := u.paymentRepo.UpdateStatus(ctx, record.ID, domain.PaymentRecordFailed, cb.ProviderPaymentID); err != nil {
		logger.WithContext(ctx).Error().Err(err).Str("payment_id", record.ID).Msg("Failed to mark payment attempt as failed")
	}

	u.metrics.VerificationFailures.Inc()
	logger.WithContext(ctx).Error().
		Str("order_id", record.OrderID).
		Str("provider_order_id", cb.ProviderOrderID).
		Str("reason", reason).
		Msg("Payment verification rejected, potential integrity incident")

	return &domain.VerificationError{OrderID: record.OrderID, Reason: reason}
}

// GetAttempts lists payment attempts for an order, newest first.
func (u *PaymentUsecase) GetAttempts(ctx context.Context, orderID string) ([]domain.PaymentRecord, error) {
	return u.paymentRepo.GetByOrderID(ctx, orderID)
}
