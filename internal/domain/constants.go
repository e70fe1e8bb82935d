package domain

// Order Statuses (delivery pipeline, strictly forward)
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusProcessing     = "processing"
	OrderStatusShipped        = "shipped"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled" // reachable from everything except delivered
)

// Payment Statuses
const (
	PaymentStatusPending    = "pending"
	PaymentStatusCaptured   = "captured"
	PaymentStatusFailed     = "failed"
	PaymentStatusCODPending = "cod_pending"
)

// Payment Methods
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

// PaymentRecord Statuses (one record per provider-side attempt)
const (
	PaymentRecordCreated  = "created"
	PaymentRecordVerified = "verified"
	PaymentRecordFailed   = "failed"
)

// StatusSequence is the forward delivery order. Cancelled sits outside the
// sequence on purpose.
var StatusSequence = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// StatusIndex returns the position of a status in the delivery sequence,
// or -1 for cancelled/unknown statuses.
func StatusIndex(status string) int {
	for i, s := range StatusSequence {
		if s == status {
			return i
		}
	}
	return -1
}

// List Exports for API
var OrderStatuses = append(append([]string{}, StatusSequence...), OrderStatusCancelled)

var PaymentStatuses = []string{
	PaymentStatusPending,
	PaymentStatusCaptured,
	PaymentStatusFailed,
	PaymentStatusCODPending,
}

var PaymentMethods = []string{
	PaymentMethodCOD,
	PaymentMethodOnline,
}
