package domain

import "fmt"

// Error taxonomy for the checkout/payment/fulfillment pipeline. Handlers
// map these to HTTP codes with errors.As; anything else is a 500.

// ValidationError: bad cart or address input. Recoverable by the user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// GatewayError: the payment provider was unreachable or rejected the
// request. The caller may retry intent creation.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// VerificationError: signature or amount mismatch on a payment callback.
// Never retried automatically; always logged as a potential integrity
// incident.
type VerificationError struct {
	OrderID string
	Reason  string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("payment verification failed for order %s: %s", e.OrderID, e.Reason)
}

// PersistenceError: a store write failed. The order must not be presented
// as placed to the user.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// InvalidTransitionError: an illegal status change was attempted. Rejected
// with no state change.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot move order from '%s' to '%s'", e.From, e.To)
}
