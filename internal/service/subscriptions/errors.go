package subscriptions

import "errors"

var (
	// ErrSubscriptionNotFound is returned when the subscription does not exist.
	ErrSubscriptionNotFound = errors.New("subscriptions: subscription not found")

	// ErrInvalidTransition is returned when the subscription status does
	// not allow the requested change.
	ErrInvalidTransition = errors.New("subscriptions: invalid state for this operation")

	// ErrInvalidInput is returned on malformed input.
	ErrInvalidInput = errors.New("subscriptions: invalid input data")

	// ErrInternal is returned on internal failures.
	ErrInternal = errors.New("subscriptions: internal error")
)
