package transfer_slot

import "errors"

var (
	// ErrSubscriptionNotFound is returned when the subscription does not exist.
	ErrSubscriptionNotFound = errors.New("transfer_slot: subscription not found")

	// ErrNotTransferable is returned when the subscription status does not
	// allow a transfer.
	ErrNotTransferable = errors.New("transfer_slot: subscription cannot be transferred")

	// ErrSameSlot is returned when the target slot equals the current one.
	ErrSameSlot = errors.New("transfer_slot: subscription is already in this slot")

	// ErrDateOutOfRange is returned when the effective date falls outside
	// the subscription range.
	ErrDateOutOfRange = errors.New("transfer_slot: effective date is outside the subscription period")

	// ErrSlotNotFound is returned when the target slot does not exist.
	ErrSlotNotFound = errors.New("transfer_slot: slot not found")

	// ErrSlotInactive is returned when the target slot is not open for booking.
	ErrSlotInactive = errors.New("transfer_slot: slot is not active")

	// ErrSlotFull is returned when the target slot has no seat left for the
	// remaining subscription period.
	ErrSlotFull = errors.New("transfer_slot: slot is full for the remaining period")

	// ErrInvalidInput is returned on malformed request data.
	ErrInvalidInput = errors.New("transfer_slot: invalid input data")

	// ErrInternal is returned on internal failures.
	ErrInternal = errors.New("transfer_slot: internal error")
)
