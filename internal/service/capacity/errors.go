package capacity

import "errors"

var (
	// ErrSlotNotFound is returned when the slot does not exist.
	ErrSlotNotFound = errors.New("capacity: slot not found")

	// ErrSlotInactive is returned when the slot is not open for booking.
	ErrSlotInactive = errors.New("capacity: slot is not active")

	// ErrInvalidWindow is returned when the queried window is empty or
	// inverted.
	ErrInvalidWindow = errors.New("capacity: invalid date window")

	// ErrInternal is returned on repository failures.
	ErrInternal = errors.New("capacity: internal error")
)
