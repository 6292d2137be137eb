package create_subscription

import "errors"

var (
	// ErrMemberNotFound is returned when the member does not exist.
	ErrMemberNotFound = errors.New("create_subscription: member not found")

	// ErrPlanNotFound is returned when the plan does not exist.
	ErrPlanNotFound = errors.New("create_subscription: plan not found")

	// ErrPlanInactive is returned when the plan is no longer sold.
	ErrPlanInactive = errors.New("create_subscription: plan is not active")

	// ErrSlotNotFound is returned when the slot does not exist.
	ErrSlotNotFound = errors.New("create_subscription: slot not found")

	// ErrSlotInactive is returned when the slot is not open for booking.
	ErrSlotInactive = errors.New("create_subscription: slot is not active")

	// ErrOverlapConflict is returned when the member already holds a
	// seat-occupying subscription overlapping the requested range.
	ErrOverlapConflict = errors.New("create_subscription: overlapping subscription exists")

	// ErrSlotFull is returned when the slot has no seat left for the range,
	// including the exception pool.
	ErrSlotFull = errors.New("create_subscription: slot is full for the requested period")

	// ErrInvalidInput is returned on malformed request data.
	ErrInvalidInput = errors.New("create_subscription: invalid input data")

	// ErrInternal is returned on internal failures.
	ErrInternal = errors.New("create_subscription: internal error")
)
