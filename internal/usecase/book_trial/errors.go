package book_trial

import "errors"

var (
	// ErrLeadNotFound is returned when the lead does not exist.
	ErrLeadNotFound = errors.New("book_trial: lead not found")

	// ErrTrialLimitReached is returned when the lead has already used up
	// the allowed number of completed trials.
	ErrTrialLimitReached = errors.New("book_trial: trial limit reached for this lead")

	// ErrDuplicateTrial is returned when the lead already has a pending or
	// confirmed trial on the same date.
	ErrDuplicateTrial = errors.New("book_trial: lead already has a trial on this date")

	// ErrAlreadyMember is returned when a member with the lead's email has
	// an active subscription covering the date.
	ErrAlreadyMember = errors.New("book_trial: lead is already a paying member on this date")

	// ErrSlotNotFound is returned when the slot does not exist.
	ErrSlotNotFound = errors.New("book_trial: slot not found")

	// ErrSlotInactive is returned when the slot is not open for booking.
	ErrSlotInactive = errors.New("book_trial: slot is not active")

	// ErrSlotFull is returned when no seat is available for the date in
	// the pool the request may draw from.
	ErrSlotFull = errors.New("book_trial: slot is full on this date")

	// ErrNotWorkingDay is returned for weekend dates; trials run Monday
	// through Friday only.
	ErrNotWorkingDay = errors.New("book_trial: trials can only be booked Monday to Friday")

	// ErrInvalidInput is returned on malformed request data.
	ErrInvalidInput = errors.New("book_trial: invalid input data")

	// ErrInternal is returned on internal failures.
	ErrInternal = errors.New("book_trial: internal error")
)
