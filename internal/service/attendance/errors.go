package attendance

import "errors"

var (
	// ErrMemberNotFound is returned when the member does not exist.
	ErrMemberNotFound = errors.New("attendance: member not found")

	// ErrStaleDate is returned when the date is too far in the past to be
	// backfilled.
	ErrStaleDate = errors.New("attendance: date is too old to mark")

	// ErrInvalidInput is returned on malformed input.
	ErrInvalidInput = errors.New("attendance: invalid input data")

	// ErrInternal is returned on internal failures.
	ErrInternal = errors.New("attendance: internal error")
)
