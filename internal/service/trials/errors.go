package trials

import "errors"

var (
	// ErrTrialNotFound is returned when the trial booking does not exist.
	ErrTrialNotFound = errors.New("trials: trial booking not found")

	// ErrInvalidTransition is returned when the trial status does not
	// allow the requested transition.
	ErrInvalidTransition = errors.New("trials: invalid status transition")

	// ErrInvalidInput is returned on malformed input.
	ErrInvalidInput = errors.New("trials: invalid input data")

	// ErrInternal is returned on internal failures.
	ErrInternal = errors.New("trials: internal error")
)
