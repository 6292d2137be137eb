package invoicing

import "errors"

var (
	// ErrInternal is returned on internal client errors.
	ErrInternal = errors.New("invoicing client: internal error")

	// ErrInvalidResponse is returned when the numbering service replies
	// with an unexpected status or malformed payload.
	ErrInvalidResponse = errors.New("invoicing client: invalid response")

	// ErrServiceDegraded is returned when graceful degradation is applied.
	// The caller should fall back to a locally generated invoice number.
	ErrServiceDegraded = errors.New("invoicing service unavailable: graceful degradation applied")
)
