package slot

import "errors"

var (
	// ErrSlotNotFound is returned when the session slot does not exist.
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrBuildQuery is returned when the SQL query cannot be built.
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery is returned when the SQL query fails to execute.
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
