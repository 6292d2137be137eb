package assignment

import "errors"

var (
	// ErrAssignmentNotFound is returned when the member has no matching
	// slot assignment row.
	ErrAssignmentNotFound = errors.New("assignment.repository: slot assignment not found")

	// ErrBuildQuery is returned when the SQL query cannot be built.
	ErrBuildQuery = errors.New("assignment.repository: failed to build query")

	// ErrExecQuery is returned when the SQL query fails to execute.
	ErrExecQuery = errors.New("assignment.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("assignment.repository: failed to scan row")
)
