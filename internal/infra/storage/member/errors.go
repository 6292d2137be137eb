package member

import "errors"

var (
	// ErrMemberNotFound is returned when the member does not exist.
	ErrMemberNotFound = errors.New("member.repository: member not found")

	// ErrBuildQuery is returned when the SQL query cannot be built.
	ErrBuildQuery = errors.New("member.repository: failed to build query")

	// ErrExecQuery is returned when the SQL query fails to execute.
	ErrExecQuery = errors.New("member.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("member.repository: failed to scan row")
)
