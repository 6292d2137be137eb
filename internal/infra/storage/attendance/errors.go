package attendance

import "errors"

var (
	// ErrAttendanceNotFound is returned when no record exists for the
	// (member, slot, date) key.
	ErrAttendanceNotFound = errors.New("attendance.repository: attendance record not found")

	// ErrBuildQuery is returned when the SQL query cannot be built.
	ErrBuildQuery = errors.New("attendance.repository: failed to build query")

	// ErrExecQuery is returned when the SQL query fails to execute.
	ErrExecQuery = errors.New("attendance.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("attendance.repository: failed to scan row")
)
