package plan

import "errors"

var (
	// ErrPlanNotFound is returned when the plan does not exist.
	ErrPlanNotFound = errors.New("plan.repository: plan not found")

	// ErrBuildQuery is returned when the SQL query cannot be built.
	ErrBuildQuery = errors.New("plan.repository: failed to build query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("plan.repository: failed to scan row")
)
