package trial

import "errors"

var (
	// ErrTrialNotFound is returned when the trial booking does not exist.
	ErrTrialNotFound = errors.New("trial.repository: trial booking not found")

	// ErrBuildQuery is returned when the SQL query cannot be built.
	ErrBuildQuery = errors.New("trial.repository: failed to build query")

	// ErrExecQuery is returned when the SQL query fails to execute.
	ErrExecQuery = errors.New("trial.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("trial.repository: failed to scan row")
)
