package subscription

import "errors"

var (
	// ErrSubscriptionNotFound is returned when the subscription does not exist.
	ErrSubscriptionNotFound = errors.New("subscription.repository: subscription not found")

	// ErrBuildQuery is returned when the SQL query cannot be built.
	ErrBuildQuery = errors.New("subscription.repository: failed to build query")

	// ErrExecQuery is returned when the SQL query fails to execute.
	ErrExecQuery = errors.New("subscription.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("subscription.repository: failed to scan row")
)
