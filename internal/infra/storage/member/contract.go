package member

import "github.com/amar4h/rituyog-booking/pkg/dbmetrics"

// Reuse the dbmetrics executor interface for database access. Both *sql.DB
// and the instrumented *dbmetrics.DB satisfy it.
type DBExecutor = dbmetrics.DBExecutor
