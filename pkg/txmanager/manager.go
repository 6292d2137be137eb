// Package txmanager runs closures inside instrumented database transactions.
// Serializable transactions are retried on serialization failures and
// deadlocks; when retries are exhausted the retryable ErrBusy is returned so
// callers can ask the client to try again.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/amar4h/rituyog-booking/pkg/dbmetrics"
)

// ErrBusy is returned when a transaction keeps failing on lock contention.
// It is safe for the caller to retry the whole operation.
var ErrBusy = errors.New("txmanager: transaction busy, retry")

const (
	maxSerializableAttempts = 3
	retryBackoff            = 50 * time.Millisecond

	// lockTimeout bounds how long a transaction waits on a row lock before
	// failing with 55P03 instead of hanging.
	lockTimeout = "3s"
)

// Postgres error codes treated as retryable contention.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// IsRetryableError reports whether the error is transient lock contention.
func IsRetryableError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch string(pqErr.Code) {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}
	return false
}

// retryReason maps a retryable error to its tx_retries_total label.
func retryReason(err error) string {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return "unknown"
	}
	switch string(pqErr.Code) {
	case codeSerializationFailure:
		return "serialization_failure"
	case codeDeadlockDetected:
		return "deadlock"
	case codeLockNotAvailable:
		return "lock_timeout"
	}
	return "unknown"
}

// TransactionManager runs closures on an instrumented dbmetrics.DB.
type TransactionManager struct {
	db *dbmetrics.DB
}

// NewTransactionManager creates a transaction manager over an instrumented DB.
func NewTransactionManager(db *dbmetrics.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do runs fn inside a read-committed transaction.
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoReadOnly runs fn inside a read-only transaction.
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted, ReadOnly: true}, fn)
}

// DoSerializable runs fn inside a serializable transaction, retrying on
// serialization failures and deadlocks with a short backoff.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= maxSerializableAttempts; attempt++ {
		lastErr = m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
		if lastErr == nil || !IsRetryableError(lastErr) {
			return lastErr
		}
		if attempt == maxSerializableAttempts {
			break
		}

		if mc := m.db.Metrics(); mc != nil {
			mc.TxRetriesTotal.WithLabelValues(retryReason(lastErr)).Inc()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}

	return fmt.Errorf("%w: %v", ErrBusy, lastErr)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("txmanager: begin transaction: %w", err)
	}

	if !opts.ReadOnly {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%s'", lockTimeout)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("txmanager: set lock_timeout: %w", err)
		}
	}

	txCtx := dbmetrics.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("txmanager: commit: %w", err)
	}
	return nil
}
