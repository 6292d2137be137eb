// Package settings reads policy knobs (max trials per person, attendance
// backfill window) from the shared settings table. Values are written by the
// settings screens outside the engine.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/Masterminds/squirrel"

	"github.com/amar4h/rituyog-booking/pkg/dbmetrics"
	"github.com/amar4h/rituyog-booking/pkg/psqlbuilder"
)

var (
	// ErrSettingNotFound is returned when the key has no stored value.
	ErrSettingNotFound = errors.New("settings.repository: setting not found")

	// ErrBuildQuery is returned when the SQL query cannot be built.
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrScanRow is returned when a result row cannot be scanned.
	ErrScanRow = errors.New("settings.repository: failed to scan row")
)

// Repository provides read access to the settings table.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a settings repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetInt returns the integer value stored under key, or fallback when the
// key is missing or not numeric.
func (r *Repository) GetInt(ctx context.Context, key string, fallback int) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("value").
		From("settings").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: GetInt - build select query: %v", ErrBuildQuery, err)
	}

	var raw string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetInt - scan value: %v", ErrScanRow, err)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, nil
	}
	return n, nil
}
