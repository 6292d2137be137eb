package trial

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/pkg/dates"
	"github.com/amar4h/rituyog-booking/pkg/dbmetrics"
	"github.com/amar4h/rituyog-booking/pkg/psqlbuilder"
)

var trialColumns = []string{
	"id",
	"lead_id",
	"slot_id",
	"trial_date",
	"status",
	"is_exception",
	"cancellation_reason",
	"created_at",
	"updated_at",
}

// Repository provides access to trial bookings.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a trial booking repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create persists a trial booking.
func (r *Repository) Create(ctx context.Context, t *domain.TrialBooking) (*domain.TrialBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("trial_bookings").
		Columns(
			"lead_id",
			"slot_id",
			"trial_date",
			"status",
			"is_exception",
		).
		Values(
			t.LeadID,
			t.SlotID,
			t.Date,
			t.Status,
			t.IsException,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return t, nil
}

// GetByID fetches a trial booking.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TrialBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(trialColumns...).
		From("trial_bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	t, err := scanTrial(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan trial: %v", ErrScanRow, err)
	}

	return t, nil
}

// CountCompletedByLead counts the lead's attended and no-show trials, the
// number the per-lead trial limit is checked against.
func (r *Repository) CountCompletedByLead(ctx context.Context, leadID int64) (int, error) {
	return r.count(ctx, "CountCompletedByLead", squirrel.And{
		squirrel.Eq{"lead_id": leadID},
		squirrel.Eq{"status": trialStatusStrings(domain.CompletedTrialStatuses)},
	})
}

// HasOccupyingOnDate reports whether the lead already holds a pending or
// confirmed trial on the given date.
func (r *Repository) HasOccupyingOnDate(ctx context.Context, leadID int64, date dates.DateOnly) (bool, error) {
	n, err := r.count(ctx, "HasOccupyingOnDate", squirrel.And{
		squirrel.Eq{"lead_id": leadID},
		squirrel.Eq{"trial_date": date},
		squirrel.Eq{"status": trialStatusStrings(domain.OccupyingTrialStatuses)},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountOccupyingBySlotDate counts the pending/confirmed trials holding a
// seat in a slot on a date. Fed into the single-date capacity check.
func (r *Repository) CountOccupyingBySlotDate(ctx context.Context, slotID int64, date dates.DateOnly) (int, error) {
	return r.count(ctx, "CountOccupyingBySlotDate", squirrel.And{
		squirrel.Eq{"slot_id": slotID},
		squirrel.Eq{"trial_date": date},
		squirrel.Eq{"status": trialStatusStrings(domain.OccupyingTrialStatuses)},
	})
}

// UpdateStatus transitions the trial booking.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.TrialStatus) error {
	updateBuilder := psqlbuilder.Update("trial_bookings").
		Set("status", status)

	return r.update(ctx, "UpdateStatus", id, updateBuilder)
}

// Cancel cancels the trial with a reason, freeing its seat.
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	updateBuilder := psqlbuilder.Update("trial_bookings").
		Set("status", domain.TrialCancelled).
		Set("cancellation_reason", reason)

	return r.update(ctx, "Cancel", id, updateBuilder)
}

func (r *Repository) count(ctx context.Context, op string, where squirrel.Sqlizer) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("trial_bookings").
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var n int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %s - scan count: %v", ErrScanRow, op, err)
	}

	return n, nil
}

func (r *Repository) update(ctx context.Context, op string, id int64, updateBuilder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := updateBuilder.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrTrialNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrial(row rowScanner) (*domain.TrialBooking, error) {
	var t domain.TrialBooking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.LeadID,
		&t.SlotID,
		&t.Date,
		&t.Status,
		&t.IsException,
		&t.CancellationReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return &t, nil
}

func trialStatusStrings(statuses []domain.TrialStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
