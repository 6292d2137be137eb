package attendance

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

// Repository provides access to attendance records.
type Repository struct {
	db DBExecutor
}

// NewRepository creates an attendance repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByMemberSlotDate returns the single record for the (member, slot, date)
// key, or ErrAttendanceNotFound. Inside a transaction the row is locked so
// concurrent marks serialize on it.
func (r *Repository) GetByMemberSlotDate(ctx context.Context, memberID, slotID int64, date dates.DateOnly) (*domain.AttendanceRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"member_id",
		"slot_id",
		"attendance_date",
		"status",
		"subscription_id",
		"notes",
		"marked_at",
	).
		From("attendance_records").
		Where(squirrel.Eq{"member_id": memberID, "slot_id": slotID, "attendance_date": date})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMemberSlotDate - build select query: %v", ErrBuildQuery, err)
	}

	var rec domain.AttendanceRecord
	var markedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID,
		&rec.MemberID,
		&rec.SlotID,
		&rec.Date,
		&rec.Status,
		&rec.SubscriptionID,
		&rec.Notes,
		&markedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttendanceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMemberSlotDate - scan record: %v", ErrScanRow, err)
	}

	rec.MarkedAt = markedAt.Time
	return &rec, nil
}

// Create inserts a new attendance record.
func (r *Repository) Create(ctx context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("attendance_records").
		Columns(
			"member_id",
			"slot_id",
			"attendance_date",
			"status",
			"subscription_id",
			"notes",
		).
		Values(
			rec.MemberID,
			rec.SlotID,
			rec.Date,
			rec.Status,
			rec.SubscriptionID,
			rec.Notes,
		).
		Suffix("RETURNING id, marked_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var markedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &markedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rec.MarkedAt = markedAt.Time
	return rec, nil
}

// UpdateMark re-marks an existing record in place.
func (r *Repository) UpdateMark(ctx context.Context, id int64, status domain.AttendanceStatus, notes *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("attendance_records").
		Set("status", status).
		Set("notes", notes).
		Set("marked_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateMark - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateMark - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateMark - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAttendanceNotFound
	}

	return nil
}

// CountPresent counts the member's present marks in a slot over an
// inclusive date range.
func (r *Repository) CountPresent(ctx context.Context, memberID, slotID int64, start, end dates.DateOnly) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("attendance_records").
		Where(squirrel.Eq{
			"member_id": memberID,
			"slot_id":   slotID,
			"status":    string(domain.AttendancePresent),
		}).
		Where(squirrel.GtOrEq{"attendance_date": start}).
		Where(squirrel.LtOrEq{"attendance_date": end}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountPresent - build select query: %v", ErrBuildQuery, err)
	}

	var n int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: CountPresent - scan count: %v", ErrScanRow, err)
	}

	return n, nil
}
