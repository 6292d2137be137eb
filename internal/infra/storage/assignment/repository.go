package assignment

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

// Repository provides access to per-member slot assignments.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a slot assignment repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveByMember returns the member's single active assignment, or
// ErrAssignmentNotFound. At most one active row exists per member.
func (r *Repository) GetActiveByMember(ctx context.Context, memberID int64) (*domain.SlotAssignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"member_id",
		"slot_id",
		"start_date",
		"end_date",
		"is_active",
		"is_exception",
		"created_at",
		"updated_at",
	).
		From("slot_assignments").
		Where(squirrel.Eq{"member_id": memberID, "is_active": true})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByMember - build select query: %v", ErrBuildQuery, err)
	}

	var a domain.SlotAssignment
	var endDate sql.Null[dates.DateOnly]
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&a.MemberID,
		&a.SlotID,
		&a.StartDate,
		&endDate,
		&a.IsActive,
		&a.IsException,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByMember - scan assignment: %v", ErrScanRow, err)
	}

	if endDate.Valid {
		a.EndDate = &endDate.V
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}

// Create inserts a new active assignment row.
func (r *Repository) Create(ctx context.Context, a *domain.SlotAssignment) (*domain.SlotAssignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_assignments").
		Columns(
			"member_id",
			"slot_id",
			"start_date",
			"is_active",
			"is_exception",
		).
		Values(
			a.MemberID,
			a.SlotID,
			a.StartDate,
			true,
			a.IsException,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.IsActive = true
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return a, nil
}

// Deactivate closes an assignment, stamping the end date. The member's
// assigned slot reference on the members table is intentionally left alone.
func (r *Repository) Deactivate(ctx context.Context, id int64, endDate dates.DateOnly) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_assignments").
		Set("is_active", false).
		Set("end_date", endDate).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAssignmentNotFound
	}

	return nil
}
