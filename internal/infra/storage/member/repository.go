package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/pkg/dbmetrics"
	"github.com/amar4h/rituyog-booking/pkg/psqlbuilder"
)

var memberColumns = []string{
	"id",
	"full_name",
	"email",
	"phone",
	"status",
	"assigned_slot_id",
	"classes_attended",
	"created_at",
	"updated_at",
}

// Repository provides access to the member directory.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a member repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID fetches a member by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail fetches a member by email, case-insensitively. Used by the
// trial flow to catch leads who are already paying members.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return r.getOne(ctx, squirrel.Eq{"lower(email)": strings.ToLower(email)})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Member, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(memberColumns...).
		From("members").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	var m domain.Member
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&m.ID,
		&m.FullName,
		&m.Email,
		&m.Phone,
		&m.Status,
		&m.AssignedSlotID,
		&m.ClassesAttended,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan member: %v", ErrScanRow, err)
	}

	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time
	return &m, nil
}

// UpdateStatusAndSlot sets the member's status and assigned slot. Called
// inside the create/transfer transactions.
func (r *Repository) UpdateStatusAndSlot(ctx context.Context, id int64, status domain.MemberStatus, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("members").
		Set("status", status).
		Set("assigned_slot_id", slotID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusAndSlot - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusAndSlot - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusAndSlot - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// AddClassesAttended adjusts the member's running attendance counter by
// delta. A zero delta is a no-op.
func (r *Repository) AddClassesAttended(ctx context.Context, id int64, delta int) error {
	if delta == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("members").
		Set("classes_attended", squirrel.Expr("classes_attended + ?", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddClassesAttended - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AddClassesAttended - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AddClassesAttended - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}
