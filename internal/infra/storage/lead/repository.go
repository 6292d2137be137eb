package lead

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

// Repository provides access to the lead directory.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a lead repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID fetches a lead by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"full_name",
		"email",
		"phone",
		"status",
		"trial_date",
		"trial_slot_id",
		"created_at",
		"updated_at",
	).
		From("leads").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var l domain.Lead
	var trialDate sql.Null[dates.DateOnly]
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&l.ID,
		&l.FullName,
		&l.Email,
		&l.Phone,
		&l.Status,
		&trialDate,
		&l.TrialSlotID,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan lead: %v", ErrScanRow, err)
	}

	if trialDate.Valid {
		l.TrialDate = &trialDate.V
	}
	l.CreatedAt = createdAt.Time
	l.UpdatedAt = updatedAt.Time
	return &l, nil
}

// MarkTrialScheduled stamps the lead with the booked trial date and slot and
// moves it to trial_scheduled.
func (r *Repository) MarkTrialScheduled(ctx context.Context, id int64, date dates.DateOnly, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("leads").
		Set("status", domain.LeadTrialScheduled).
		Set("trial_date", date).
		Set("trial_slot_id", slotID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkTrialScheduled - build update query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, executor, "MarkTrialScheduled", query, args)
}

// UpdateStatus moves the lead to the given status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.LeadStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("leads").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, executor, "UpdateStatus", query, args)
}

func (r *Repository) exec(ctx context.Context, executor dbmetrics.DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrLeadNotFound
	}

	return nil
}
