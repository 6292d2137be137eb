package subscription

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

var subscriptionColumns = []string{
	"id",
	"member_id",
	"plan_id",
	"slot_id",
	"start_date",
	"end_date",
	"status",
	"payment_status",
	"original_amount",
	"discount_amount",
	"payable_amount",
	"discount_reason",
	"extra_days",
	"extra_days_reason",
	"extension_days",
	"invoice_id",
	"plan_name",
	"slot_name",
	"notes",
	"created_at",
	"updated_at",
}

// Repository provides access to membership subscriptions.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a subscription repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create persists a new subscription. When the context carries a transaction
// the insert runs on it, which is how create-with-invoice stays atomic.
func (r *Repository) Create(ctx context.Context, sub *domain.MembershipSubscription) (*domain.MembershipSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("membership_subscriptions").
		Columns(
			"member_id",
			"plan_id",
			"slot_id",
			"start_date",
			"end_date",
			"status",
			"payment_status",
			"original_amount",
			"discount_amount",
			"payable_amount",
			"discount_reason",
			"extra_days",
			"extra_days_reason",
			"extension_days",
			"plan_name",
			"slot_name",
			"notes",
		).
		Values(
			sub.MemberID,
			sub.PlanID,
			sub.SlotID,
			sub.StartDate,
			sub.EndDate,
			sub.Status,
			sub.PaymentStatus,
			sub.OriginalAmount,
			sub.DiscountAmount,
			sub.PayableAmount,
			sub.DiscountReason,
			sub.ExtraDays,
			sub.ExtraDaysReason,
			sub.ExtensionDays,
			sub.PlanName,
			sub.SlotName,
			sub.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&sub.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	sub.CreatedAt = createdAt.Time
	sub.UpdatedAt = updatedAt.Time
	return sub, nil
}

// GetByID fetches a subscription. Inside a transaction the row is locked
// with FOR UPDATE so extend/transfer/extra-days cannot race each other.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.MembershipSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(subscriptionColumns...).
		From("membership_subscriptions").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	sub, err := scanSubscription(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan subscription: %v", ErrScanRow, err)
	}

	return sub, nil
}

// GetByMember returns the member's subscriptions, optionally restricted to
// the given statuses, newest first.
func (r *Repository) GetByMember(ctx context.Context, memberID int64, statuses []domain.SubscriptionStatus) ([]*domain.MembershipSubscription, error) {
	selectBuilder := psqlbuilder.Select(subscriptionColumns...).
		From("membership_subscriptions").
		Where(squirrel.Eq{"member_id": memberID}).
		OrderBy("start_date DESC")

	if len(statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(statuses)})
	}

	return r.query(ctx, "GetByMember", selectBuilder)
}

// GetByMemberAndSlot returns the member's subscriptions in one slot,
// restricted to the given statuses. Used by the attendance summary.
func (r *Repository) GetByMemberAndSlot(ctx context.Context, memberID, slotID int64, statuses []domain.SubscriptionStatus) ([]*domain.MembershipSubscription, error) {
	selectBuilder := psqlbuilder.Select(subscriptionColumns...).
		From("membership_subscriptions").
		Where(squirrel.Eq{"member_id": memberID, "slot_id": slotID}).
		OrderBy("start_date ASC")

	if len(statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(statuses)})
	}

	return r.query(ctx, "GetByMemberAndSlot", selectBuilder)
}

// GetBySlotOverlapping returns seat-occupying subscriptions in a slot whose
// inclusive date ranges intersect [start, end]. The capacity model
// deduplicates the result by member.
func (r *Repository) GetBySlotOverlapping(ctx context.Context, slotID int64, start, end dates.DateOnly, statuses []domain.SubscriptionStatus) ([]*domain.MembershipSubscription, error) {
	selectBuilder := psqlbuilder.Select(subscriptionColumns...).
		From("membership_subscriptions").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.LtOrEq{"start_date": end}).
		Where(squirrel.GtOrEq{"end_date": start}).
		OrderBy("start_date ASC")

	if len(statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(statuses)})
	}

	return r.query(ctx, "GetBySlotOverlapping", selectBuilder)
}

// GetActiveOnDate returns the member's seat-occupying subscription covering
// the given date, or ErrSubscriptionNotFound.
func (r *Repository) GetActiveOnDate(ctx context.Context, memberID int64, date dates.DateOnly) (*domain.MembershipSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(subscriptionColumns...).
		From("membership_subscriptions").
		Where(squirrel.Eq{"member_id": memberID}).
		Where(squirrel.Eq{"status": statusStrings(domain.CountedSubscriptionStatuses)}).
		Where(squirrel.LtOrEq{"start_date": date}).
		Where(squirrel.GtOrEq{"end_date": date}).
		OrderBy("start_date DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveOnDate - build select query: %v", ErrBuildQuery, err)
	}

	sub, err := scanSubscription(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveOnDate - scan subscription: %v", ErrScanRow, err)
	}

	return sub, nil
}

// SetInvoiceID links the persisted invoice back onto the subscription.
func (r *Repository) SetInvoiceID(ctx context.Context, id, invoiceID int64) error {
	updateBuilder := psqlbuilder.Update("membership_subscriptions").
		Set("invoice_id", invoiceID)

	return r.update(ctx, "SetInvoiceID", id, updateBuilder)
}

// ApplyExtension moves the end date forward and accumulates the extension
// counter. Notes carry the full audit trail, already appended by the caller.
func (r *Repository) ApplyExtension(ctx context.Context, id int64, endDate dates.DateOnly, extensionDays int, notes *string) error {
	updateBuilder := psqlbuilder.Update("membership_subscriptions").
		Set("end_date", endDate).
		Set("extension_days", extensionDays).
		Set("notes", notes)

	return r.update(ctx, "ApplyExtension", id, updateBuilder)
}

// ApplyExtraDays stores the authoritative extra-days total, its reason and
// the recomputed end date.
func (r *Repository) ApplyExtraDays(ctx context.Context, id int64, endDate dates.DateOnly, extraDays int, reason *string) error {
	updateBuilder := psqlbuilder.Update("membership_subscriptions").
		Set("end_date", endDate).
		Set("extra_days", extraDays).
		Set("extra_days_reason", reason)

	return r.update(ctx, "ApplyExtraDays", id, updateBuilder)
}

// UpdateSlot rebinds the subscription to a new slot after a transfer.
func (r *Repository) UpdateSlot(ctx context.Context, id, slotID int64, slotName string, notes *string) error {
	updateBuilder := psqlbuilder.Update("membership_subscriptions").
		Set("slot_id", slotID).
		Set("slot_name", slotName).
		Set("notes", notes)

	return r.update(ctx, "UpdateSlot", id, updateBuilder)
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
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.MembershipSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	subs := make([]*domain.MembershipSubscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return subs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubscription(row rowScanner) (*domain.MembershipSubscription, error) {
	var sub domain.MembershipSubscription
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&sub.ID,
		&sub.MemberID,
		&sub.PlanID,
		&sub.SlotID,
		&sub.StartDate,
		&sub.EndDate,
		&sub.Status,
		&sub.PaymentStatus,
		&sub.OriginalAmount,
		&sub.DiscountAmount,
		&sub.PayableAmount,
		&sub.DiscountReason,
		&sub.ExtraDays,
		&sub.ExtraDaysReason,
		&sub.ExtensionDays,
		&sub.InvoiceID,
		&sub.PlanName,
		&sub.SlotName,
		&sub.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.CreatedAt = createdAt.Time
	sub.UpdatedAt = updatedAt.Time
	return &sub, nil
}

func statusStrings(statuses []domain.SubscriptionStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
