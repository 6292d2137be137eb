package invoice

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/pkg/dbmetrics"
	"github.com/amar4h/rituyog-booking/pkg/psqlbuilder"
)

// Repository persists invoices. Invoices are only ever created inside the
// subscription transaction; updates (payments, voiding) belong to the
// external invoicing service.
type Repository struct {
	db DBExecutor
}

// NewRepository creates an invoice repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create persists an invoice and returns it with its generated ID.
func (r *Repository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("invoices").
		Columns(
			"number",
			"member_id",
			"subscription_id",
			"description",
			"amount",
			"discount",
			"total",
			"amount_paid",
			"status",
			"due_date",
		).
		Values(
			inv.Number,
			inv.MemberID,
			inv.SubscriptionID,
			inv.Description,
			inv.Amount,
			inv.Discount,
			inv.Total,
			inv.AmountPaid,
			inv.Status,
			inv.DueDate,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&inv.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	inv.CreatedAt = createdAt.Time
	inv.UpdatedAt = updatedAt.Time
	return inv, nil
}
