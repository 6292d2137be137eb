package create_subscription

import (
	"context"
	"time"

	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// MemberRepository is the member storage used by the use case.
type MemberRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	UpdateStatusAndSlot(ctx context.Context, id int64, status domain.MemberStatus, slotID int64) error
}

// PlanRepository is the plan catalog storage.
type PlanRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Plan, error)
}

// SlotRepository is the slot storage. Inside a transaction GetByID locks
// the slot row, which serializes concurrent bookings of the same slot.
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SessionSlot, error)
}

// SubscriptionRepository is the subscription storage used by the use case.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.MembershipSubscription) (*domain.MembershipSubscription, error)
	GetByMember(ctx context.Context, memberID int64, statuses []domain.SubscriptionStatus) ([]*domain.MembershipSubscription, error)
	SetInvoiceID(ctx context.Context, id, invoiceID int64) error
}

// AssignmentRepository is the slot assignment storage.
type AssignmentRepository interface {
	GetActiveByMember(ctx context.Context, memberID int64) (*domain.SlotAssignment, error)
	Create(ctx context.Context, a *domain.SlotAssignment) (*domain.SlotAssignment, error)
	Deactivate(ctx context.Context, id int64, endDate dates.DateOnly) error
}

// InvoiceRepository is the invoice storage.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
}

// CapacityChecker classifies slot occupancy over a date window.
type CapacityChecker interface {
	CheckWindow(ctx context.Context, slot *domain.SessionSlot, start, end dates.DateOnly, excludeMemberID *int64) (*domain.CapacityResult, error)
}

// InvoiceNumberProvider hands out invoice numbers, falling back to a
// locally generated number when the numbering service is down.
type InvoiceNumberProvider interface {
	NextNumberWithGracefulDegradation(ctx context.Context, memberID int64) (string, error)
}

// TransactionManager runs a function inside a serializable transaction.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider supplies the current time (swappable in tests).
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging interface used by the use case.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider is the production time provider.
type RealTimeProvider struct{}

// Now returns the current time.
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
