package transfer_slot

import (
	"context"

	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// SubscriptionRepository is the subscription storage used by the use case.
// Inside a transaction GetByID locks the subscription row.
type SubscriptionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.MembershipSubscription, error)
	UpdateSlot(ctx context.Context, id, slotID int64, slotName string, notes *string) error
}

// SlotRepository is the slot storage. Inside a transaction GetByID locks
// the target slot row.
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SessionSlot, error)
}

// MemberRepository updates the member's assigned slot pointer.
type MemberRepository interface {
	UpdateStatusAndSlot(ctx context.Context, id int64, status domain.MemberStatus, slotID int64) error
}

// AssignmentRepository is the slot assignment storage.
type AssignmentRepository interface {
	GetActiveByMember(ctx context.Context, memberID int64) (*domain.SlotAssignment, error)
	Create(ctx context.Context, a *domain.SlotAssignment) (*domain.SlotAssignment, error)
	Deactivate(ctx context.Context, id int64, endDate dates.DateOnly) error
}

// CapacityChecker classifies slot occupancy over a date window.
type CapacityChecker interface {
	CheckWindow(ctx context.Context, slot *domain.SessionSlot, start, end dates.DateOnly, excludeMemberID *int64) (*domain.CapacityResult, error)
}

// TransactionManager runs a function inside a serializable transaction.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging interface used by the use case.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
