package book_trial

import (
	"context"

	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// LeadRepository is the lead storage used by the use case.
type LeadRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)
	MarkTrialScheduled(ctx context.Context, id int64, date dates.DateOnly, slotID int64) error
}

// TrialRepository is the trial booking storage.
type TrialRepository interface {
	Create(ctx context.Context, t *domain.TrialBooking) (*domain.TrialBooking, error)
	CountCompletedByLead(ctx context.Context, leadID int64) (int, error)
	HasOccupyingOnDate(ctx context.Context, leadID int64, date dates.DateOnly) (bool, error)
}

// MemberRepository looks up members by email for the already-a-member check.
type MemberRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
}

// SubscriptionRepository checks whether a member has coverage on a date.
type SubscriptionRepository interface {
	GetActiveOnDate(ctx context.Context, memberID int64, date dates.DateOnly) (*domain.MembershipSubscription, error)
}

// SlotRepository is the slot storage. Inside a transaction GetByID locks
// the slot row.
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SessionSlot, error)
}

// SettingsRepository resolves policy knobs with a fallback default.
type SettingsRepository interface {
	GetInt(ctx context.Context, key string, fallback int) (int, error)
}

// CapacityChecker classifies single-date slot occupancy including trials.
type CapacityChecker interface {
	CheckDate(ctx context.Context, slot *domain.SessionSlot, date dates.DateOnly, excludeMemberID *int64) (*domain.CapacityResult, error)
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
