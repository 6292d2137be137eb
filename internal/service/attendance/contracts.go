package attendance

import (
	"context"
	"time"

	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// AttendanceRepository is the attendance storage used by the service.
type AttendanceRepository interface {
	GetByMemberSlotDate(ctx context.Context, memberID, slotID int64, date dates.DateOnly) (*domain.AttendanceRecord, error)
	Create(ctx context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error)
	UpdateMark(ctx context.Context, id int64, status domain.AttendanceStatus, notes *string) error
	CountPresent(ctx context.Context, memberID, slotID int64, start, end dates.DateOnly) (int, error)
}

// MemberRepository reads members and maintains the attendance counter.
type MemberRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	AddClassesAttended(ctx context.Context, id int64, delta int) error
}

// SubscriptionRepository supplies the subscription snapshot for new records
// and the subscription history for summaries.
type SubscriptionRepository interface {
	GetActiveOnDate(ctx context.Context, memberID int64, date dates.DateOnly) (*domain.MembershipSubscription, error)
	GetByMemberAndSlot(ctx context.Context, memberID, slotID int64, statuses []domain.SubscriptionStatus) ([]*domain.MembershipSubscription, error)
}

// SettingsRepository resolves policy knobs with a fallback default.
type SettingsRepository interface {
	GetInt(ctx context.Context, key string, fallback int) (int, error)
}

// TransactionManager runs a function inside a serializable transaction.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider supplies the current time (swappable in tests).
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging interface used by the service.
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
