package subscriptions

import (
	"context"

	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// SubscriptionRepository is the subscription storage used by the service.
type SubscriptionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.MembershipSubscription, error)
	GetByMember(ctx context.Context, memberID int64, statuses []domain.SubscriptionStatus) ([]*domain.MembershipSubscription, error)
	ApplyExtension(ctx context.Context, id int64, endDate dates.DateOnly, extensionDays int, notes *string) error
	ApplyExtraDays(ctx context.Context, id int64, endDate dates.DateOnly, extraDays int, reason *string) error
}

// TransactionManager runs a function inside a serializable transaction.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging interface used by the service.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
