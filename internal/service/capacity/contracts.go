package capacity

import (
	"context"

	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// SubscriptionRepository is the slice of the subscription store the
// capacity model needs.
type SubscriptionRepository interface {
	GetBySlotOverlapping(ctx context.Context, slotID int64, start, end dates.DateOnly, statuses []domain.SubscriptionStatus) ([]*domain.MembershipSubscription, error)
}

// TrialRepository supplies the same-date trial occupancy.
type TrialRepository interface {
	CountOccupyingBySlotDate(ctx context.Context, slotID int64, date dates.DateOnly) (int, error)
}

// SlotRepository supplies slot rows for the read paths.
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SessionSlot, error)
	ListActive(ctx context.Context) ([]*domain.SessionSlot, error)
}

// Logger is the logging interface used by the service.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
