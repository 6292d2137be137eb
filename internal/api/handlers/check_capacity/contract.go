package check_capacity

import (
	"context"

	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

type CapacityService interface {
	CheckSlot(ctx context.Context, slotID int64, start, end dates.DateOnly, excludeMemberID *int64) (*domain.CapacityResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
