package list_slots

import (
	"context"

	"github.com/amar4h/rituyog-booking/internal/service/capacity"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

type CapacityService interface {
	ListActiveWithOccupancy(ctx context.Context, date dates.DateOnly) ([]capacity.SlotOccupancy, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
