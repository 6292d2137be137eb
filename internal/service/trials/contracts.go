package trials

import (
	"context"

	"github.com/amar4h/rituyog-booking/internal/domain"
)

// TrialRepository is the trial booking storage used by the service.
type TrialRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TrialBooking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TrialStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// LeadRepository propagates trial outcomes onto the lead record.
type LeadRepository interface {
	UpdateStatus(ctx context.Context, id int64, status domain.LeadStatus) error
}

// TransactionManager runs a function inside a transaction. Trial and lead
// updates always land together.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging interface used by the service.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
