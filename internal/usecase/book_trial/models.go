package book_trial

import (
	"time"

	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// Request carries the input for booking a trial session.
type Request struct {
	LeadID int64
	SlotID int64
	Date   dates.DateOnly
	// IsException lets staff seat the trial from the overflow pool when
	// the regular seats are taken.
	IsException bool
}

// Response is the created trial booking.
type Response struct {
	ID          int64
	LeadID      int64
	SlotID      int64
	Date        dates.DateOnly
	Status      string
	IsException bool
	CreatedAt   time.Time
}
