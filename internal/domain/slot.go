package domain

import (
	"time"

	"github.com/amar4h/rituyog-booking/pkg/types"
)

// SessionSlot is a recurring daily time window (a "batch") with a finite
// number of seats. Capacity splits into the guaranteed pool and an overflow
// pool released only when the guaranteed pool is full.
type SessionSlot struct {
	ID                int64
	DisplayName       string
	StartTime         types.TimeString
	EndTime           types.TimeString
	Capacity          int // guaranteed seats
	ExceptionCapacity int // overflow seats
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TotalCapacity returns the combined seat count of both pools.
func (s *SessionSlot) TotalCapacity() int {
	return s.Capacity + s.ExceptionCapacity
}

// CapacityResult is the outcome of a capacity check over a date window.
type CapacityResult struct {
	Available       bool
	IsExceptionOnly bool // the next booking consumes an overflow seat
	CurrentBookings int  // distinct members (plus same-date trials) in the window
	NormalCapacity  int
	TotalCapacity   int
	Message         string
}
