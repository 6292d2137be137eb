package domain

import (
	"time"

	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// AttendanceStatus is the per-day attendance mark.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// AttendanceRecord holds the attendance mark for one member in one slot on
// one date. Exactly one record exists per (member, slot, date); later marks
// update the row in place.
type AttendanceRecord struct {
	ID             int64
	MemberID       int64
	SlotID         int64
	Date           dates.DateOnly
	Status         AttendanceStatus
	SubscriptionID *int64 // subscription active at mark time, if any
	Notes          *string
	MarkedAt       time.Time
}

// AttendanceSummary is the per-period attendance report for one member in
// one slot.
type AttendanceSummary struct {
	MemberID         int64
	SlotID           int64
	PeriodStart      dates.DateOnly
	PeriodEnd        dates.DateOnly
	PresentDays      int
	TotalWorkingDays int
}

// CounterDelta returns the classesAttended adjustment for a mark that moves
// a record from wasPresent to isNowPresent. New records pass wasPresent=false.
func CounterDelta(wasPresent, isNowPresent bool) int {
	switch {
	case !wasPresent && isNowPresent:
		return 1
	case wasPresent && !isNowPresent:
		return -1
	default:
		return 0
	}
}
