package domain

import (
	"time"

	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// TrialStatus represents the state of a trial booking.
type TrialStatus string

const (
	TrialPending   TrialStatus = "pending"
	TrialConfirmed TrialStatus = "confirmed"
	TrialAttended  TrialStatus = "attended"
	TrialNoShow    TrialStatus = "no_show"
	TrialCancelled TrialStatus = "cancelled"
)

// TrialBooking is a single-date booking for a lead. It competes for the same
// slot capacity pool as subscriptions but is keyed by calendar date.
type TrialBooking struct {
	ID                 int64
	LeadID             int64
	SlotID             int64
	Date               dates.DateOnly
	Status             TrialStatus
	IsException        bool // seated from the overflow pool
	CancellationReason *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OccupiesSeat reports whether the trial holds a seat on its date.
func (t *TrialBooking) OccupiesSeat() bool {
	return t.Status == TrialPending || t.Status == TrialConfirmed
}

// IsCompleted reports whether the trial has been resolved either way.
// Completed trials count against the per-lead trial limit.
func (t *TrialBooking) IsCompleted() bool {
	return t.Status == TrialAttended || t.Status == TrialNoShow
}

// CanTransition reports whether the trial can still change state.
func (t *TrialBooking) CanTransition() bool {
	return t.Status == TrialPending || t.Status == TrialConfirmed
}
