package domain

import (
	"time"

	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// SubscriptionStatus represents the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionScheduled SubscriptionStatus = "scheduled"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// PaymentStatus represents the payment state of a subscription.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// MembershipSubscription is a member's paid occupancy of a slot for an
// inclusive date range. Rows are never deleted, only status-transitioned.
//
// EndDate always equals the plan-derived base end date plus ExtraDays plus
// ExtensionDays. ExtraDays is an authoritative total (set-absolute),
// ExtensionDays an accumulating counter; the two mechanisms are kept apart
// so reporting can tell renewal extensions from compensation days.
type MembershipSubscription struct {
	ID            int64
	MemberID      int64
	PlanID        int64
	SlotID        int64
	StartDate     dates.DateOnly
	EndDate       dates.DateOnly
	Status        SubscriptionStatus
	PaymentStatus PaymentStatus

	OriginalAmount float64
	DiscountAmount float64
	PayableAmount  float64 // max(0, original - discount)
	DiscountReason *string

	ExtraDays       int // cumulative total, >= 0
	ExtraDaysReason *string
	ExtensionDays   int

	InvoiceID *int64 // nil until the invoice is persisted

	// Denormalized for history and error messages.
	PlanName string
	SlotName string

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSeat reports whether this subscription counts toward slot capacity
// and toward the member's own overlap check.
func (s *MembershipSubscription) OccupiesSeat() bool {
	switch s.Status {
	case SubscriptionActive, SubscriptionPending, SubscriptionScheduled:
		return true
	}
	return false
}

// CanTransfer reports whether the subscription may move to another slot.
func (s *MembershipSubscription) CanTransfer() bool {
	return s.Status == SubscriptionActive || s.Status == SubscriptionScheduled
}

// Covers reports whether the given date falls inside the subscription range.
func (s *MembershipSubscription) Covers(date dates.DateOnly) bool {
	return !date.Before(s.StartDate) && !date.After(s.EndDate)
}

// SlotAssignment is the per-member occupancy pointer: at most one active row
// per member. On deactivation EndDate is stamped; the member's assigned slot
// reference is kept for history.
type SlotAssignment struct {
	ID          int64
	MemberID    int64
	SlotID      int64
	StartDate   dates.DateOnly
	EndDate     *dates.DateOnly // nil while active
	IsActive    bool
	IsException bool // seated from the overflow pool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
