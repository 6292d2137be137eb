package create_subscription

import (
	"time"

	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// Request carries the input for creating a subscription.
type Request struct {
	MemberID       int64
	PlanID         int64
	SlotID         int64
	StartDate      dates.DateOnly
	DiscountAmount float64
	DiscountReason *string
	Notes          *string
}

// Response is the created subscription plus booking context the caller
// needs to show: the invoice number and an exception-seat warning.
type Response struct {
	ID            int64
	MemberID      int64
	PlanID        int64
	SlotID        int64
	StartDate     dates.DateOnly
	EndDate       dates.DateOnly
	Status        string
	PaymentStatus string

	OriginalAmount float64
	DiscountAmount float64
	PayableAmount  float64

	PlanName string
	SlotName string

	InvoiceID     int64
	InvoiceNumber string

	// IsException is set when the seat came from the overflow pool.
	IsException bool
	// Warning is a human-readable note about exception seating or a
	// degraded invoice number; empty when nothing is off.
	Warning string

	CreatedAt time.Time
	UpdatedAt time.Time
}
