package transfer_slot

import (
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// Request carries the input for moving a subscription to another slot.
type Request struct {
	SubscriptionID int64
	NewSlotID      int64
	EffectiveDate  dates.DateOnly
	Reason         *string
}

// Response describes the subscription after the transfer.
type Response struct {
	SubscriptionID int64
	MemberID       int64
	OldSlotID      int64
	OldSlotName    string
	NewSlotID      int64
	NewSlotName    string
	EffectiveDate  dates.DateOnly
	EndDate        dates.DateOnly

	// IsException is set when the seat in the target slot came from the
	// overflow pool.
	IsException bool
	// Warning is empty unless the member was seated from the exception pool.
	Warning string
}
