package create_subscription

import (
	"fmt"

	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

func validateRequest(req *Request) error {
	if req.MemberID <= 0 {
		return fmt.Errorf("%w: memberID must be positive", ErrInvalidInput)
	}

	if req.PlanID <= 0 {
		return fmt.Errorf("%w: planID must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}

	if req.DiscountAmount < 0 {
		return fmt.Errorf("%w: discountAmount must not be negative", ErrInvalidInput)
	}

	return nil
}

// findOverlap returns the first seat-occupying subscription of the member
// whose range overlaps [start, end], or nil.
func findOverlap(existing []*domain.MembershipSubscription, start, end dates.DateOnly) *domain.MembershipSubscription {
	for _, sub := range existing {
		if dates.Overlaps(sub.StartDate, sub.EndDate, start, end) {
			return sub
		}
	}
	return nil
}
