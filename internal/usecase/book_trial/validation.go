package book_trial

import "fmt"

func validateRequest(req *Request) error {
	if req.LeadID <= 0 {
		return fmt.Errorf("%w: leadID must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Trials run on working days only. A weekend date fails before any
	// capacity or eligibility lookups.
	if !req.Date.IsWorkingDay() {
		return fmt.Errorf("%w: %s is a %s", ErrNotWorkingDay, req.Date, req.Date.Weekday())
	}

	return nil
}
