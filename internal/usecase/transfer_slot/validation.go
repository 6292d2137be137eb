package transfer_slot

import (
	"fmt"
	"strings"
)

func validateRequest(req *Request) error {
	if req.SubscriptionID <= 0 {
		return fmt.Errorf("%w: subscriptionID must be positive", ErrInvalidInput)
	}

	if req.NewSlotID <= 0 {
		return fmt.Errorf("%w: newSlotID must be positive", ErrInvalidInput)
	}

	if req.EffectiveDate.IsZero() {
		return fmt.Errorf("%w: effectiveDate is required", ErrInvalidInput)
	}

	return nil
}

// appendTransferNote adds an audit line to the subscription notes so the
// transfer history survives in the record itself.
func appendTransferNote(notes *string, oldSlotName, newSlotName string, req *Request) *string {
	line := fmt.Sprintf("transferred from %s to %s effective %s", oldSlotName, newSlotName, req.EffectiveDate)
	if req.Reason != nil && *req.Reason != "" {
		line += ": " + *req.Reason
	}

	var b strings.Builder
	if notes != nil && *notes != "" {
		b.WriteString(*notes)
		b.WriteString("\n")
	}
	b.WriteString(line)

	out := b.String()
	return &out
}
