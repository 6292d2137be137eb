package transfer_slot

import (
	transferSlot "github.com/amar4h/rituyog-booking/internal/usecase/transfer_slot"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// TransferSlotRequest is the HTTP request model.
type TransferSlotRequest struct {
	NewSlotID     int64   `json:"newSlotId"`
	EffectiveDate string  `json:"effectiveDate"` // "2025-03-15"
	Reason        *string `json:"reason,omitempty"`
}

// TransferSlotResponse is the HTTP response model.
type TransferSlotResponse struct {
	SubscriptionID int64  `json:"subscriptionId"`
	MemberID       int64  `json:"memberId"`
	OldSlotID      int64  `json:"oldSlotId"`
	OldSlotName    string `json:"oldSlotName"`
	NewSlotID      int64  `json:"newSlotId"`
	NewSlotName    string `json:"newSlotName"`
	EffectiveDate  string `json:"effectiveDate"`
	EndDate        string `json:"endDate"`
	IsException    bool   `json:"isException"`
	Warning        string `json:"warning,omitempty"`
}

// ToUseCaseRequest converts the HTTP request, parsing the effective date.
func (r *TransferSlotRequest) ToUseCaseRequest(subscriptionID int64) (*transferSlot.Request, error) {
	effectiveDate, err := dates.Parse(r.EffectiveDate)
	if err != nil {
		return nil, err
	}

	return &transferSlot.Request{
		SubscriptionID: subscriptionID,
		NewSlotID:      r.NewSlotID,
		EffectiveDate:  effectiveDate,
		Reason:         r.Reason,
	}, nil
}

// FromUseCaseResponse converts the use case response into the HTTP model.
func FromUseCaseResponse(resp *transferSlot.Response) *TransferSlotResponse {
	return &TransferSlotResponse{
		SubscriptionID: resp.SubscriptionID,
		MemberID:       resp.MemberID,
		OldSlotID:      resp.OldSlotID,
		OldSlotName:    resp.OldSlotName,
		NewSlotID:      resp.NewSlotID,
		NewSlotName:    resp.NewSlotName,
		EffectiveDate:  resp.EffectiveDate.String(),
		EndDate:        resp.EndDate.String(),
		IsException:    resp.IsException,
		Warning:        resp.Warning,
	}
}
