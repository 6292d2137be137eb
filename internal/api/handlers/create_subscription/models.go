package create_subscription

import (
	"time"

	createSubscription "github.com/amar4h/rituyog-booking/internal/usecase/create_subscription"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// CreateSubscriptionRequest is the HTTP request model.
type CreateSubscriptionRequest struct {
	MemberID       int64   `json:"memberId"`
	PlanID         int64   `json:"planId"`
	SlotID         int64   `json:"slotId"`
	StartDate      string  `json:"startDate"` // "2025-03-01"
	DiscountAmount float64 `json:"discountAmount"`
	DiscountReason *string `json:"discountReason,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// SubscriptionResponse is the HTTP response model.
type SubscriptionResponse struct {
	ID            int64  `json:"id"`
	MemberID      int64  `json:"memberId"`
	PlanID        int64  `json:"planId"`
	SlotID        int64  `json:"slotId"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`

	OriginalAmount float64 `json:"originalAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	PayableAmount  float64 `json:"payableAmount"`

	PlanName string `json:"planName"`
	SlotName string `json:"slotName"`

	InvoiceID     int64  `json:"invoiceId"`
	InvoiceNumber string `json:"invoiceNumber"`

	IsException bool   `json:"isException"`
	Warning     string `json:"warning,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest converts the HTTP request, parsing the start date.
func (r *CreateSubscriptionRequest) ToUseCaseRequest() (*createSubscription.Request, error) {
	startDate, err := dates.Parse(r.StartDate)
	if err != nil {
		return nil, err
	}

	return &createSubscription.Request{
		MemberID:       r.MemberID,
		PlanID:         r.PlanID,
		SlotID:         r.SlotID,
		StartDate:      startDate,
		DiscountAmount: r.DiscountAmount,
		DiscountReason: r.DiscountReason,
		Notes:          r.Notes,
	}, nil
}

// FromUseCaseResponse converts the use case response into the HTTP model.
func FromUseCaseResponse(resp *createSubscription.Response) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:             resp.ID,
		MemberID:       resp.MemberID,
		PlanID:         resp.PlanID,
		SlotID:         resp.SlotID,
		StartDate:      resp.StartDate.String(),
		EndDate:        resp.EndDate.String(),
		Status:         resp.Status,
		PaymentStatus:  resp.PaymentStatus,
		OriginalAmount: resp.OriginalAmount,
		DiscountAmount: resp.DiscountAmount,
		PayableAmount:  resp.PayableAmount,
		PlanName:       resp.PlanName,
		SlotName:       resp.SlotName,
		InvoiceID:      resp.InvoiceID,
		InvoiceNumber:  resp.InvoiceNumber,
		IsException:    resp.IsException,
		Warning:        resp.Warning,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
