package models

import (
	"time"

	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// SubscriptionResponse is the read model returned by the service.
type SubscriptionResponse struct {
	ID            int64          `json:"id"`
	MemberID      int64          `json:"member_id"`
	PlanID        int64          `json:"plan_id"`
	SlotID        int64          `json:"slot_id"`
	StartDate     dates.DateOnly `json:"start_date"`
	EndDate       dates.DateOnly `json:"end_date"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"payment_status"`

	OriginalAmount float64 `json:"original_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	PayableAmount  float64 `json:"payable_amount"`
	DiscountReason *string `json:"discount_reason,omitempty"`

	ExtraDays       int     `json:"extra_days"`
	ExtraDaysReason *string `json:"extra_days_reason,omitempty"`
	ExtensionDays   int     `json:"extension_days"`

	InvoiceID *int64 `json:"invoice_id,omitempty"`

	PlanName string  `json:"plan_name"`
	SlotName string  `json:"slot_name"`
	Notes    *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriptionListResponse wraps a list of subscriptions.
type SubscriptionListResponse struct {
	Subscriptions []*SubscriptionResponse `json:"subscriptions"`
}

// FromDomain converts a domain subscription into the response model.
func FromDomain(sub *domain.MembershipSubscription) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:              sub.ID,
		MemberID:        sub.MemberID,
		PlanID:          sub.PlanID,
		SlotID:          sub.SlotID,
		StartDate:       sub.StartDate,
		EndDate:         sub.EndDate,
		Status:          string(sub.Status),
		PaymentStatus:   string(sub.PaymentStatus),
		OriginalAmount:  sub.OriginalAmount,
		DiscountAmount:  sub.DiscountAmount,
		PayableAmount:   sub.PayableAmount,
		DiscountReason:  sub.DiscountReason,
		ExtraDays:       sub.ExtraDays,
		ExtraDaysReason: sub.ExtraDaysReason,
		ExtensionDays:   sub.ExtensionDays,
		InvoiceID:       sub.InvoiceID,
		PlanName:        sub.PlanName,
		SlotName:        sub.SlotName,
		Notes:           sub.Notes,
		CreatedAt:       sub.CreatedAt,
		UpdatedAt:       sub.UpdatedAt,
	}
}

// FromDomainList converts a slice of domain subscriptions.
func FromDomainList(subs []*domain.MembershipSubscription) *SubscriptionListResponse {
	out := make([]*SubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, FromDomain(sub))
	}
	return &SubscriptionListResponse{Subscriptions: out}
}
