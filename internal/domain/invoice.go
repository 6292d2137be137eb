package domain

import (
	"time"

	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// InvoiceStatus represents the delivery state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
	InvoiceVoid  InvoiceStatus = "void"
)

// Invoice is created in the same transaction as its subscription. The engine
// owns the amounts; numbering and PDF rendering belong to the external
// invoicing service.
type Invoice struct {
	ID             int64
	Number         string
	MemberID       int64
	SubscriptionID int64
	Description    string // single line item: plan @ slot
	Amount         float64
	Discount       float64
	Total          float64
	AmountPaid     float64
	Status         InvoiceStatus
	DueDate        dates.DateOnly
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
