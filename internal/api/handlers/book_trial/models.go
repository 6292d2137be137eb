package book_trial

import (
	"time"

	bookTrial "github.com/amar4h/rituyog-booking/internal/usecase/book_trial"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

// BookTrialRequest is the HTTP request model.
type BookTrialRequest struct {
	LeadID      int64  `json:"leadId"`
	SlotID      int64  `json:"slotId"`
	Date        string `json:"date"` // "2025-03-12"
	IsException bool   `json:"isException"`
}

// TrialResponse is the HTTP response model.
type TrialResponse struct {
	ID          int64  `json:"id"`
	LeadID      int64  `json:"leadId"`
	SlotID      int64  `json:"slotId"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	IsException bool   `json:"isException"`
	CreatedAt   string `json:"createdAt"`
}

// ToUseCaseRequest converts the HTTP request, parsing the trial date.
func (r *BookTrialRequest) ToUseCaseRequest() (*bookTrial.Request, error) {
	date, err := dates.Parse(r.Date)
	if err != nil {
		return nil, err
	}

	return &bookTrial.Request{
		LeadID:      r.LeadID,
		SlotID:      r.SlotID,
		Date:        date,
		IsException: r.IsException,
	}, nil
}

// FromUseCaseResponse converts the use case response into the HTTP model.
func FromUseCaseResponse(resp *bookTrial.Response) *TrialResponse {
	return &TrialResponse{
		ID:          resp.ID,
		LeadID:      resp.LeadID,
		SlotID:      resp.SlotID,
		Date:        resp.Date.String(),
		Status:      resp.Status,
		IsException: resp.IsException,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
