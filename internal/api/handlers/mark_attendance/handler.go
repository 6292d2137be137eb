package mark_attendance

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/amar4h/rituyog-booking/internal/api/handlers"
	"github.com/amar4h/rituyog-booking/internal/domain"
	attendanceService "github.com/amar4h/rituyog-booking/internal/service/attendance"
	"github.com/amar4h/rituyog-booking/pkg/dates"
	"github.com/amar4h/rituyog-booking/pkg/txmanager"
)

const (
	msgMemberNotFound = "member not found"
	msgBusy           = "service is busy, please retry"
)

type AttendanceService interface {
	Mark(ctx context.Context, req *attendanceService.MarkRequest) (*domain.AttendanceRecord, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MarkAttendanceRequest is the HTTP request model.
type MarkAttendanceRequest struct {
	MemberID int64   `json:"memberId"`
	SlotID   int64   `json:"slotId"`
	Date     string  `json:"date"` // "2025-03-12"
	Status   string  `json:"status"`
	Notes    *string `json:"notes,omitempty"`
}

// AttendanceResponse is the HTTP response model.
type AttendanceResponse struct {
	ID             int64   `json:"id"`
	MemberID       int64   `json:"memberId"`
	SlotID         int64   `json:"slotId"`
	Date           string  `json:"date"`
	Status         string  `json:"status"`
	SubscriptionID *int64  `json:"subscriptionId,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	MarkedAt       string  `json:"markedAt"`
}

// FromDomain converts the attendance record into the HTTP model.
func FromDomain(rec *domain.AttendanceRecord) *AttendanceResponse {
	return &AttendanceResponse{
		ID:             rec.ID,
		MemberID:       rec.MemberID,
		SlotID:         rec.SlotID,
		Date:           rec.Date.String(),
		Status:         string(rec.Status),
		SubscriptionID: rec.SubscriptionID,
		Notes:          rec.Notes,
		MarkedAt:       rec.MarkedAt.Format(time.RFC3339),
	}
}

type Handler struct {
	service AttendanceService
	logger  Logger
}

func NewHandler(service AttendanceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/attendance
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var httpReq MarkAttendanceRequest
	if err := handlers.DecodeJSON(r, &httpReq); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	date, err := dates.Parse(httpReq.Date)
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.Mark(r.Context(), &attendanceService.MarkRequest{
		MemberID: httpReq.MemberID,
		SlotID:   httpReq.SlotID,
		Date:     date,
		Status:   domain.AttendanceStatus(httpReq.Status),
		Notes:    httpReq.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, attendanceService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, attendanceService.ErrStaleDate):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, attendanceService.ErrMemberNotFound):
			handlers.RespondNotFound(w, msgMemberNotFound)
		case errors.Is(err, txmanager.ErrBusy):
			handlers.RespondBusy(w, msgBusy)
		default:
			h.logger.Error("POST /attendance - failed: member_id=%d, error=%v", httpReq.MemberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /attendance - marked: member_id=%d, slot_id=%d, date=%s, status=%s",
		result.MemberID, result.SlotID, result.Date, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(result))
}
