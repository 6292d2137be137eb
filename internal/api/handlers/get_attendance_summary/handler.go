package get_attendance_summary

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/amar4h/rituyog-booking/internal/api/handlers"
	"github.com/amar4h/rituyog-booking/internal/domain"
	attendanceService "github.com/amar4h/rituyog-booking/internal/service/attendance"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

const (
	msgInvalidMemberID = "invalid member id"
	msgInvalidSlotID   = "invalid slot_id"
	msgInvalidPeriod   = "start_date and end_date are required as YYYY-MM-DD"
)

type AttendanceService interface {
	SummaryForPeriod(ctx context.Context, memberID, slotID int64, periodStart, periodEnd dates.DateOnly) (*domain.AttendanceSummary, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// SummaryResponse is the HTTP response model.
type SummaryResponse struct {
	MemberID         int64  `json:"memberId"`
	SlotID           int64  `json:"slotId"`
	PeriodStart      string `json:"periodStart"`
	PeriodEnd        string `json:"periodEnd"`
	PresentDays      int    `json:"presentDays"`
	TotalWorkingDays int    `json:"totalWorkingDays"`
}

// FromDomain converts the attendance summary into the HTTP model.
func FromDomain(summary *domain.AttendanceSummary) *SummaryResponse {
	return &SummaryResponse{
		MemberID:         summary.MemberID,
		SlotID:           summary.SlotID,
		PeriodStart:      summary.PeriodStart.String(),
		PeriodEnd:        summary.PeriodEnd.String(),
		PresentDays:      summary.PresentDays,
		TotalWorkingDays: summary.TotalWorkingDays,
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

// Handle GET /api/v1/members/{memberId}/attendance/summary
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.ParseInt(mux.Vars(r)["memberId"], 10, 64)
	if err != nil || memberID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidMemberID)
		return
	}

	query := r.URL.Query()

	slotID, err := strconv.ParseInt(query.Get("slot_id"), 10, 64)
	if err != nil || slotID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	periodStart, err := dates.Parse(query.Get("start_date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	periodEnd, err := dates.Parse(query.Get("end_date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.SummaryForPeriod(r.Context(), memberID, slotID, periodStart, periodEnd)
	if err != nil {
		switch {
		case errors.Is(err, attendanceService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("GET /members/{memberId}/attendance/summary - failed: member_id=%d, error=%v", memberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(result))
}
