package check_capacity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/amar4h/rituyog-booking/internal/api/handlers"
	"github.com/amar4h/rituyog-booking/internal/domain"
	"github.com/amar4h/rituyog-booking/internal/service/capacity"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

const (
	msgInvalidSlotID = "invalid slot id"
	msgInvalidDates  = "invalid date range, expected start_date and end_date as YYYY-MM-DD"
	msgSlotNotFound  = "slot not found"
	msgSlotInactive  = "slot is not active"
)

// CapacityResponse is the occupancy classification for the queried window.
type CapacityResponse struct {
	Available       bool   `json:"available"`
	IsExceptionOnly bool   `json:"isExceptionOnly"`
	CurrentBookings int    `json:"currentBookings"`
	NormalCapacity  int    `json:"normalCapacity"`
	TotalCapacity   int    `json:"totalCapacity"`
	Message         string `json:"message"`
}

type Handler struct {
	capacityService CapacityService
	logger          Logger
}

func NewHandler(capacityService CapacityService, logger Logger) *Handler {
	return &Handler{
		capacityService: capacityService,
		logger:          logger,
	}
}

// Handle GET /api/v1/slots/{slotId}/capacity
// Query: start_date, end_date (end_date defaults to start_date for a
// single-day check), optional exclude_member_id for renewal previews.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	query := r.URL.Query()

	start, err := dates.Parse(query.Get("start_date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	end := start
	if raw := query.Get("end_date"); raw != "" {
		end, err = dates.Parse(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDates)
			return
		}
	}

	var exclude *int64
	if raw := query.Get("exclude_member_id"); raw != "" {
		memberID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || memberID <= 0 {
			handlers.RespondBadRequest(w, "invalid exclude_member_id")
			return
		}
		exclude = &memberID
	}

	result, err := h.capacityService.CheckSlot(r.Context(), slotID, start, end, exclude)
	if err != nil {
		switch {
		case errors.Is(err, capacity.ErrSlotNotFound):
			h.logger.Warn("GET /slots/{slotId}/capacity - slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, capacity.ErrSlotInactive):
			h.logger.Warn("GET /slots/{slotId}/capacity - slot inactive: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgSlotInactive)

		case errors.Is(err, capacity.ErrInvalidWindow):
			handlers.RespondBadRequest(w, msgInvalidDates)

		default:
			h.logger.Error("GET /slots/{slotId}/capacity - failed: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fromResult(result))
}

func fromResult(result *domain.CapacityResult) *CapacityResponse {
	return &CapacityResponse{
		Available:       result.Available,
		IsExceptionOnly: result.IsExceptionOnly,
		CurrentBookings: result.CurrentBookings,
		NormalCapacity:  result.NormalCapacity,
		TotalCapacity:   result.TotalCapacity,
		Message:         result.Message,
	}
}
