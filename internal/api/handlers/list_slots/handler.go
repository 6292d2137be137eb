package list_slots

import (
	"net/http"
	"time"

	"github.com/amar4h/rituyog-booking/internal/api/handlers"
	"github.com/amar4h/rituyog-booking/pkg/dates"
)

const msgInvalidDate = "invalid date, expected YYYY-MM-DD"

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

// Handle GET /api/v1/slots
// The optional date query parameter defaults to today.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date := dates.FromTime(time.Now())
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := dates.Parse(raw)
		if err != nil {
			h.logger.Warn("GET /slots - invalid date %q: %v", raw, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		date = parsed
	}

	occupancies, err := h.capacityService.ListActiveWithOccupancy(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /slots - failed to list slots: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromOccupancies(date.String(), occupancies))
}
