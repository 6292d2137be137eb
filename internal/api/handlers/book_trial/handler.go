package book_trial

import (
	"errors"
	"net/http"

	"github.com/amar4h/rituyog-booking/internal/api/handlers"
	bookTrial "github.com/amar4h/rituyog-booking/internal/usecase/book_trial"
	"github.com/amar4h/rituyog-booking/pkg/txmanager"
)

const (
	msgLeadNotFound = "lead not found"
	msgSlotNotFound = "slot not found"
	msgSlotInactive = "slot is not active"
	msgBusy         = "service is busy, please retry"
)

type Handler struct {
	useCase BookTrialUseCase
	logger  Logger
}

func NewHandler(useCase BookTrialUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/trials
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var httpReq BookTrialRequest
	if err := handlers.DecodeJSON(r, &httpReq); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	req, err := httpReq.ToUseCaseRequest()
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookTrial.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, bookTrial.ErrNotWorkingDay):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, bookTrial.ErrLeadNotFound):
			handlers.RespondNotFound(w, msgLeadNotFound)
		case errors.Is(err, bookTrial.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgSlotNotFound)
		case errors.Is(err, bookTrial.ErrTrialLimitReached),
			errors.Is(err, bookTrial.ErrDuplicateTrial),
			errors.Is(err, bookTrial.ErrAlreadyMember),
			errors.Is(err, bookTrial.ErrSlotFull):
			handlers.RespondConflict(w, err.Error())
		case errors.Is(err, bookTrial.ErrSlotInactive):
			handlers.RespondConflict(w, msgSlotInactive)
		case errors.Is(err, txmanager.ErrBusy):
			handlers.RespondBusy(w, msgBusy)
		default:
			h.logger.Error("POST /trials - failed: lead_id=%d, error=%v", req.LeadID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /trials - booked: trial_id=%d, lead_id=%d, slot_id=%d, date=%s",
		result.ID, result.LeadID, result.SlotID, result.Date)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
