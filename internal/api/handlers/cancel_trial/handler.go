package cancel_trial

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/amar4h/rituyog-booking/internal/api/handlers"
	"github.com/amar4h/rituyog-booking/internal/domain"
	trialsService "github.com/amar4h/rituyog-booking/internal/service/trials"
)

const (
	msgInvalidTrialID = "invalid trial id"
	msgReasonRequired = "reason is required"
	msgTrialNotFound  = "trial booking not found"
)

type TrialsService interface {
	Cancel(ctx context.Context, id int64, reason string) (*domain.TrialBooking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// CancelTrialRequest is the HTTP request model.
type CancelTrialRequest struct {
	Reason string `json:"reason"`
}

// TrialResponse is the HTTP response model.
type TrialResponse struct {
	ID                 int64   `json:"id"`
	LeadID             int64   `json:"leadId"`
	SlotID             int64   `json:"slotId"`
	Date               string  `json:"date"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	UpdatedAt          string  `json:"updatedAt"`
}

// FromDomain converts the trial booking into the HTTP model.
func FromDomain(trial *domain.TrialBooking) *TrialResponse {
	return &TrialResponse{
		ID:                 trial.ID,
		LeadID:             trial.LeadID,
		SlotID:             trial.SlotID,
		Date:               trial.Date.String(),
		Status:             string(trial.Status),
		CancellationReason: trial.CancellationReason,
		UpdatedAt:          trial.UpdatedAt.Format(time.RFC3339),
	}
}

type Handler struct {
	service TrialsService
	logger  Logger
}

func NewHandler(service TrialsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/trials/{trialId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["trialId"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidTrialID)
		return
	}

	var req CancelTrialRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	if req.Reason == "" {
		handlers.RespondBadRequest(w, msgReasonRequired)
		return
	}

	result, err := h.service.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, trialsService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, trialsService.ErrTrialNotFound):
			handlers.RespondNotFound(w, msgTrialNotFound)
		case errors.Is(err, trialsService.ErrInvalidTransition):
			handlers.RespondConflict(w, err.Error())
		default:
			h.logger.Error("PATCH /trials/{trialId}/cancel - failed: trial_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /trials/{trialId}/cancel - cancelled: trial_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(result))
}
