package resolve_trial

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
	msgTrialNotFound  = "trial booking not found"
)

type TrialsService interface {
	MarkAttended(ctx context.Context, id int64) (*domain.TrialBooking, error)
	MarkNoShow(ctx context.Context, id int64) (*domain.TrialBooking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TrialResponse is the HTTP response model.
type TrialResponse struct {
	ID          int64  `json:"id"`
	LeadID      int64  `json:"leadId"`
	SlotID      int64  `json:"slotId"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	IsException bool   `json:"isException"`
	UpdatedAt   string `json:"updatedAt"`
}

// FromDomain converts the trial booking into the HTTP model.
func FromDomain(trial *domain.TrialBooking) *TrialResponse {
	return &TrialResponse{
		ID:          trial.ID,
		LeadID:      trial.LeadID,
		SlotID:      trial.SlotID,
		Date:        trial.Date.String(),
		Status:      string(trial.Status),
		IsException: trial.IsException,
		UpdatedAt:   trial.UpdatedAt.Format(time.RFC3339),
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

// HandleAttended PATCH /api/v1/trials/{trialId}/attended
func (h *Handler) HandleAttended(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, "attended", h.service.MarkAttended)
}

// HandleNoShow PATCH /api/v1/trials/{trialId}/no-show
func (h *Handler) HandleNoShow(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, "no-show", h.service.MarkNoShow)
}

func (h *Handler) resolve(
	w http.ResponseWriter,
	r *http.Request,
	outcome string,
	fn func(ctx context.Context, id int64) (*domain.TrialBooking, error),
) {
	id, err := strconv.ParseInt(mux.Vars(r)["trialId"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidTrialID)
		return
	}

	result, err := fn(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, trialsService.ErrTrialNotFound):
			handlers.RespondNotFound(w, msgTrialNotFound)
		case errors.Is(err, trialsService.ErrInvalidTransition):
			handlers.RespondConflict(w, err.Error())
		default:
			h.logger.Error("PATCH /trials/{trialId}/%s - failed: trial_id=%d, error=%v", outcome, id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /trials/{trialId}/%s - resolved: trial_id=%d, status=%s", outcome, id, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(result))
}
