package set_extra_days

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/amar4h/rituyog-booking/internal/api/handlers"
	subscriptionsService "github.com/amar4h/rituyog-booking/internal/service/subscriptions"
	"github.com/amar4h/rituyog-booking/internal/service/subscriptions/models"
	"github.com/amar4h/rituyog-booking/pkg/txmanager"
)

const (
	msgInvalidSubscriptionID = "invalid subscription id"
	msgInvalidExtraDays      = "extraDays must be zero or a positive integer"
	msgSubscriptionNotFound  = "subscription not found"
	msgNotAdjustable         = "subscription cannot be adjusted in its current status"
	msgBusy                  = "service is busy, please retry"
)

type SubscriptionsService interface {
	SetExtraDays(ctx context.Context, id int64, newTotal int, reason *string) (*models.SubscriptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type SetExtraDaysRequest struct {
	ExtraDays int     `json:"extraDays"`
	Reason    *string `json:"reason,omitempty"`
}

type Handler struct {
	service SubscriptionsService
	logger  Logger
}

func NewHandler(service SubscriptionsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/subscriptions/{subscriptionId}/extra-days
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["subscriptionId"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSubscriptionID)
		return
	}

	var req SetExtraDaysRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	if req.ExtraDays < 0 {
		handlers.RespondBadRequest(w, msgInvalidExtraDays)
		return
	}

	result, err := h.service.SetExtraDays(r.Context(), id, req.ExtraDays, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, subscriptionsService.ErrSubscriptionNotFound):
			handlers.RespondNotFound(w, msgSubscriptionNotFound)
		case errors.Is(err, subscriptionsService.ErrInvalidTransition):
			handlers.RespondConflict(w, msgNotAdjustable)
		case errors.Is(err, subscriptionsService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, txmanager.ErrBusy):
			handlers.RespondBusy(w, msgBusy)
		default:
			h.logger.Error("PUT /subscriptions/{subscriptionId}/extra-days - failed: subscription_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /subscriptions/{subscriptionId}/extra-days - updated: subscription_id=%d, extra_days=%d", id, req.ExtraDays)
	handlers.RespondJSON(w, http.StatusOK, result)
}
