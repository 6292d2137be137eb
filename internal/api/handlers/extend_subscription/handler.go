package extend_subscription

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
	msgInvalidDays           = "days must be a positive integer"
	msgSubscriptionNotFound  = "subscription not found"
	msgNotExtendable         = "subscription cannot be extended in its current status"
	msgBusy                  = "service is busy, please retry"
)

type SubscriptionsService interface {
	Extend(ctx context.Context, id int64, days int, reason *string) (*models.SubscriptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type ExtendRequest struct {
	Days   int     `json:"days"`
	Reason *string `json:"reason,omitempty"`
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

// Handle POST /api/v1/subscriptions/{subscriptionId}/extend
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["subscriptionId"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSubscriptionID)
		return
	}

	var req ExtendRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	if req.Days <= 0 {
		handlers.RespondBadRequest(w, msgInvalidDays)
		return
	}

	result, err := h.service.Extend(r.Context(), id, req.Days, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, subscriptionsService.ErrSubscriptionNotFound):
			handlers.RespondNotFound(w, msgSubscriptionNotFound)
		case errors.Is(err, subscriptionsService.ErrInvalidTransition):
			handlers.RespondConflict(w, msgNotExtendable)
		case errors.Is(err, subscriptionsService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, txmanager.ErrBusy):
			handlers.RespondBusy(w, msgBusy)
		default:
			h.logger.Error("POST /subscriptions/{subscriptionId}/extend - failed: subscription_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /subscriptions/{subscriptionId}/extend - extended: subscription_id=%d, days=%d", id, req.Days)
	handlers.RespondJSON(w, http.StatusOK, result)
}
