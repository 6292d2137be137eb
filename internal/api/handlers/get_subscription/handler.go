package get_subscription

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/amar4h/rituyog-booking/internal/api/handlers"
	subscriptionsService "github.com/amar4h/rituyog-booking/internal/service/subscriptions"
	"github.com/amar4h/rituyog-booking/internal/service/subscriptions/models"
)

const (
	msgInvalidSubscriptionID = "invalid subscription id"
	msgSubscriptionNotFound  = "subscription not found"
)

type SubscriptionsService interface {
	GetByID(ctx context.Context, id int64) (*models.SubscriptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
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

// Handle GET /api/v1/subscriptions/{subscriptionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["subscriptionId"], 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSubscriptionID)
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, subscriptionsService.ErrSubscriptionNotFound) {
			h.logger.Warn("GET /subscriptions/{subscriptionId} - not found: subscription_id=%d", id)
			handlers.RespondNotFound(w, msgSubscriptionNotFound)
			return
		}
		h.logger.Error("GET /subscriptions/{subscriptionId} - failed: subscription_id=%d, error=%v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
