package get_member_subscriptions

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/amar4h/rituyog-booking/internal/api/handlers"
	"github.com/amar4h/rituyog-booking/internal/service/subscriptions/models"
)

const msgInvalidMemberID = "invalid member id"

type SubscriptionsService interface {
	GetByMember(ctx context.Context, memberID int64) (*models.SubscriptionListResponse, error)
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

// Handle GET /api/v1/members/{memberId}/subscriptions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.ParseInt(mux.Vars(r)["memberId"], 10, 64)
	if err != nil || memberID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidMemberID)
		return
	}

	result, err := h.service.GetByMember(r.Context(), memberID)
	if err != nil {
		h.logger.Error("GET /members/{memberId}/subscriptions - failed: member_id=%d, error=%v", memberID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
