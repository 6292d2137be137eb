package create_subscription

import (
	"errors"
	"net/http"

	"github.com/amar4h/rituyog-booking/internal/api/handlers"
	createSubscription "github.com/amar4h/rituyog-booking/internal/usecase/create_subscription"
	"github.com/amar4h/rituyog-booking/pkg/txmanager"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidStartDate   = "invalid start date, expected YYYY-MM-DD"
	msgMemberNotFound     = "member not found"
	msgPlanNotFound       = "plan not found"
	msgPlanInactive       = "plan is not active"
	msgSlotNotFound       = "slot not found"
	msgSlotInactive       = "slot is not active"
	msgBusy               = "the slot is busy with another booking, please retry"
)

type Handler struct {
	useCase CreateSubscriptionUseCase
	logger  Logger
}

func NewHandler(useCase CreateSubscriptionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/subscriptions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSubscriptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /subscriptions - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /subscriptions - failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createSubscription.ErrInvalidInput):
			h.logger.Warn("POST /subscriptions - invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createSubscription.ErrMemberNotFound):
			h.logger.Warn("POST /subscriptions - member not found: member_id=%d", req.MemberID)
			handlers.RespondNotFound(w, msgMemberNotFound)

		case errors.Is(err, createSubscription.ErrPlanNotFound):
			h.logger.Warn("POST /subscriptions - plan not found: plan_id=%d", req.PlanID)
			handlers.RespondNotFound(w, msgPlanNotFound)

		case errors.Is(err, createSubscription.ErrSlotNotFound):
			h.logger.Warn("POST /subscriptions - slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createSubscription.ErrPlanInactive):
			h.logger.Warn("POST /subscriptions - plan inactive: plan_id=%d", req.PlanID)
			handlers.RespondConflict(w, msgPlanInactive)

		case errors.Is(err, createSubscription.ErrSlotInactive):
			h.logger.Warn("POST /subscriptions - slot inactive: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgSlotInactive)

		case errors.Is(err, createSubscription.ErrOverlapConflict):
			h.logger.Warn("POST /subscriptions - overlap: member_id=%d, %v", req.MemberID, err)
			handlers.RespondConflict(w, err.Error())

		case errors.Is(err, createSubscription.ErrSlotFull):
			h.logger.Warn("POST /subscriptions - slot full: slot_id=%d, %v", req.SlotID, err)
			handlers.RespondConflict(w, err.Error())

		case errors.Is(err, txmanager.ErrBusy):
			h.logger.Warn("POST /subscriptions - busy: slot_id=%d", req.SlotID)
			handlers.RespondBusy(w, msgBusy)

		default:
			h.logger.Error("POST /subscriptions - failed: member_id=%d, slot_id=%d, error=%v",
				req.MemberID, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /subscriptions - created: subscription_id=%d, member_id=%d, slot_id=%d, invoice=%s",
		result.ID, result.MemberID, result.SlotID, result.InvoiceNumber)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
