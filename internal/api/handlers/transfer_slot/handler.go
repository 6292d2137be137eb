package transfer_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/amar4h/rituyog-booking/internal/api/handlers"
	transferSlot "github.com/amar4h/rituyog-booking/internal/usecase/transfer_slot"
	"github.com/amar4h/rituyog-booking/pkg/txmanager"
)

const (
	msgInvalidSubscriptionID = "invalid subscription id"
	msgSubscriptionNotFound  = "subscription not found"
	msgSlotNotFound          = "slot not found"
	msgSlotInactive          = "slot is not active"
	msgBusy                  = "service is busy, please retry"
)

type Handler struct {
	useCase TransferSlotUseCase
	logger  Logger
}

func NewHandler(useCase TransferSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/subscriptions/{subscriptionId}/transfer
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subscriptionID, err := strconv.ParseInt(mux.Vars(r)["subscriptionId"], 10, 64)
	if err != nil || subscriptionID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSubscriptionID)
		return
	}

	var httpReq TransferSlotRequest
	if err := handlers.DecodeJSON(r, &httpReq); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	req, err := httpReq.ToUseCaseRequest(subscriptionID)
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, transferSlot.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, transferSlot.ErrSubscriptionNotFound):
			handlers.RespondNotFound(w, msgSubscriptionNotFound)
		case errors.Is(err, transferSlot.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgSlotNotFound)
		case errors.Is(err, transferSlot.ErrDateOutOfRange):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, transferSlot.ErrNotTransferable),
			errors.Is(err, transferSlot.ErrSameSlot),
			errors.Is(err, transferSlot.ErrSlotFull):
			handlers.RespondConflict(w, err.Error())
		case errors.Is(err, transferSlot.ErrSlotInactive):
			handlers.RespondConflict(w, msgSlotInactive)
		case errors.Is(err, txmanager.ErrBusy):
			handlers.RespondBusy(w, msgBusy)
		default:
			h.logger.Error("POST /subscriptions/{subscriptionId}/transfer - failed: subscription_id=%d, error=%v", subscriptionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /subscriptions/{subscriptionId}/transfer - transferred: subscription_id=%d, new_slot_id=%d", subscriptionID, req.NewSlotID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
