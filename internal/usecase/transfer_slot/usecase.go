package transfer_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/amar4h/rituyog-booking/internal/domain"
	assignmentRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/assignment"
	slotRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/slot"
	subscriptionRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/subscription"
	"github.com/amar4h/rituyog-booking/pkg/ptr"
)

// UseCase moves an active or scheduled subscription to another slot from an
// effective date onward. Capacity in the target slot is checked over the
// remaining subscription period inside the same serializable transaction
// that rewrites the subscription, the member pointer and the assignment.
type UseCase struct {
	subscriptionRepo SubscriptionRepository
	slotRepo         SlotRepository
	memberRepo       MemberRepository
	assignmentRepo   AssignmentRepository
	capacity         CapacityChecker
	txManager        TransactionManager
	logger           Logger
}

// NewUseCase creates the use case.
func NewUseCase(
	subscriptionRepo SubscriptionRepository,
	slotRepo SlotRepository,
	memberRepo MemberRepository,
	assignmentRepo AssignmentRepository,
	capacity CapacityChecker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		subscriptionRepo: subscriptionRepo,
		slotRepo:         slotRepo,
		memberRepo:       memberRepo,
		assignmentRepo:   assignmentRepo,
		capacity:         capacity,
		txManager:        txManager,
		logger:           logger,
	}
}

// Execute performs the transfer.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransferSlot: subscription=%d, newSlot=%d, effective=%s",
		req.SubscriptionID, req.NewSlotID, req.EffectiveDate)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransferSlot: validation failed: %v", err)
		return nil, err
	}

	var (
		resp        Response
		isException bool
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Lock the subscription row first, then the target slot row. The
		// lock order is fixed so concurrent transfers cannot deadlock.
		sub, err := uc.subscriptionRepo.GetByID(txCtx, req.SubscriptionID)
		if err != nil {
			if errors.Is(err, subscriptionRepo.ErrSubscriptionNotFound) {
				uc.logger.Warn("TransferSlot: subscription id=%d not found", req.SubscriptionID)
				return ErrSubscriptionNotFound
			}
			uc.logger.Error("TransferSlot: failed to get subscription id=%d: %v", req.SubscriptionID, err)
			return fmt.Errorf("%w: failed to get subscription: %v", ErrInternal, err)
		}

		if !sub.CanTransfer() {
			uc.logger.Warn("TransferSlot: subscription id=%d has status %s", sub.ID, sub.Status)
			return fmt.Errorf("%w: status is %s", ErrNotTransferable, sub.Status)
		}

		if sub.SlotID == req.NewSlotID {
			return ErrSameSlot
		}

		if !sub.Covers(req.EffectiveDate) {
			uc.logger.Warn("TransferSlot: effective date %s outside %s..%s",
				req.EffectiveDate, sub.StartDate, sub.EndDate)
			return fmt.Errorf("%w: subscription runs %s to %s", ErrDateOutOfRange,
				sub.StartDate, sub.EndDate)
		}

		newSlot, err := uc.slotRepo.GetByID(txCtx, req.NewSlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("TransferSlot: slot id=%d not found", req.NewSlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("TransferSlot: failed to get slot id=%d: %v", req.NewSlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		if !newSlot.IsActive {
			uc.logger.Warn("TransferSlot: slot id=%d is not active", req.NewSlotID)
			return ErrSlotInactive
		}

		// Capacity in the target slot over the remaining period only. Days
		// already spent in the old slot do not count against the new one.
		capResult, err := uc.capacity.CheckWindow(txCtx, newSlot, req.EffectiveDate, sub.EndDate, ptr.Ptr(sub.MemberID))
		if err != nil {
			uc.logger.Error("TransferSlot: capacity check failed for slot id=%d: %v", req.NewSlotID, err)
			return fmt.Errorf("%w: capacity check failed: %v", ErrInternal, err)
		}

		if !capResult.Available {
			uc.logger.Warn("TransferSlot: slot id=%d full, %d/%d seats taken",
				req.NewSlotID, capResult.CurrentBookings, capResult.TotalCapacity)
			return fmt.Errorf("%w: %s", ErrSlotFull, capResult.Message)
		}

		isException = capResult.IsExceptionOnly
		if isException {
			uc.logger.Warn("TransferSlot: slot id=%d seating member id=%d from the exception pool, %d/%d",
				req.NewSlotID, sub.MemberID, capResult.CurrentBookings, capResult.TotalCapacity)
		}

		notes := appendTransferNote(sub.Notes, sub.SlotName, newSlot.DisplayName, req)

		if err := uc.subscriptionRepo.UpdateSlot(txCtx, sub.ID, newSlot.ID, newSlot.DisplayName, notes); err != nil {
			uc.logger.Error("TransferSlot: failed to update subscription id=%d: %v", sub.ID, err)
			return fmt.Errorf("%w: failed to update subscription: %v", ErrInternal, err)
		}

		if err := uc.memberRepo.UpdateStatusAndSlot(txCtx, sub.MemberID, domain.MemberActive, newSlot.ID); err != nil {
			uc.logger.Error("TransferSlot: failed to update member id=%d: %v", sub.MemberID, err)
			return fmt.Errorf("%w: failed to update member: %v", ErrInternal, err)
		}

		if err := uc.rollAssignment(txCtx, sub, newSlot.ID, req, isException); err != nil {
			return err
		}

		resp = Response{
			SubscriptionID: sub.ID,
			MemberID:       sub.MemberID,
			OldSlotID:      sub.SlotID,
			OldSlotName:    sub.SlotName,
			NewSlotID:      newSlot.ID,
			NewSlotName:    newSlot.DisplayName,
			EffectiveDate:  req.EffectiveDate,
			EndDate:        sub.EndDate,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("TransferSlot: moved subscription id=%d from slot %d to slot %d effective %s",
		resp.SubscriptionID, resp.OldSlotID, resp.NewSlotID, resp.EffectiveDate)

	resp.IsException = isException
	if isException {
		resp.Warning = "seated from the exception pool: the slot is at normal capacity"
	}
	return &resp, nil
}

// rollAssignment closes the member's active assignment the day before the
// effective date and opens a new one in the target slot.
func (uc *UseCase) rollAssignment(ctx context.Context, sub *domain.MembershipSubscription, newSlotID int64, req *Request, isException bool) error {
	current, err := uc.assignmentRepo.GetActiveByMember(ctx, sub.MemberID)
	if err != nil && !errors.Is(err, assignmentRepo.ErrAssignmentNotFound) {
		uc.logger.Error("TransferSlot: failed to get assignment for member id=%d: %v", sub.MemberID, err)
		return fmt.Errorf("%w: failed to get assignment: %v", ErrInternal, err)
	}

	if current != nil {
		if err := uc.assignmentRepo.Deactivate(ctx, current.ID, req.EffectiveDate.AddDays(-1)); err != nil {
			uc.logger.Error("TransferSlot: failed to deactivate assignment id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to deactivate assignment: %v", ErrInternal, err)
		}
	}

	if _, err := uc.assignmentRepo.Create(ctx, &domain.SlotAssignment{
		MemberID:    sub.MemberID,
		SlotID:      newSlotID,
		StartDate:   req.EffectiveDate,
		IsException: isException,
	}); err != nil {
		uc.logger.Error("TransferSlot: failed to create assignment for member id=%d: %v", sub.MemberID, err)
		return fmt.Errorf("%w: failed to create assignment: %v", ErrInternal, err)
	}

	return nil
}
